package adapters

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ccgo/internal/ports"
	"ccgo/internal/types"
)

const symlinkProbeName = ".ccgo-symlink-probe"

// LinkAdapter exposes cache slots as symlinks when the target filesystem
// supports them and as recursive copies otherwise. Support is probed once
// per parent directory.
type LinkAdapter struct {
	symlink func(oldname string, newname string) error

	mu      sync.Mutex
	capable map[string]bool
}

func NewLinkAdapter() *LinkAdapter {
	return &LinkAdapter{
		symlink: os.Symlink,
		capable: map[string]bool{},
	}
}

func (a *LinkAdapter) Link(src string, dest string) (types.LinkMode, error) {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create dependency directory").
			WithCause(err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove previous dependency path").
			WithCause(err)
	}
	if a.CanSymlink(parent) {
		target := src
		if abs, err := filepath.Abs(src); err == nil {
			target = abs
		}
		if err := a.symlink(target, dest); err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create dependency symlink").
				WithCause(err)
		}
		return types.LinkModeSymlink, nil
	}
	log.Debug().Str("src", src).Str("dest", dest).Msg("symlinks unavailable, copying dependency")
	if err := copyTree(src, dest); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to copy dependency").
			WithCause(err)
	}
	return types.LinkModeCopy, nil
}

// CanSymlink reports whether symlinks can be created inside dir.
func (a *LinkAdapter) CanSymlink(dir string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if capable, ok := a.capable[dir]; ok {
		return capable
	}
	probe := filepath.Join(dir, symlinkProbeName)
	_ = os.Remove(probe)
	err := a.symlink(dir, probe)
	if err == nil {
		_ = os.Remove(probe)
	}
	a.capable[dir] = err == nil
	return err == nil
}

func copyTree(src string, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 && info.IsDir() {
			// Linked directories are not followed to avoid cycles.
			log.Debug().Str("path", path).Msg("skipping linked directory in copy")
			return nil
		}
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(srcPath string, destPath string, perm fs.FileMode) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer srcFile.Close()
	destFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destFile, srcFile); err != nil {
		_ = destFile.Close()
		return err
	}
	return destFile.Close()
}

var _ ports.LinkPort = (*LinkAdapter)(nil)
