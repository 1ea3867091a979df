package core

import (
	"os"
	"path/filepath"

	"ccgo/internal/types"
)

var includeCandidates = []string{"include", "src", ""}

// IncludeDir returns the first existing directory among path/include,
// path/src and path itself.
func IncludeDir(path string) (string, bool) {
	for _, candidate := range includeCandidates {
		dir := path
		if candidate != "" {
			dir = filepath.Join(path, candidate)
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// IncludeDirs collects one include directory per path. Paths without a
// matching directory contribute nothing.
func IncludeDirs(paths []string) []string {
	var dirs []string
	for _, path := range paths {
		if dir, ok := IncludeDir(path); ok {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func IncludeDirsFor(deps []types.ResolvedDependency) []string {
	paths := make([]string, 0, len(deps))
	for _, dep := range deps {
		paths = append(paths, dep.Path)
	}
	return IncludeDirs(paths)
}
