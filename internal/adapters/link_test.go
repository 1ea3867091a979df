package adapters

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccgo/internal/types"
)

func writeSlot(t *testing.T) string {
	t.Helper()
	slot := filepath.Join(t.TempDir(), "slot")
	require.NoError(t, os.MkdirAll(filepath.Join(slot, "include", "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(slot, "include", "nested", "a.h"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(slot, "CMakeLists.txt"), []byte("project(a)"), 0644))
	return slot
}

func TestLinkAdapterSymlink(t *testing.T) {
	slot := writeSlot(t)
	linker := NewLinkAdapter()
	dest := filepath.Join(t.TempDir(), "third_party", "fmt")
	if !linker.CanSymlink(t.TempDir()) {
		t.Skip("symlinks not supported")
	}

	mode, err := linker.Link(slot, dest)
	require.NoError(t, err)
	assert.Equal(t, types.LinkModeSymlink, mode)
	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, slot, target)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), symlinkProbeName))
}

func TestLinkAdapterReplacesExistingPath(t *testing.T) {
	slot := writeSlot(t)
	linker := NewLinkAdapter()
	linker.symlink = func(string, string) error { return errors.New("no symlinks") }
	dest := filepath.Join(t.TempDir(), "fmt")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "stale"), 0755))

	mode, err := linker.Link(slot, dest)
	require.NoError(t, err)
	assert.Equal(t, types.LinkModeCopy, mode)
	assert.NoDirExists(t, filepath.Join(dest, "stale"))
}

func TestLinkAdapterCopyFallback(t *testing.T) {
	slot := writeSlot(t)
	linker := NewLinkAdapter()
	calls := 0
	linker.symlink = func(string, string) error {
		calls++
		return errors.New("operation not permitted")
	}
	dest := filepath.Join(t.TempDir(), "fmt")

	mode, err := linker.Link(slot, dest)
	require.NoError(t, err)
	assert.Equal(t, types.LinkModeCopy, mode)
	data, err := os.ReadFile(filepath.Join(dest, "include", "nested", "a.h"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
	require.FileExists(t, filepath.Join(dest, "CMakeLists.txt"))
	info, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = linker.Link(slot, filepath.Join(filepath.Dir(dest), "other"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "capability is probed once per directory")
}

func TestLinkAdapterCopySkipsLinkedDirectories(t *testing.T) {
	slot := writeSlot(t)
	if err := os.Symlink(filepath.Join(slot, "include"), filepath.Join(slot, "loop")); err != nil {
		t.Skip("symlinks not supported")
	}
	linker := NewLinkAdapter()
	linker.symlink = func(string, string) error { return errors.New("no symlinks") }
	dest := filepath.Join(t.TempDir(), "fmt")

	mode, err := linker.Link(slot, dest)
	require.NoError(t, err)
	assert.Equal(t, types.LinkModeCopy, mode)
	assert.FileExists(t, filepath.Join(dest, "include", "nested", "a.h"))
	assert.NoFileExists(t, filepath.Join(dest, "loop"))
	assert.NoDirExists(t, filepath.Join(dest, "loop"))
}
