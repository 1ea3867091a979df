package core

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"ccgo/internal/types"
)

type fakeGit struct {
	mu            sync.Mutex
	clones        []string
	fetches       []string
	checkouts     map[string]string
	commits       map[string]string
	defaultBranch string
	defaultErr    error
	cloneErr      error
	fetchErr      error
	checkoutErr   error
	revParseErr   error
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		checkouts: map[string]string{},
		commits:   map[string]string{},
	}
}

func (g *fakeGit) Clone(_ context.Context, url string, dest string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clones = append(g.clones, url)
	if g.cloneErr != nil {
		return g.cloneErr
	}
	if err := os.MkdirAll(filepath.Join(dest, ".git"), 0755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(dest, "include"), 0755)
}

func (g *fakeGit) Fetch(_ context.Context, repoDir string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetches = append(g.fetches, repoDir)
	return g.fetchErr
}

func (g *fakeGit) Checkout(_ context.Context, repoDir string, ref string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.checkoutErr != nil {
		return g.checkoutErr
	}
	g.checkouts[repoDir] = ref
	return nil
}

func (g *fakeGit) RevParse(_ context.Context, repoDir string, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.revParseErr != nil {
		return "", g.revParseErr
	}
	ref := g.checkouts[repoDir]
	if commit, ok := g.commits[ref]; ok {
		return commit, nil
	}
	return "0000000000000000000000000000000000000000", nil
}

func (g *fakeGit) DefaultBranch(_ context.Context, _ string) (string, error) {
	return g.defaultBranch, g.defaultErr
}

func (g *fakeGit) cloneCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clones)
}

type fakeLinker struct{}

func (fakeLinker) Link(src string, dest string) (types.LinkMode, error) {
	if err := os.RemoveAll(dest); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}
	if err := os.Symlink(src, dest); err != nil {
		return "", err
	}
	return types.LinkModeSymlink, nil
}

type memoryLockStore struct {
	mu      sync.Mutex
	lock    types.LockFile
	loadErr error
	saveErr error
	saves   int
}

func (s *memoryLockStore) Load(_ string) (types.LockFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.lock == nil {
		return types.LockFile{}, nil
	}
	return maps.Clone(s.lock), nil
}

func (s *memoryLockStore) Save(_ string, lock types.LockFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.lock = maps.Clone(lock)
	return nil
}

type stubProjects struct {
	project types.ProjectConfig
	err     error
	loads   int
}

func (s *stubProjects) LoadProject(_ string) (types.ProjectConfig, error) {
	s.loads++
	return s.project, s.err
}

func gitEntry(name string, fields map[string]any) types.SpecEntry {
	return types.SpecEntry{Name: name, Raw: fields}
}

func pathEntry(name string, path string) types.SpecEntry {
	return types.SpecEntry{Name: name, Raw: map[string]any{"path": path}}
}
