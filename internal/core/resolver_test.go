package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccgo/internal/types"
)

func newTestResolver(t *testing.T, root string, git *fakeGit, store *memoryLockStore) *DependencyResolver {
	t.Helper()
	return NewDependencyResolver(t.Context(), ResolverConfig{ProjectRoot: root}, git, fakeLinker{}, store)
}

func mustEvalSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func requireKind(t *testing.T, err error, want types.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok, "error has no kind: %v", err)
	assert.Equal(t, want, kind)
}

func TestResolvePathDependencies(t *testing.T) {
	root := t.TempDir()
	relative := filepath.Join(root, "libs", "util")
	absolute := filepath.Join(t.TempDir(), "vendor")
	require.NoError(t, os.MkdirAll(relative, 0755))
	require.NoError(t, os.MkdirAll(absolute, 0755))

	store := &memoryLockStore{}
	resolver := newTestResolver(t, root, newFakeGit(), store)
	result, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		pathEntry("util", "libs/../libs/util"),
		{Name: "vendor", Raw: map[string]any{"path": absolute, "version": "1.0.0"}},
	})
	require.NoError(t, err)

	want := map[string]string{
		"util":   mustEvalSymlinks(t, relative),
		"vendor": mustEvalSymlinks(t, absolute),
	}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, types.LockEntry{Type: types.DependencyKindPath, Path: want["vendor"], Version: "1.0.0"}, store.lock["vendor"])
}

func TestResolvePathNotFoundStopsPass(t *testing.T) {
	root := t.TempDir()
	git := newFakeGit()
	store := &memoryLockStore{}
	resolver := newTestResolver(t, root, git, store)

	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		pathEntry("missing", "does/not/exist"),
		gitEntry("fmt", map[string]any{"git": "https://example.com/fmt.git", "tag": "10.0.0"}),
	})
	requireKind(t, err, types.ErrorKindPathNotFound)
	assert.Contains(t, err.Error(), "does/not/exist")
	assert.Contains(t, err.Error(), filepath.Join(root, "does/not/exist"))
	assert.Equal(t, 0, git.cloneCount(), "later dependencies must not be resolved")
	assert.Equal(t, 0, store.saves, "lock must not be written on failure")
}

func TestResolveGitTagBeatsBranch(t *testing.T) {
	root := t.TempDir()
	git := newFakeGit()
	resolver := newTestResolver(t, root, git, &memoryLockStore{})

	result, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		gitEntry("fmt", map[string]any{"git": "https://example.com/fmt.git", "tag": "v1.0", "branch": "develop"}),
	})
	require.NoError(t, err)
	slot := filepath.Join(resolver.Config.CacheDir, CacheSlotName("fmt", "https://example.com/fmt.git"))
	assert.Equal(t, "tags/v1.0", git.checkouts[slot])
	assert.Equal(t, types.PinKindTag, result.Dependencies[0].Pin)

	entry := resolver.Lock()["fmt"]
	assert.Equal(t, "v1.0", entry.Tag)
	assert.Empty(t, entry.Branch)
}

func TestCheckoutRefPrecedence(t *testing.T) {
	tests := []struct {
		name        string
		spec        types.GitSpec
		branch      string
		branchErr   error
		expectedRef string
	}{
		{
			name:        "rev wins over everything",
			spec:        types.GitSpec{Rev: "refs/pull/7/head", Tag: "v1", Branch: "dev"},
			expectedRef: "refs/pull/7/head",
		},
		{
			name:        "tag wins over branch",
			spec:        types.GitSpec{Tag: "v1", Branch: "dev"},
			expectedRef: "tags/v1",
		},
		{
			name:        "branch",
			spec:        types.GitSpec{Branch: "dev"},
			expectedRef: "origin/dev",
		},
		{
			name:        "remote default branch",
			branch:      "master",
			expectedRef: "origin/master",
		},
		{
			name:        "default branch lookup fails",
			branchErr:   errors.New("no symbolic ref"),
			expectedRef: "origin/main",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			git := newFakeGit()
			git.defaultBranch = tt.branch
			git.defaultErr = tt.branchErr
			resolver := NewGitResolver(git, fakeLinker{}, t.TempDir(), t.TempDir())
			assert.Equal(t, tt.expectedRef, resolver.checkoutRef(t.Context(), "slot", tt.spec))
		})
	}
}

func TestResolveSameURLTwoNames(t *testing.T) {
	root := t.TempDir()
	git := newFakeGit()
	resolver := newTestResolver(t, root, git, &memoryLockStore{})
	url := "https://example.com/zlib.git"

	result, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		gitEntry("zlib", map[string]any{"git": url}),
		gitEntry("zlib-ng", map[string]any{"git": url}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, git.cloneCount())
	assert.NotEqual(t, result.Paths["zlib"], result.Paths["zlib-ng"])

	slots, err := os.ReadDir(resolver.Config.CacheDir)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestResolveSecondPassFetchesOnly(t *testing.T) {
	root := t.TempDir()
	git := newFakeGit()
	git.commits["tags/v2.0"] = "1111111111111111111111111111111111111111"
	store := &memoryLockStore{}
	entries := []types.SpecEntry{
		gitEntry("fmt", map[string]any{"git": "https://example.com/fmt.git", "tag": "v2.0"}),
	}

	_, err := newTestResolver(t, root, git, store).Resolve(t.Context(), entries)
	require.NoError(t, err)
	first := store.lock["fmt"]

	_, err = newTestResolver(t, root, git, store).Resolve(t.Context(), entries)
	require.NoError(t, err)
	assert.Equal(t, 1, git.cloneCount())
	assert.Len(t, git.fetches, 1)
	assert.Equal(t, first, store.lock["fmt"])
	assert.Equal(t, "1111111111111111111111111111111111111111", store.lock["fmt"].Commit)
}

func TestResolveVersionEntryUnsupported(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "util"), 0755))
	git := newFakeGit()
	store := &memoryLockStore{}
	resolver := newTestResolver(t, root, git, store)

	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		pathEntry("util", "util"),
		gitEntry("fmt", map[string]any{"git": "https://example.com/fmt.git"}),
		{Name: "boost", Raw: "1.2.3"},
	})
	requireKind(t, err, types.ErrorKindUnsupportedDependencyKind)
	assert.Contains(t, err.Error(), "1.2.3")
	assert.Equal(t, 0, git.cloneCount())
	assert.Equal(t, 0, store.saves)
}

func TestResolveInvalidSpecification(t *testing.T) {
	tests := []struct {
		name  string
		entry types.SpecEntry
	}{
		{name: "integer", entry: types.SpecEntry{Name: "a", Raw: 42}},
		{name: "table without git or path", entry: types.SpecEntry{Name: "b", Raw: map[string]any{"branch": "main"}}},
		{name: "empty name", entry: types.SpecEntry{Name: "", Raw: "1.0"}},
		{name: "parent traversal", entry: gitEntry("../src", map[string]any{"git": "https://x/y.git"})},
		{name: "parent directory", entry: gitEntry("..", map[string]any{"git": "https://x/y.git"})},
		{name: "current directory", entry: gitEntry(".", map[string]any{"git": "https://x/y.git"})},
		{name: "nested name", entry: gitEntry("vendor/fmt", map[string]any{"git": "https://x/y.git"})},
		{name: "backslash", entry: gitEntry(`vendor\fmt`, map[string]any{"git": "https://x/y.git"})},
		{name: "cache directory", entry: gitEntry(".cache", map[string]any{"git": "https://x/y.git"})},
		{name: "path dependency traversal", entry: pathEntry("../utils", ".")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newTestResolver(t, t.TempDir(), newFakeGit(), &memoryLockStore{})
			_, err := resolver.Resolve(t.Context(), []types.SpecEntry{tt.entry})
			requireKind(t, err, types.ErrorKindInvalidSpecification)
		})
	}
}

func TestResolveUnsafeNameTouchesNothing(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "main.c"), []byte("int main;"), 0644))
	git := newFakeGit()
	store := &memoryLockStore{}

	_, err := newTestResolver(t, root, git, store).Resolve(t.Context(), []types.SpecEntry{
		gitEntry("../src", map[string]any{"git": "https://x/y.git"}),
	})
	requireKind(t, err, types.ErrorKindInvalidSpecification)
	assert.Zero(t, git.cloneCount())
	assert.Zero(t, store.saves)
	assert.FileExists(t, filepath.Join(src, "main.c"))
}

func TestResolveDuplicateNames(t *testing.T) {
	resolver := newTestResolver(t, t.TempDir(), newFakeGit(), &memoryLockStore{})
	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		pathEntry("dup", "a"),
		pathEntry("dup", "b"),
	})
	requireKind(t, err, types.ErrorKindInvalidSpecification)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestResolveFetchFailureTolerated(t *testing.T) {
	root := t.TempDir()
	git := newFakeGit()
	store := &memoryLockStore{}
	entries := []types.SpecEntry{gitEntry("fmt", map[string]any{"git": "https://example.com/fmt.git"})}

	_, err := newTestResolver(t, root, git, store).Resolve(t.Context(), entries)
	require.NoError(t, err)

	git.fetchErr = errors.New("network unreachable")
	_, err = newTestResolver(t, root, git, store).Resolve(t.Context(), entries)
	require.NoError(t, err)
	assert.Equal(t, 2, store.saves)
}

func TestResolveGitFailures(t *testing.T) {
	timeout := &types.GitCommandError{Args: []string{"clone"}, TimedOut: true, Err: errors.New("deadline exceeded")}
	tests := []struct {
		name  string
		setup func(*fakeGit)
		kind  types.ErrorKind
	}{
		{
			name:  "clone",
			setup: func(g *fakeGit) {
				g.cloneErr = &types.GitCommandError{Args: []string{"clone"}, Stderr: "repository not found", Err: errors.New("exit status 128")}
			},
			kind:  types.ErrorKindGitClone,
		},
		{
			name:  "clone timeout",
			setup: func(g *fakeGit) { g.cloneErr = timeout },
			kind:  types.ErrorKindGitCommandTimeout,
		},
		{
			name:  "checkout",
			setup: func(g *fakeGit) { g.checkoutErr = errors.New("pathspec 'tags/v9' did not match") },
			kind:  types.ErrorKindGitCheckout,
		},
		{
			name:  "rev-parse",
			setup: func(g *fakeGit) { g.revParseErr = errors.New("bad revision") },
			kind:  types.ErrorKindGitRevParse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			git := newFakeGit()
			tt.setup(git)
			store := &memoryLockStore{}
			resolver := newTestResolver(t, t.TempDir(), git, store)
			_, err := resolver.Resolve(t.Context(), []types.SpecEntry{
				gitEntry("fmt", map[string]any{"git": "https://example.com/fmt.git", "tag": "v9"}),
			})
			requireKind(t, err, tt.kind)
			assert.Equal(t, 0, store.saves)
		})
	}
}

func TestResolveKeepsPartialLockInMemoryOnly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "util"), 0755))
	store := &memoryLockStore{}
	resolver := newTestResolver(t, root, newFakeGit(), store)

	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		pathEntry("util", "util"),
		pathEntry("gone", "gone"),
	})
	requireKind(t, err, types.ErrorKindPathNotFound)
	assert.Contains(t, resolver.Lock(), "util")
	assert.Nil(t, store.lock)
}

func TestResolveCorruptLockStartsEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "util"), 0755))
	store := &memoryLockStore{loadErr: errors.New("invalid character")}
	resolver := newTestResolver(t, root, newFakeGit(), store)
	assert.Empty(t, resolver.Lock())

	store.loadErr = nil
	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{pathEntry("util", "util")})
	require.NoError(t, err)
	assert.Len(t, store.lock, 1)
}

func TestResolveLockWriteFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "util"), 0755))
	store := &memoryLockStore{saveErr: errors.New("read-only file system")}
	resolver := newTestResolver(t, root, newFakeGit(), store)

	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{pathEntry("util", "util")})
	requireKind(t, err, types.ErrorKindLockFileWrite)
}

func TestResolveStaleLockEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "util"), 0755))
	stale := types.LockEntry{Type: types.DependencyKindPath, Path: "/old/removed"}

	tests := []struct {
		name      string
		prune     bool
		wantStale bool
	}{
		{name: "carried over by default", prune: false, wantStale: true},
		{name: "pruned on request", prune: true, wantStale: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryLockStore{lock: types.LockFile{"removed": stale}}
			resolver := NewDependencyResolver(t.Context(), ResolverConfig{ProjectRoot: root, PruneLock: tt.prune}, newFakeGit(), fakeLinker{}, store)
			_, err := resolver.Resolve(t.Context(), []types.SpecEntry{pathEntry("util", "util")})
			require.NoError(t, err)
			_, found := store.lock["removed"]
			assert.Equal(t, tt.wantStale, found)
			assert.Contains(t, store.lock, "util")
		})
	}
}

func TestResolveParallelKeepsOrder(t *testing.T) {
	root := t.TempDir()
	names := []string{"d", "a", "c", "b"}
	var entries []types.SpecEntry
	for _, name := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0755))
		entries = append(entries, pathEntry(name, name))
	}
	entries = append(entries, gitEntry("fmt", map[string]any{"git": "https://example.com/fmt.git"}))

	store := &memoryLockStore{}
	resolver := NewDependencyResolver(t.Context(), ResolverConfig{ProjectRoot: root, Jobs: 3}, newFakeGit(), fakeLinker{}, store)
	result, err := resolver.Resolve(t.Context(), entries)
	require.NoError(t, err)

	var got []string
	for _, dep := range result.Dependencies {
		got = append(got, dep.Name)
	}
	if diff := cmp.Diff([]string{"d", "a", "c", "b", "fmt"}, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	assert.Len(t, store.lock, 5)
}

func TestResolveParallelFailureSkipsLock(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ok"), 0755))
	store := &memoryLockStore{}
	resolver := NewDependencyResolver(t.Context(), ResolverConfig{ProjectRoot: root, Jobs: 2}, newFakeGit(), fakeLinker{}, store)

	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		pathEntry("ok", "ok"),
		pathEntry("missing", "missing"),
	})
	requireKind(t, err, types.ErrorKindPathNotFound)
	assert.Equal(t, 0, store.saves)
}

func TestPathVersionCheckNeverFails(t *testing.T) {
	root := t.TempDir()
	dep := filepath.Join(root, "util")
	require.NoError(t, os.MkdirAll(dep, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dep, "CCGO.toml"), []byte("[package]\nversion = \"2.0.0\"\n"), 0644))

	projects := &stubProjects{project: types.ProjectConfig{Package: types.PackageMetadata{Version: "2.0.0"}}}
	resolver := newTestResolver(t, root, newFakeGit(), &memoryLockStore{}).WithProjectConfig(projects)
	_, err := resolver.Resolve(t.Context(), []types.SpecEntry{
		{Name: "util", Raw: map[string]any{"path": "util", "version": "^1.0"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, projects.loads)
}

func TestResolvePathDependencyMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.a"), []byte("x"), 0644))
	store := &memoryLockStore{}

	_, err := newTestResolver(t, root, newFakeGit(), store).Resolve(t.Context(), []types.SpecEntry{
		pathEntry("lib", "lib.a"),
	})
	requireKind(t, err, types.ErrorKindPathNotFound)
	assert.Zero(t, store.saves)
}
