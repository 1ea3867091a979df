package core

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ccgo/internal/ports"
	"ccgo/internal/types"
)

// DependencyResolver runs resolution passes over a specification map and
// owns the in-memory lock. The lock file is read once at construction
// and written once per fully successful pass.
type DependencyResolver struct {
	Config ResolverConfig
	Locks  ports.LockStorePort
	git    GitResolver
	path   PathResolver

	mu   sync.Mutex
	lock types.LockFile
}

func NewDependencyResolver(ctx context.Context, cfg ResolverConfig, git ports.GitPort, links ports.LinkPort, locks ports.LockStorePort) *DependencyResolver {
	cfg = cfg.WithDefaults()
	r := &DependencyResolver{
		Config: cfg,
		Locks:  locks,
		git:    NewGitResolver(git, links, cfg.DepsDir, cfg.CacheDir),
		path:   NewPathResolver(cfg.ProjectRoot),
		lock:   types.LockFile{},
	}
	loaded, err := locks.Load(cfg.LockPath)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("lock", cfg.LockPath).Msg("ignoring unreadable lock file")
		return r
	}
	if loaded != nil {
		r.lock = loaded
	}
	return r
}

// WithProjectConfig enables version checks of path dependencies that
// carry their own CCGO.toml.
func (r *DependencyResolver) WithProjectConfig(projects ports.ProjectConfigPort) *DependencyResolver {
	r.path = r.path.WithProjectConfig(projects)
	return r
}

// Lock returns a copy of the in-memory lock map.
func (r *DependencyResolver) Lock() types.LockFile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.lock)
}

// Resolve classifies every entry, resolves them in order and persists
// the lock. Any failure aborts the pass and leaves the lock file on disk
// untouched; cache slots and links already created stay in place.
func (r *DependencyResolver) Resolve(ctx context.Context, entries []types.SpecEntry) (types.ResolveResult, error) {
	assert.NotEmpty(ctx, r.Config.LockPath, "lock path must be set")
	specs, err := classifyEntries(entries, filepath.Base(r.Config.CacheDir))
	if err != nil {
		return types.ResolveResult{}, err
	}

	var resolved []types.ResolvedDependency
	if r.Config.Jobs > 1 && len(specs) > 1 {
		resolved, err = r.resolveParallel(ctx, specs)
	} else {
		resolved, err = r.resolveSequential(ctx, specs)
	}
	if err != nil {
		return types.ResolveResult{}, err
	}

	if err := r.persist(specs); err != nil {
		return types.ResolveResult{}, err
	}

	result := types.ResolveResult{
		Dependencies: resolved,
		Paths:        make(map[string]string, len(resolved)),
	}
	for _, dep := range resolved {
		result.Paths[dep.Name] = dep.Path
	}
	log.Ctx(ctx).Debug().Int("resolved", len(resolved)).Str("lock", r.Config.LockPath).Msg("resolution pass completed")
	return result, nil
}

func (r *DependencyResolver) resolveSequential(ctx context.Context, specs []types.DependencySpec) ([]types.ResolvedDependency, error) {
	resolved := make([]types.ResolvedDependency, 0, len(specs))
	for _, spec := range specs {
		dep, err := r.resolveOne(ctx, spec)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, dep)
	}
	return resolved, nil
}

// resolveParallel cancels in-flight siblings on the first failure, waits
// for them to return and reports that first failure.
func (r *DependencyResolver) resolveParallel(ctx context.Context, specs []types.DependencySpec) ([]types.ResolvedDependency, error) {
	resolved := make([]types.ResolvedDependency, len(specs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.Config.Jobs)
	for idx, spec := range specs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			dep, err := r.resolveOne(groupCtx, spec)
			if err != nil {
				return err
			}
			resolved[idx] = dep
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *DependencyResolver) resolveOne(ctx context.Context, spec types.DependencySpec) (types.ResolvedDependency, error) {
	var (
		dep types.ResolvedDependency
		err error
	)
	switch spec.Kind {
	case types.DependencyKindGit:
		dep, err = r.git.Resolve(ctx, spec.Name, *spec.Git)
	case types.DependencyKindPath:
		dep, err = r.path.Resolve(ctx, spec.Name, *spec.Path)
	default:
		err = unsupportedKind(spec)
	}
	if err != nil {
		return types.ResolvedDependency{}, err
	}
	r.mu.Lock()
	r.lock[spec.Name] = types.LockEntryFor(dep)
	r.mu.Unlock()
	log.Ctx(ctx).Info().Str("dependency", dep.Name).Str("type", string(dep.Kind)).Str("path", dep.Path).Msg("dependency resolved")
	return dep, nil
}

func (r *DependencyResolver) persist(specs []types.DependencySpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := maps.Clone(r.lock)
	if r.Config.PruneLock {
		snapshot = types.LockFile{}
		for _, spec := range specs {
			if entry, ok := r.lock[spec.Name]; ok {
				snapshot[spec.Name] = entry
			}
		}
	}
	if err := r.Locks.Save(r.Config.LockPath, snapshot); err != nil {
		return dependencyError(
			types.ErrorKindLockFileWrite,
			"",
			errbuilder.CodeInternal,
			fmt.Sprintf("failed to write lock file %s", r.Config.LockPath),
			err,
		)
	}
	r.lock = snapshot
	return nil
}

// classifyEntries validates the whole map before any dependency touches
// the filesystem.
func classifyEntries(entries []types.SpecEntry, cacheName string) ([]types.DependencySpec, error) {
	specs := make([]types.DependencySpec, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			return nil, invalidSpec(entry.Name, entry.Raw, "dependency name is empty")
		}
		if reason := unsafeName(entry.Name, cacheName); reason != "" {
			return nil, invalidSpec(entry.Name, entry.Raw, reason)
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, invalidSpec(entry.Name, entry.Raw, "duplicate dependency name")
		}
		seen[entry.Name] = struct{}{}
		spec, err := ClassifyDependency(entry.Name, entry.Raw)
		if err != nil {
			return nil, err
		}
		if spec.Kind == types.DependencyKindVersion {
			return nil, unsupportedKind(spec)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// unsafeName rejects names that would place the visible path or the cache
// slot outside the deps directory, or on top of the cache directory.
func unsafeName(name string, cacheName string) string {
	switch {
	case name == "." || name == "..":
		return "dependency name must not be a relative directory reference"
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return "dependency name must not contain a path separator"
	case name == cacheName:
		return "dependency name collides with the cache directory"
	}
	return ""
}

func unsupportedKind(spec types.DependencySpec) error {
	return dependencyError(
		types.ErrorKindUnsupportedDependencyKind,
		spec.Name,
		errbuilder.CodeInvalidArgument,
		fmt.Sprintf("version dependency %s = %q is not supported; use a git or path dependency", spec.Name, spec.Version),
		nil,
	)
}
