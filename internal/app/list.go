package app

import (
	"context"
	"sort"
)

// List reports the lock file entries sorted by dependency name.
func (s Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	cfg, err := s.resolverConfig(req.ProjectOptions)
	if err != nil {
		return ListResult{}, err
	}
	lock, err := s.Locks.Load(cfg.LockPath)
	if err != nil {
		return ListResult{}, err
	}
	names := make([]string, 0, len(lock))
	for name := range lock {
		names = append(names, name)
	}
	sort.Strings(names)
	deps := make([]LockedDependency, 0, len(names))
	for _, name := range names {
		deps = append(deps, LockedDependency{Name: name, Entry: lock[name]})
	}
	return ListResult{LockPath: cfg.LockPath, Dependencies: deps}, nil
}
