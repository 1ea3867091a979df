package app

import (
	"context"

	"ccgo/internal/core"
)

// IncludeDirs derives include directories from the locked paths without
// touching git.
func (s Service) IncludeDirs(ctx context.Context, req IncludeDirsRequest) (IncludeDirsResult, error) {
	listed, err := s.List(ctx, ListRequest(req))
	if err != nil {
		return IncludeDirsResult{}, err
	}
	paths := make([]string, 0, len(listed.Dependencies))
	for _, dep := range listed.Dependencies {
		paths = append(paths, dep.Entry.Path)
	}
	return IncludeDirsResult{IncludeDirs: core.IncludeDirs(paths)}, nil
}
