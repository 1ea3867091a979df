package app

import (
	"path/filepath"

	"ccgo/internal/adapters"
	"ccgo/internal/core"
)

// resolverConfig locates the project root and fills the resolver
// directories from opts.
func (s Service) resolverConfig(opts ProjectOptions) (core.ResolverConfig, error) {
	root, err := s.Locator.FindProjectRoot(opts.ProjectDir)
	if err != nil {
		return core.ResolverConfig{}, err
	}
	cfg := core.ResolverConfig{
		ProjectRoot: root,
		DepsDir:     opts.DepsDir,
		LockPath:    opts.LockPath,
	}
	return cfg.WithDefaults(), nil
}

func projectFile(root string) string {
	return filepath.Join(root, adapters.ProjectFileName)
}
