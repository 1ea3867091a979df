package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"ccgo/internal/core"
	"ccgo/internal/policies"
)

func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	cfg, err := s.resolverConfig(req.ProjectOptions)
	if err != nil {
		return InstallResult{}, err
	}
	cfg.Jobs = req.Jobs
	cfg.PruneLock = req.Prune
	cfg.GitTimeout = req.GitTimeout
	cfg = cfg.WithDefaults()

	project, err := s.Projects.LoadProject(projectFile(cfg.ProjectRoot))
	if err != nil {
		return InstallResult{}, err
	}
	platform := req.Platform
	if platform == "" {
		platform = policies.CurrentPlatform()
	}
	arch := req.Arch
	if arch == "" {
		arch = policies.CurrentArch()
	}
	entries := core.CollectDependencies(ctx, project, platform, arch)
	log.Ctx(ctx).Info().
		Str("project", project.Package.Name).
		Str("platform", platform).
		Str("arch", arch).
		Int("dependencies", len(entries)).
		Msg("installing dependencies")

	resolver := core.NewDependencyResolver(ctx, cfg, s.Git(cfg.GitTimeout), s.Links, s.Locks).
		WithProjectConfig(s.Projects)
	result, err := resolver.Resolve(ctx, entries)
	if err != nil {
		return InstallResult{}, err
	}
	return InstallResult{
		ProjectRoot:  cfg.ProjectRoot,
		LockPath:     cfg.LockPath,
		Dependencies: result.Dependencies,
		IncludeDirs:  core.IncludeDirsFor(result.Dependencies),
	}, nil
}
