package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ccgo/internal/ports"
	"ccgo/internal/types"
)

const projectFileName = "CCGO.toml"

// PathResolver validates and normalizes local path dependencies. It never
// mutates the filesystem.
type PathResolver struct {
	ProjectRoot string
	Projects    ports.ProjectConfigPort
}

func NewPathResolver(projectRoot string) PathResolver {
	return PathResolver{ProjectRoot: projectRoot}
}

func (r PathResolver) WithProjectConfig(projects ports.ProjectConfigPort) PathResolver {
	r.Projects = projects
	return r
}

func (r PathResolver) Resolve(ctx context.Context, name string, spec types.PathSpec) (types.ResolvedDependency, error) {
	candidate := spec.Path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.ProjectRoot, candidate)
	}
	absolute, err := filepath.Abs(candidate)
	if err != nil {
		return types.ResolvedDependency{}, pathNotFound(name, spec.Path, candidate, err)
	}
	info, err := os.Stat(absolute)
	if err != nil {
		return types.ResolvedDependency{}, pathNotFound(name, spec.Path, absolute, err)
	}
	if !info.IsDir() {
		return types.ResolvedDependency{}, pathNotFound(name, spec.Path, absolute, errors.New("not a directory"))
	}
	normalized, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return types.ResolvedDependency{}, pathNotFound(name, spec.Path, absolute, err)
	}
	if spec.Version != "" {
		r.checkVersion(ctx, name, normalized, spec.Version)
	}
	log.Ctx(ctx).Debug().Str("dependency", name).Str("path", normalized).Msg("path dependency resolved")
	return types.ResolvedDependency{
		Name:    name,
		Kind:    types.DependencyKindPath,
		Path:    normalized,
		Version: spec.Version,
	}, nil
}

// checkVersion warns when a path dependency's own CCGO.toml declares a
// version outside the requested constraint. It never fails resolution.
func (r PathResolver) checkVersion(ctx context.Context, name string, dir string, requested string) {
	if r.Projects == nil {
		return
	}
	manifest := filepath.Join(dir, projectFileName)
	if _, err := os.Stat(manifest); err != nil {
		return
	}
	logger := log.Ctx(ctx).With().Str("dependency", name).Str("requested", requested).Logger()
	project, err := r.Projects.LoadProject(manifest)
	if err != nil {
		logger.Warn().Err(err).Msg("cannot read path dependency manifest")
		return
	}
	declared := strings.TrimSpace(project.Package.Version)
	if declared == "" {
		return
	}
	constraint, err := semver.NewConstraint(requested)
	if err != nil {
		logger.Warn().Err(err).Msg("path dependency version is not a valid constraint")
		return
	}
	version, err := semver.NewVersion(declared)
	if err != nil {
		logger.Warn().Err(err).Str("declared", declared).Msg("path dependency declares an invalid version")
		return
	}
	if !constraint.Check(version) {
		logger.Warn().Str("declared", declared).Msg("path dependency version does not satisfy constraint")
	}
}

func pathNotFound(name string, original string, absolute string, cause error) error {
	return dependencyError(
		types.ErrorKindPathNotFound,
		name,
		errbuilder.CodeNotFound,
		fmt.Sprintf("path dependency %s not found: %s (resolved to %s)", name, original, absolute),
		cause,
	)
}
