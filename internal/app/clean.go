package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// Clean removes the cache directory, and the whole deps directory when
// req.All is set. The lock file is kept.
func (s Service) Clean(ctx context.Context, req CleanRequest) (CleanResult, error) {
	cfg, err := s.resolverConfig(req.ProjectOptions)
	if err != nil {
		return CleanResult{}, err
	}
	target := cfg.CacheDir
	if req.All {
		target = cfg.DepsDir
	}
	if contains(target, cfg.ProjectRoot) {
		return CleanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("refusing to remove " + target + ": it contains the project root")
	}
	if _, err := os.Lstat(target); os.IsNotExist(err) {
		return CleanResult{}, nil
	}
	if err := os.RemoveAll(target); err != nil {
		return CleanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove " + target).
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("path", target).Msg("removed")
	return CleanResult{Removed: []string{target}}, nil
}

// contains reports whether path lies at or below dir.
func contains(dir string, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
