package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ccgo/internal/ports"
	"ccgo/internal/shared"
	"ccgo/internal/types"
)

const fallbackCheckoutRef = "origin/main"

type GitResolver struct {
	Git      ports.GitPort
	Links    ports.LinkPort
	DepsDir  string
	CacheDir string
}

func NewGitResolver(git ports.GitPort, links ports.LinkPort, depsDir string, cacheDir string) GitResolver {
	return GitResolver{
		Git:      git,
		Links:    links,
		DepsDir:  depsDir,
		CacheDir: cacheDir,
	}
}

// CacheSlotName keys a cache slot by dependency name and URL hash. Two
// names sharing one URL get separate slots.
func CacheSlotName(name string, url string) string {
	return fmt.Sprintf("%s-%s", name, shared.URLHash(url))
}

// Resolve moves one git dependency through clone or fetch, checkout,
// commit lookup and linking of the visible path.
func (r GitResolver) Resolve(ctx context.Context, name string, spec types.GitSpec) (types.ResolvedDependency, error) {
	logger := log.Ctx(ctx).With().Str("dependency", name).Logger()
	slot := filepath.Join(r.CacheDir, CacheSlotName(name, spec.URL))
	assert.NotEmpty(ctx, slot, "cache slot must be set")

	if isWorkingTree(slot) {
		if err := r.Git.Fetch(ctx, slot); err != nil {
			logger.Warn().Err(err).Str("cache", slot).Msg("fetch failed, using cached repository")
		}
		logger.Debug().Str("state", "updated").Str("cache", slot).Msg("git dependency")
	} else {
		if err := r.prepareSlot(slot); err != nil {
			return types.ResolvedDependency{}, dependencyError(
				types.ErrorKindGitClone,
				name,
				errbuilder.CodeInternal,
				fmt.Sprintf("failed to prepare cache slot %s", slot),
				err,
			)
		}
		if err := r.Git.Clone(ctx, spec.URL, slot); err != nil {
			kind := gitErrorKind(err, types.ErrorKindGitClone)
			return types.ResolvedDependency{}, dependencyError(
				kind,
				name,
				gitErrorCode(kind),
				fmt.Sprintf("failed to clone %s", spec.URL),
				err,
			)
		}
		logger.Debug().Str("state", "cloned").Str("cache", slot).Msg("git dependency")
	}

	ref := r.checkoutRef(ctx, slot, spec)
	if err := r.Git.Checkout(ctx, slot, ref); err != nil {
		kind := gitErrorKind(err, types.ErrorKindGitCheckout)
		return types.ResolvedDependency{}, dependencyError(
			kind,
			name,
			gitErrorCode(kind),
			fmt.Sprintf("failed to checkout %s", ref),
			err,
		)
	}
	logger.Debug().Str("state", "checked-out").Str("ref", ref).Msg("git dependency")

	commit, err := r.Git.RevParse(ctx, slot, "HEAD")
	if err != nil {
		kind := gitErrorKind(err, types.ErrorKindGitRevParse)
		return types.ResolvedDependency{}, dependencyError(
			kind,
			name,
			gitErrorCode(kind),
			"failed to read commit of HEAD",
			err,
		)
	}
	logger.Debug().Str("state", "commit-recorded").Str("commit", commit).Msg("git dependency")

	visible := filepath.Join(r.DepsDir, name)
	mode, err := r.Links.Link(slot, visible)
	if err != nil {
		return types.ResolvedDependency{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to link dependency %s into %s", name, visible)).
			WithCause(err)
	}
	logger.Debug().Str("state", "linked").Str("mode", string(mode)).Str("path", visible).Msg("git dependency")

	pin, pinRef := spec.Pin()
	return types.ResolvedDependency{
		Name:   name,
		Kind:   types.DependencyKindGit,
		Path:   visible,
		URL:    spec.URL,
		Commit: commit,
		Pin:    pin,
		PinRef: pinRef,
		Link:   mode,
	}, nil
}

// checkoutRef applies rev > tag > branch > remote default > origin/main.
func (r GitResolver) checkoutRef(ctx context.Context, slot string, spec types.GitSpec) string {
	switch pin, ref := spec.Pin(); pin {
	case types.PinKindRev:
		return ref
	case types.PinKindTag:
		return "tags/" + ref
	case types.PinKindBranch:
		return "origin/" + ref
	}
	branch, err := r.Git.DefaultBranch(ctx, slot)
	branch = strings.TrimSpace(branch)
	if err != nil || branch == "" {
		log.Ctx(ctx).Debug().Err(err).Str("fallback", fallbackCheckoutRef).Msg("default branch not detected")
		return fallbackCheckoutRef
	}
	return "origin/" + branch
}

// prepareSlot makes sure the cache directory exists and clears a
// leftover slot that is not a working tree, such as an interrupted clone.
func (r GitResolver) prepareSlot(slot string) error {
	if err := os.MkdirAll(filepath.Dir(slot), 0755); err != nil {
		return err
	}
	if _, err := os.Lstat(slot); err == nil {
		return os.RemoveAll(slot)
	}
	return nil
}

func isWorkingTree(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
