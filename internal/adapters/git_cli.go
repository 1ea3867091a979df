package adapters

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"ccgo/internal/ports"
	"ccgo/internal/types"
)

const defaultGitTimeout = 5 * time.Minute

// GitCLIAdapter shells out to the git binary. Each invocation gets its own
// Timeout; exceeding it yields a GitCommandError with TimedOut set.
type GitCLIAdapter struct {
	Binary  string
	Timeout time.Duration
}

func NewGitCLIAdapter(timeout time.Duration) GitCLIAdapter {
	return GitCLIAdapter{Binary: "git", Timeout: timeout}
}

func (a GitCLIAdapter) Clone(ctx context.Context, url string, dest string) error {
	_, err := a.run(ctx, "", "clone", url, dest)
	return err
}

func (a GitCLIAdapter) Fetch(ctx context.Context, repoDir string) error {
	_, err := a.run(ctx, repoDir, "fetch", "--all", "--tags")
	return err
}

func (a GitCLIAdapter) Checkout(ctx context.Context, repoDir string, ref string) error {
	_, err := a.run(ctx, repoDir, "checkout", "--quiet", ref)
	return err
}

func (a GitCLIAdapter) RevParse(ctx context.Context, repoDir string, rev string) (string, error) {
	return a.run(ctx, repoDir, "rev-parse", rev)
}

func (a GitCLIAdapter) DefaultBranch(ctx context.Context, repoDir string) (string, error) {
	ref, err := a.run(ctx, repoDir, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(ref, "origin/"), nil
}

func (a GitCLIAdapter) run(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultGitTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	full := args
	if dir != "" {
		full = append([]string{"-C", dir}, args...)
	}
	binary := a.Binary
	if binary == "" {
		binary = "git"
	}
	cmd := exec.CommandContext(callCtx, binary, full...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &types.GitCommandError{
			Args:     full,
			Stderr:   strings.TrimSpace(stderr.String()),
			TimedOut: ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded),
			Err:      err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

var _ ports.GitPort = GitCLIAdapter{}
