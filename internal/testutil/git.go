// Package testutil provides shared test helpers for adapter and
// integration tests that need real git repositories.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when no git binary is on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// RunGit runs git in dir with a fixed identity and returns trimmed output.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{
		"-c", "user.name=ccgo",
		"-c", "user.email=ccgo@example.com",
		"-c", "init.defaultBranch=main",
		"-c", "commit.gpgsign=false",
		"-c", "tag.gpgsign=false",
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	return strings.TrimSpace(string(output))
}

// WriteFile writes content under dir, creating parent directories.
func WriteFile(t *testing.T, dir string, rel string, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// NewUpstream creates a repository with include/lib.h committed on main
// and tagged v1.0.0, plus one extra commit on a dev branch.
func NewUpstream(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	RunGit(t, dir, "init")
	WriteFile(t, dir, filepath.Join("include", "lib.h"), "#pragma once\n")
	RunGit(t, dir, "add", ".")
	RunGit(t, dir, "commit", "-m", "initial")
	RunGit(t, dir, "tag", "v1.0.0")
	RunGit(t, dir, "checkout", "-b", "dev")
	WriteFile(t, dir, "README.md", "dev\n")
	RunGit(t, dir, "add", ".")
	RunGit(t, dir, "commit", "-m", "dev work")
	RunGit(t, dir, "checkout", "main")
	return dir
}

// Commit adds a file to the current branch of dir and returns the new HEAD.
func Commit(t *testing.T, dir string, rel string, content string) string {
	t.Helper()
	WriteFile(t, dir, rel, content)
	RunGit(t, dir, "add", ".")
	RunGit(t, dir, "commit", "-m", "update "+rel)
	return RunGit(t, dir, "rev-parse", "HEAD")
}
