package core

import (
	"path/filepath"
	"time"
)

const (
	DefaultDepsDirName  = "third_party"
	DefaultCacheDirName = ".cache"
	DefaultLockFileName = "CCGO.lock"
	DefaultGitTimeout   = 5 * time.Minute
)

// ResolverConfig carries the directories and options of one resolver.
// Empty fields are filled by WithDefaults relative to ProjectRoot.
type ResolverConfig struct {
	ProjectRoot string
	DepsDir     string
	CacheDir    string
	LockPath    string
	GitTimeout  time.Duration

	// Jobs bounds concurrent dependency resolution. Values below 2 keep
	// resolution sequential.
	Jobs int

	// PruneLock drops lock entries for names absent from the current
	// specification map when the lock is persisted.
	PruneLock bool
}

func (c ResolverConfig) WithDefaults() ResolverConfig {
	if c.ProjectRoot == "" {
		c.ProjectRoot = "."
	}
	if abs, err := filepath.Abs(c.ProjectRoot); err == nil {
		c.ProjectRoot = abs
	}
	if c.DepsDir == "" {
		c.DepsDir = filepath.Join(c.ProjectRoot, DefaultDepsDirName)
	} else if !filepath.IsAbs(c.DepsDir) {
		c.DepsDir = filepath.Join(c.ProjectRoot, c.DepsDir)
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(c.DepsDir, DefaultCacheDirName)
	} else if !filepath.IsAbs(c.CacheDir) {
		c.CacheDir = filepath.Join(c.ProjectRoot, c.CacheDir)
	}
	if c.LockPath == "" {
		c.LockPath = filepath.Join(c.ProjectRoot, DefaultLockFileName)
	} else if !filepath.IsAbs(c.LockPath) {
		c.LockPath = filepath.Join(c.ProjectRoot, c.LockPath)
	}
	if c.GitTimeout <= 0 {
		c.GitTimeout = DefaultGitTimeout
	}
	if c.Jobs < 1 {
		c.Jobs = 1
	}
	return c
}
