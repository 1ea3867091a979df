package app

import (
	"time"

	"ccgo/internal/types"
)

// Directories are resolved against the discovered project root when
// relative; empty values fall back to the resolver defaults.
type ProjectOptions struct {
	ProjectDir string
	DepsDir    string
	LockPath   string
}

type InstallRequest struct {
	ProjectOptions
	Jobs       int
	Prune      bool
	Platform   string
	Arch       string
	GitTimeout time.Duration
}

type InstallResult struct {
	ProjectRoot  string
	LockPath     string
	Dependencies []types.ResolvedDependency
	IncludeDirs  []string
}

type ListRequest struct {
	ProjectOptions
}

type LockedDependency struct {
	Name  string          `json:"name" yaml:"name"`
	Entry types.LockEntry `json:"entry" yaml:"entry"`
}

type ListResult struct {
	LockPath     string
	Dependencies []LockedDependency
}

type IncludeDirsRequest struct {
	ProjectOptions
}

type IncludeDirsResult struct {
	IncludeDirs []string
}

type CleanRequest struct {
	ProjectOptions
	All bool
}

type CleanResult struct {
	Removed []string
}
