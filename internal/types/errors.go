package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindInvalidSpecification      ErrorKind = "InvalidSpecification"
	ErrorKindUnsupportedDependencyKind ErrorKind = "UnsupportedDependencyKind"
	ErrorKindGitCommandTimeout         ErrorKind = "GitCommandTimeout"
	ErrorKindGitClone                  ErrorKind = "GitCloneError"
	ErrorKindGitCheckout               ErrorKind = "GitCheckoutError"
	ErrorKindGitRevParse               ErrorKind = "GitRevParseError"
	ErrorKindPathNotFound              ErrorKind = "PathNotFound"
	ErrorKindLockFileRead              ErrorKind = "LockFileReadError"
	ErrorKindLockFileWrite             ErrorKind = "LockFileWriteError"
)

// DependencyError tags a failure with its kind and the dependency it
// belongs to. Dependency is empty for lock file failures.
type DependencyError struct {
	Kind       ErrorKind
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	if e.Dependency == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: dependency %q: %v", e.Kind, e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first DependencyError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var depErr *DependencyError
	if errors.As(err, &depErr) {
		return depErr.Kind, true
	}
	return "", false
}

// GitCommandError is returned by git adapters for a failed invocation.
// TimedOut distinguishes a per-call deadline from a non-zero exit.
type GitCommandError struct {
	Args     []string
	Stderr   string
	TimedOut bool
	Err      error
}

func (e *GitCommandError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("git %v timed out: %v", e.Args, e.Err)
	}
	if e.Stderr == "" {
		return fmt.Sprintf("git %v failed: %v", e.Args, e.Err)
	}
	return fmt.Sprintf("git %v failed: %s: %v", e.Args, e.Stderr, e.Err)
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}
