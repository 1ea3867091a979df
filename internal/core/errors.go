package core

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ccgo/internal/types"
)

func dependencyError(kind types.ErrorKind, name string, code errbuilder.ErrCode, msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(code).
		WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return &types.DependencyError{
		Kind:       kind,
		Dependency: name,
		Err:        builder,
	}
}

// gitErrorKind reports GitCommandTimeout for deadline failures and
// fallback for everything else.
func gitErrorKind(err error, fallback types.ErrorKind) types.ErrorKind {
	var gitErr *types.GitCommandError
	if errors.As(err, &gitErr) && gitErr.TimedOut {
		return types.ErrorKindGitCommandTimeout
	}
	return fallback
}

func gitErrorCode(kind types.ErrorKind) errbuilder.ErrCode {
	if kind == types.ErrorKindGitCommandTimeout {
		return errbuilder.CodeInternal
	}
	return errbuilder.CodeFailedPrecondition
}
