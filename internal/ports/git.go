package ports

import "context"

// GitPort runs git operations against a local working tree. Every call
// blocks until the underlying git invocation exits or its timeout fires.
type GitPort interface {
	Clone(ctx context.Context, url string, dest string) error
	Fetch(ctx context.Context, repoDir string) error
	Checkout(ctx context.Context, repoDir string, ref string) error
	RevParse(ctx context.Context, repoDir string, rev string) (string, error)

	// DefaultBranch returns the branch name origin/HEAD points at.
	DefaultBranch(ctx context.Context, repoDir string) (string, error)
}
