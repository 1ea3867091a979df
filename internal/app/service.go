package app

import (
	"time"

	"ccgo/internal/adapters"
	"ccgo/internal/ports"
)

type Service struct {
	Projects ports.ProjectConfigPort
	Locator  ports.ProjectLocatorPort
	Locks    ports.LockStorePort
	Links    ports.LinkPort
	// Git builds the git collaborator for a per-invocation timeout.
	Git func(timeout time.Duration) ports.GitPort
}

func NewService() Service {
	return Service{
		Projects: adapters.NewProjectFileAdapter(),
		Locator:  adapters.NewProjectLocatorAdapter(),
		Locks:    adapters.NewLockFileAdapter(),
		Links:    adapters.NewLinkAdapter(),
		Git: func(timeout time.Duration) ports.GitPort {
			return adapters.NewGitCLIAdapter(timeout)
		},
	}
}
