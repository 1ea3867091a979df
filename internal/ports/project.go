package ports

import "ccgo/internal/types"

type ProjectConfigPort interface {
	LoadProject(path string) (types.ProjectConfig, error)
}

// ProjectLocatorPort finds the project root for a start directory.
type ProjectLocatorPort interface {
	FindProjectRoot(start string) (string, error)
}
