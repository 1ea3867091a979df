package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"

	"ccgo/internal/ports"
	"ccgo/internal/types"
)

const ProjectFileName = "CCGO.toml"

type ProjectFileAdapter struct{}

func NewProjectFileAdapter() ProjectFileAdapter {
	return ProjectFileAdapter{}
}

func (a ProjectFileAdapter) LoadProject(path string) (types.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProjectConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project file not found").
			WithCause(err)
	}
	var project types.ProjectConfig
	if err := toml.Unmarshal(data, &project); err != nil {
		return types.ProjectConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse project toml").
			WithCause(err)
	}
	return project, nil
}

// ProjectLocatorAdapter walks upward from a start directory to the first
// directory holding CCGO.toml.
type ProjectLocatorAdapter struct{}

func NewProjectLocatorAdapter() ProjectLocatorAdapter {
	return ProjectLocatorAdapter{}
}

func (a ProjectLocatorAdapter) FindProjectRoot(start string) (string, error) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project directory").
			WithCause(err)
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("no CCGO.toml found in " + start + " or any parent directory")
		}
		dir = parent
	}
}

var (
	_ ports.ProjectConfigPort  = ProjectFileAdapter{}
	_ ports.ProjectLocatorPort = ProjectLocatorAdapter{}
)
