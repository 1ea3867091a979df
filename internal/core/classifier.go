package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ccgo/internal/types"
)

// ClassifyDependency determines the shape of a raw specification value.
// Strings are version specs, tables with "git" are git specs and tables
// with "path" are path specs.
func ClassifyDependency(name string, raw any) (types.DependencySpec, error) {
	if version, ok := raw.(string); ok {
		return types.DependencySpec{
			Name:    name,
			Kind:    types.DependencyKindVersion,
			Version: version,
		}, nil
	}
	table, ok := asTable(raw)
	if !ok {
		return types.DependencySpec{}, invalidSpec(name, raw, "expected a version string or a table")
	}
	if _, found := table["git"]; found {
		git, err := gitSpecFromTable(name, raw, table)
		if err != nil {
			return types.DependencySpec{}, err
		}
		return types.DependencySpec{Name: name, Kind: types.DependencyKindGit, Git: &git}, nil
	}
	if _, found := table["path"]; found {
		path, err := pathSpecFromTable(name, raw, table)
		if err != nil {
			return types.DependencySpec{}, err
		}
		return types.DependencySpec{Name: name, Kind: types.DependencyKindPath, Path: &path}, nil
	}
	return types.DependencySpec{}, invalidSpec(name, raw, "table has neither 'git' nor 'path'")
}

func gitSpecFromTable(name string, raw any, table map[string]any) (types.GitSpec, error) {
	spec := types.GitSpec{}
	fields := []struct {
		key    string
		target *string
	}{
		{"git", &spec.URL},
		{"branch", &spec.Branch},
		{"tag", &spec.Tag},
		{"rev", &spec.Rev},
	}
	for _, field := range fields {
		value, err := stringField(name, raw, table, field.key)
		if err != nil {
			return types.GitSpec{}, err
		}
		*field.target = value
	}
	if spec.URL == "" {
		return types.GitSpec{}, invalidSpec(name, raw, "'git' must not be empty")
	}
	return spec, nil
}

func pathSpecFromTable(name string, raw any, table map[string]any) (types.PathSpec, error) {
	path, err := stringField(name, raw, table, "path")
	if err != nil {
		return types.PathSpec{}, err
	}
	if path == "" {
		return types.PathSpec{}, invalidSpec(name, raw, "'path' must not be empty")
	}
	version, err := stringField(name, raw, table, "version")
	if err != nil {
		return types.PathSpec{}, err
	}
	return types.PathSpec{Path: path, Version: version}, nil
}

func stringField(name string, raw any, table map[string]any, key string) (string, error) {
	value, found := table[key]
	if !found || value == nil {
		return "", nil
	}
	text, ok := value.(string)
	if !ok {
		return "", invalidSpec(name, raw, fmt.Sprintf("'%s' must be a string", key))
	}
	return strings.TrimSpace(text), nil
}

func asTable(raw any) (map[string]any, bool) {
	switch value := raw.(type) {
	case map[string]any:
		return value, true
	case map[string]string:
		table := make(map[string]any, len(value))
		for key, item := range value {
			table[key] = item
		}
		return table, true
	default:
		return nil, false
	}
}

func invalidSpec(name string, raw any, reason string) error {
	return dependencyError(
		types.ErrorKindInvalidSpecification,
		name,
		errbuilder.CodeInvalidArgument,
		fmt.Sprintf("invalid specification for %s: %s (got %#v)", name, reason, raw),
		nil,
	)
}
