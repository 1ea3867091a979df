package types

type PackageMetadata struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description,omitempty"`
}

type TargetTable struct {
	Dependencies map[string]any `toml:"dependencies"`
}

// ProjectConfig is the subset of CCGO.toml the dependency resolver reads.
// Target keys are condition descriptors such as "cfg(unix)".
type ProjectConfig struct {
	Package      PackageMetadata        `toml:"package"`
	Dependencies map[string]any         `toml:"dependencies"`
	Target       map[string]TargetTable `toml:"target"`
}
