package types

// LockEntry is the persisted snapshot of one resolved dependency.
type LockEntry struct {
	Type    DependencyKind `json:"type" yaml:"type"`
	Git     string         `json:"git,omitempty" yaml:"git,omitempty"`
	Commit  string         `json:"commit,omitempty" yaml:"commit,omitempty"`
	Path    string         `json:"path" yaml:"path"`
	Branch  string         `json:"branch,omitempty" yaml:"branch,omitempty"`
	Tag     string         `json:"tag,omitempty" yaml:"tag,omitempty"`
	Rev     string         `json:"rev,omitempty" yaml:"rev,omitempty"`
	Version string         `json:"version,omitempty" yaml:"version,omitempty"`
}

// LockFile maps dependency name to its lock entry.
type LockFile map[string]LockEntry

// LockEntryFor builds the lock record of a resolved dependency.
func LockEntryFor(dep ResolvedDependency) LockEntry {
	entry := LockEntry{
		Type:    dep.Kind,
		Path:    dep.Path,
		Version: dep.Version,
	}
	if dep.Kind != DependencyKindGit {
		return entry
	}
	entry.Git = dep.URL
	entry.Commit = dep.Commit
	switch dep.Pin {
	case PinKindBranch:
		entry.Branch = dep.PinRef
	case PinKindTag:
		entry.Tag = dep.PinRef
	case PinKindRev:
		entry.Rev = dep.PinRef
	}
	return entry
}
