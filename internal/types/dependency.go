package types

// SpecEntry is one raw entry of a specification map. Raw is either a
// version string or a decoded table (map[string]any).
type SpecEntry struct {
	Name string
	Raw  any
}

type GitSpec struct {
	URL    string
	Branch string
	Tag    string
	Rev    string
}

// Pin returns the effective ref field using rev > tag > branch precedence.
func (g GitSpec) Pin() (PinKind, string) {
	switch {
	case g.Rev != "":
		return PinKindRev, g.Rev
	case g.Tag != "":
		return PinKindTag, g.Tag
	case g.Branch != "":
		return PinKindBranch, g.Branch
	default:
		return PinKindNone, ""
	}
}

type PathSpec struct {
	Path    string
	Version string
}

// DependencySpec is a classified specification entry. Exactly one of
// Version, Git or Path is meaningful, selected by Kind.
type DependencySpec struct {
	Name    string
	Kind    DependencyKind
	Version string
	Git     *GitSpec
	Path    *PathSpec
}

type ResolvedDependency struct {
	Name    string
	Kind    DependencyKind
	Path    string
	URL     string
	Commit  string
	Pin     PinKind
	PinRef  string
	Version string
	Link    LinkMode
}

type ResolveResult struct {
	Dependencies []ResolvedDependency
	Paths        map[string]string
}
