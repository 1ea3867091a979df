package types

type DependencyKind string

const (
	DependencyKindVersion DependencyKind = "version"
	DependencyKindGit     DependencyKind = "git"
	DependencyKindPath    DependencyKind = "path"
)

// PinKind names the git ref field a dependency was pinned with.
type PinKind string

const (
	PinKindNone   PinKind = ""
	PinKindBranch PinKind = "branch"
	PinKindTag    PinKind = "tag"
	PinKindRev    PinKind = "rev"
)

type LinkMode string

const (
	LinkModeSymlink LinkMode = "symlink"
	LinkModeCopy    LinkMode = "copy"
)
