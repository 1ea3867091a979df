package ports

import "ccgo/internal/types"

// LinkPort materializes the visible dependency path from a cache slot.
type LinkPort interface {
	// Link replaces dest with a view of src and reports how it was made.
	Link(src string, dest string) (types.LinkMode, error)
}
