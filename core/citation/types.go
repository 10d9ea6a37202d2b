// Package citation implements citation-order and label computation for
// bibliography cross-references in a tree-shaped document, change
// classification for mutation batches, and the synchronization controller
// that keeps derived marker/entry state current.
package citation

import "strings"

// Document vocabulary (JATS-flavored).
const (
	// MarkerType is the element type of a citation marker.
	MarkerType = "xref"

	// RefKindAttr is the attribute carrying a marker's reference kind.
	RefKindAttr = "ref-type"

	// KindBibliography is the reference-kind sentinel for markers in scope.
	KindBibliography = "bibr"

	// RIDsAttr is the attribute carrying a marker's referenced identifiers,
	// space-separated.
	RIDsAttr = "rid"

	// RefListType is the element type of the bibliography container.
	RefListType = "ref-list"

	// RefType is the element type of one bibliography entry.
	RefType = "ref"

	// RefKeyAttr is the attribute keying a bibliography entry to its record.
	RefKeyAttr = "rid"
)

// Marker is one in-scope citation marker in document order.
type Marker struct {
	// ID is the marker node's stable identity.
	ID string

	// RIDs are the referenced identifiers in the marker's own listed order.
	RIDs []string
}

// ParseRIDs splits a rid attribute value into identifiers. An empty or
// whitespace-only value yields nil.
func ParseRIDs(value string) []string {
	return strings.Fields(value)
}

// Derived is the transient computed state for one node, owned by the
// controller and overwritten wholesale on each recompute.
type Derived struct {
	// Position is the 1-based first-citation rank; 0 means unset.
	Position int

	// Label is the rendered display label; empty when uncited.
	Label string
}
