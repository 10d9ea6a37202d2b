package citation

import "github.com/pericope/citesync/core/doc"

// NodeResolver resolves a node id against the current document state.
// *doc.Document satisfies it.
type NodeResolver interface {
	Get(id string) (*doc.Node, bool)
}

// Classifier decides whether a batch of mutation operations affects
// citation structure. It is stateless; classification is order-independent
// and short-circuits on the first relevant operation.
type Classifier struct {
	resolver NodeResolver
}

// NewClassifier creates a classifier reading current node state from
// resolver.
func NewClassifier(resolver NodeResolver) *Classifier {
	return &Classifier{resolver: resolver}
}

// Relevant reports whether any operation in the batch is citation-relevant:
//
//  1. Create or delete of a bibliography-citation marker.
//  2. A reference-kind change where the old or new value is the
//     bibliography sentinel (a marker entering or leaving scope).
//  3. A rid change on a node whose current reference-kind is the
//     bibliography sentinel.
//
// A rule-3 node that no longer exists (deleted later in the same batch)
// is not relevant on its own; scanning continues.
func (c *Classifier) Relevant(ops []doc.MutationOp) bool {
	for _, op := range ops {
		if c.relevantOp(op) {
			return true
		}
	}
	return false
}

func (c *Classifier) relevantOp(op doc.MutationOp) bool {
	switch op.Kind {
	case doc.OpCreate, doc.OpDelete:
		return op.NodeType == MarkerType && op.Attrs[RefKindAttr] == KindBibliography

	case doc.OpSetAttr:
		if op.Path == RefKindAttr {
			return op.Old == KindBibliography || op.New == KindBibliography
		}
		if op.Path == RIDsAttr {
			node, ok := c.resolver.Get(op.NodeID)
			if !ok {
				return false
			}
			return node.Type() == MarkerType && node.Attr(RefKindAttr) == KindBibliography
		}
	}
	return false
}
