package doc

import (
	"sort"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"

	"github.com/pericope/citesync/core/errors"
)

// OpKind identifies the kind of a mutation operation.
type OpKind int

const (
	// OpCreate records the creation of an element.
	OpCreate OpKind = iota
	// OpDelete records the removal of an element.
	OpDelete
	// OpSetAttr records an attribute change on an element.
	OpSetAttr
)

// MutationOp is one low-level mutation recorded by a transaction.
// Create and Delete ops snapshot the node's type and attributes at the
// time of the operation, so consumers can classify them after the node
// is gone from the tree.
type MutationOp struct {
	Kind     OpKind
	NodeID   string
	NodeType string            // element name, create/delete only
	Attrs    map[string]string // attribute snapshot, create/delete only
	Path     string            // attribute name, set-attr only
	Old      string            // previous value, set-attr only
	New      string            // new value, set-attr only
}

// Tx records mutations applied to a document within one transaction.
type Tx struct {
	d   *Document
	ops []MutationOp
}

// CreateElement creates a new element of the given type appended to the
// parent's children. The id attribute is taken from attrs when present,
// otherwise generated.
func (tx *Tx) CreateElement(parentID, typ string, attrs map[string]string) (*Node, error) {
	return tx.CreateElementBefore(parentID, typ, attrs, "")
}

// CreateElementBefore creates a new element inserted before the sibling
// with id beforeID. An empty beforeID appends at the end.
func (tx *Tx) CreateElementBefore(parentID, typ string, attrs map[string]string, beforeID string) (*Node, error) {
	parent, ok := tx.d.byID[parentID]
	if !ok {
		return nil, errors.NewNotFound("node", parentID)
	}

	var ref *xmlquery.Node
	if beforeID != "" {
		ref, ok = tx.d.byID[beforeID]
		if !ok {
			return nil, errors.NewNotFound("node", beforeID)
		}
		if ref.Parent != parent {
			return nil, errors.NewValidation("beforeID", "not a child of the parent")
		}
	}

	n := &xmlquery.Node{Type: xmlquery.ElementNode, Data: typ}

	id := attrs[IDAttr]
	if id == "" {
		id = uuid.NewString()
	}
	n.SetAttr(IDAttr, id)

	// Deterministic attribute order keeps serialization stable.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name != IDAttr {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		n.SetAttr(name, attrs[name])
	}

	insertBefore(parent, n, ref)
	tx.d.byID[id] = n

	tx.ops = append(tx.ops, MutationOp{
		Kind:     OpCreate,
		NodeID:   id,
		NodeType: typ,
		Attrs:    attrSnapshot(n),
	})
	return &Node{d: tx.d, n: n}, nil
}

// Remove detaches the element with the given id (and its subtree) from
// the document. A delete op is recorded for the node and for every
// element beneath it, so consumers see removals buried in the subtree.
func (tx *Tx) Remove(id string) error {
	n, ok := tx.d.byID[id]
	if !ok {
		return errors.NewNotFound("node", id)
	}

	tx.recordDeletes(n)
	tx.d.unindexSubtree(n)
	detach(n)
	return nil
}

// recordDeletes records an OpDelete with snapshot for n and each element
// descendant, in document order.
func (tx *Tx) recordDeletes(n *xmlquery.Node) {
	if n.Type == xmlquery.ElementNode {
		tx.ops = append(tx.ops, MutationOp{
			Kind:     OpDelete,
			NodeID:   n.SelectAttr(IDAttr),
			NodeType: n.Data,
			Attrs:    attrSnapshot(n),
		})
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		tx.recordDeletes(child)
	}
}

// SetAttr sets an attribute on the element with the given id. The id
// attribute itself is immutable. Setting an attribute to its current
// value records no operation.
func (tx *Tx) SetAttr(id, name, value string) error {
	n, ok := tx.d.byID[id]
	if !ok {
		return errors.NewNotFound("node", id)
	}
	if name == IDAttr {
		return errors.NewValidation("name", "id attribute is immutable")
	}

	old := n.SelectAttr(name)
	if old == value {
		return nil
	}
	n.SetAttr(name, value)

	tx.ops = append(tx.ops, MutationOp{
		Kind:   OpSetAttr,
		NodeID: id,
		Path:   name,
		Old:    old,
		New:    value,
	})
	return nil
}

// MoveBefore repositions an existing element under parentID, before the
// sibling with id beforeID (empty beforeID appends at the end). The node
// keeps its identity; the move is recorded as a delete/create pair with
// the same id and snapshot.
func (tx *Tx) MoveBefore(id, parentID, beforeID string) error {
	n, ok := tx.d.byID[id]
	if !ok {
		return errors.NewNotFound("node", id)
	}
	parent, ok := tx.d.byID[parentID]
	if !ok {
		return errors.NewNotFound("node", parentID)
	}

	var ref *xmlquery.Node
	if beforeID != "" {
		ref, ok = tx.d.byID[beforeID]
		if !ok {
			return errors.NewNotFound("node", beforeID)
		}
		if ref == n {
			return nil
		}
		if ref.Parent != parent {
			return errors.NewValidation("beforeID", "not a child of the parent")
		}
	}

	snapshot := attrSnapshot(n)
	tx.ops = append(tx.ops,
		MutationOp{Kind: OpDelete, NodeID: id, NodeType: n.Data, Attrs: snapshot},
		MutationOp{Kind: OpCreate, NodeID: id, NodeType: n.Data, Attrs: snapshot},
	)

	detach(n)
	insertBefore(parent, n, ref)
	return nil
}

// detach unlinks n from its parent and siblings.
func detach(n *xmlquery.Node) {
	if n.Parent != nil {
		if n.Parent.FirstChild == n {
			n.Parent.FirstChild = n.NextSibling
		}
		if n.Parent.LastChild == n {
			n.Parent.LastChild = n.PrevSibling
		}
	}
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// insertBefore links n under parent, before ref. A nil ref appends.
func insertBefore(parent, n, ref *xmlquery.Node) {
	n.Parent = parent
	if ref == nil {
		if parent.LastChild == nil {
			parent.FirstChild = n
			parent.LastChild = n
			return
		}
		n.PrevSibling = parent.LastChild
		parent.LastChild.NextSibling = n
		parent.LastChild = n
		return
	}

	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else {
		parent.FirstChild = n
	}
	ref.PrevSibling = n
}
