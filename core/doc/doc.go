// Package doc provides a mutable XML document tree with stable node ids,
// XPath selection, and transactional mutation with change notification.
//
// Security Notes:
//   - The xmlquery library is used for parsing, which uses Go's encoding/xml
//     internally and does not fetch external entities by default.
package doc

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"
)

// IDAttr is the attribute carrying a node's stable identity.
const IDAttr = "id"

// Document represents a parsed, mutable XML document.
type Document struct {
	root      *xmlquery.Node
	byID      map[string]*xmlquery.Node
	listeners []func([]MutationOp)
}

// Parse parses XML data and returns a Document.
// Every element is given a stable id: elements that carry an "id"
// attribute keep it, all others are assigned a generated one.
func Parse(data []byte) (*Document, error) {
	reader := bytes.NewReader(data)
	root, err := xmlquery.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	d := &Document{
		root: root,
		byID: make(map[string]*xmlquery.Node),
	}
	d.indexSubtree(root)
	return d, nil
}

// indexSubtree walks elements under n, assigning missing ids and
// registering each element in the id index.
func (d *Document) indexSubtree(n *xmlquery.Node) {
	if n.Type == xmlquery.ElementNode {
		id := n.SelectAttr(IDAttr)
		if id == "" {
			id = uuid.NewString()
			n.SetAttr(IDAttr, id)
		}
		d.byID[id] = n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		d.indexSubtree(child)
	}
}

// unindexSubtree removes elements under n from the id index.
func (d *Document) unindexSubtree(n *xmlquery.Node) {
	if n.Type == xmlquery.ElementNode {
		if id := n.SelectAttr(IDAttr); id != "" {
			delete(d.byID, id)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		d.unindexSubtree(child)
	}
}

// Serialize converts the document back to XML bytes.
func (d *Document) Serialize() []byte {
	if d.root == nil {
		return nil
	}
	return []byte(d.root.OutputXML(true))
}

// Find executes an XPath query and returns the first matching element.
// An invalid expression behaves as not found.
func (d *Document) Find(expr string) (*Node, bool) {
	n, err := xmlquery.Query(d.root, expr)
	if err != nil || n == nil {
		return nil, false
	}
	return &Node{d: d, n: n}, true
}

// FindAll executes an XPath query and returns all matching elements
// in stable document order. An invalid expression yields nil.
func (d *Document) FindAll(expr string) []*Node {
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil
	}
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{d: d, n: n}
	}
	return result
}

// Get returns the element with the given id.
func (d *Document) Get(id string) (*Node, bool) {
	n, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return &Node{d: d, n: n}, true
}

// OnChange registers a listener invoked once per committed transaction
// with the ordered batch of mutation operations.
func (d *Document) OnChange(fn func([]MutationOp)) {
	d.listeners = append(d.listeners, fn)
}

// Mutate runs fn inside a transaction. The mutation operations recorded
// by the transaction are delivered to change listeners after fn returns.
// Mutations are applied to the tree as they are made and are not rolled
// back on error, so ops that applied before a failure are still
// delivered; listeners never miss an applied change.
func (d *Document) Mutate(fn func(*Tx) error) error {
	tx := &Tx{d: d}
	err := fn(tx)
	if len(tx.ops) > 0 {
		for _, listener := range d.listeners {
			listener(tx.ops)
		}
	}
	return err
}
