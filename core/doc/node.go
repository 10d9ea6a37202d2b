package doc

import "github.com/antchfx/xmlquery"

// Node represents one element of a Document.
type Node struct {
	d *Document
	n *xmlquery.Node
}

// ID returns the node's stable identity.
func (n *Node) ID() string {
	if n.n == nil {
		return ""
	}
	return n.n.SelectAttr(IDAttr)
}

// Type returns the element name (e.g. "xref", "ref-list").
func (n *Node) Type() string {
	if n.n == nil {
		return ""
	}
	return n.n.Data
}

// Attr returns the value of a specific attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n.n == nil {
		return ""
	}
	return n.n.SelectAttr(name)
}

// Attrs returns all attributes of the node.
func (n *Node) Attrs() map[string]string {
	if n.n == nil {
		return nil
	}
	attrs := make(map[string]string, len(n.n.Attr))
	for _, attr := range n.n.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	return attrs
}

// Parent returns the parent element, if any.
func (n *Node) Parent() (*Node, bool) {
	if n.n == nil || n.n.Parent == nil || n.n.Parent.Type != xmlquery.ElementNode {
		return nil, false
	}
	return &Node{d: n.d, n: n.n.Parent}, true
}

// Children returns the child elements in document order.
func (n *Node) Children() []*Node {
	if n.n == nil {
		return nil
	}
	var children []*Node
	for child := n.n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{d: n.d, n: child})
		}
	}
	return children
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n.n == nil {
		return ""
	}
	return n.n.InnerText()
}

// attrSnapshot captures the node's attributes for mutation ops.
func attrSnapshot(n *xmlquery.Node) map[string]string {
	attrs := make(map[string]string, len(n.Attr))
	for _, attr := range n.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	return attrs
}
