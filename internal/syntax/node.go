// Package syntax abstracts target-language syntax trees behind a single
// Node/Tree view so the pattern engine never touches a parser directly.
// Parsers are collaborators, supplied per-language by the providers package;
// this package only wraps what they hand back.
package syntax

import sitter "github.com/smacker/go-tree-sitter"

// Tree is a parsed file: a root Node plus the source bytes it was parsed
// from. Every Node produced from a Tree keeps a reference to the same
// source slice so Text() never re-reads the file.
type Tree struct {
	raw    *sitter.Tree
	source []byte
}

// NewTree wraps a tree-sitter parse result. Close must be called once the
// tree and every Node derived from it are no longer needed.
func NewTree(raw *sitter.Tree, source []byte) *Tree {
	return &Tree{raw: raw, source: source}
}

// Root returns the tree's root Node.
func (t *Tree) Root() Node {
	return Node{raw: t.raw.RootNode(), source: t.source}
}

// Source returns the original bytes the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.raw != nil {
		t.raw.Close()
	}
}

// Node is an immutable view into a parsed tree: a kind, a byte range, named
// children in source order, and field-addressed children. Two Nodes compare
// equal (via Equal) iff they have the same byte range and kind; which tree
// they come from is not compared.
type Node struct {
	raw    *sitter.Node
	source []byte
}

// WrapNode builds a Node around a raw tree-sitter node sharing the given
// source. Used by providers when they need to hand a sub-node back into the
// engine.
func WrapNode(raw *sitter.Node, source []byte) Node {
	return Node{raw: raw, source: source}
}

// Valid reports whether the Node wraps an actual tree-sitter node.
func (n Node) Valid() bool { return n.raw != nil }

// Kind returns the node's grammar type, e.g. "function_declaration".
func (n Node) Kind() string {
	if n.raw == nil {
		return ""
	}
	return n.raw.Type()
}

// IsNamed reports whether the node is a named grammar production as opposed
// to an anonymous token (punctuation, keywords).
func (n Node) IsNamed() bool { return n.raw != nil && n.raw.IsNamed() }

// ByteRange returns the half-open [start, end) byte range of the node within
// its tree's source.
func (n Node) ByteRange() (uint32, uint32) {
	if n.raw == nil {
		return 0, 0
	}
	return n.raw.StartByte(), n.raw.EndByte()
}

// Text returns the exact source slice covered by the node.
func (n Node) Text() string {
	if n.raw == nil {
		return ""
	}
	s, e := n.ByteRange()
	return string(n.source[s:e])
}

// Source returns the full source buffer this node's tree was parsed from.
func (n Node) Source() []byte { return n.source }

// NamedChildren returns the node's named children in source order.
func (n Node) NamedChildren() []Node {
	if n.raw == nil {
		return nil
	}
	count := int(n.raw.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Node{raw: n.raw.NamedChild(i), source: n.source})
	}
	return out
}

// ChildByFieldName returns the single named child stored under the given
// grammar field, if any.
func (n Node) ChildByFieldName(name string) (Node, bool) {
	if n.raw == nil {
		return Node{}, false
	}
	c := n.raw.ChildByFieldName(name)
	if c == nil {
		return Node{}, false
	}
	return Node{raw: c, source: n.source}, true
}

// ChildByFieldNameMany returns every child stored under the given field,
// in source order. Some grammars repeat a field (e.g. "parameter" in an
// argument list); ChildByFieldName only ever sees the first.
func (n Node) ChildByFieldNameMany(name string) []Node {
	if n.raw == nil {
		return nil
	}
	var out []Node
	count := int(n.raw.ChildCount())
	for i := 0; i < count; i++ {
		if n.raw.FieldNameForChild(i) == name {
			out = append(out, Node{raw: n.raw.Child(i), source: n.source})
		}
	}
	return out
}

// Parent returns the node's parent, if any.
func (n Node) Parent() (Node, bool) {
	if n.raw == nil {
		return Node{}, false
	}
	p := n.raw.Parent()
	if p == nil {
		return Node{}, false
	}
	return Node{raw: p, source: n.source}, true
}

// Raw exposes the underlying tree-sitter node for providers that need
// grammar-specific escape hatches (e.g. Child(i) by positional index).
func (n Node) Raw() *sitter.Node { return n.raw }

// Equal reports whether two Nodes have the same byte range and the same
// kind; the underlying tree-sitter node pointers are not compared.
func (n Node) Equal(other Node) bool {
	if n.raw == nil || other.raw == nil {
		return n.raw == other.raw
	}
	s1, e1 := n.ByteRange()
	s2, e2 := other.ByteRange()
	return s1 == s2 && e1 == e2 && n.Kind() == other.Kind()
}
