// Package ast defines the polymorphic syntax tree produced by the block
// and inline tokenizers: an ordered list of children, an optional source
// position, HTML-attribute pairs, a type-indexed extension set, and a
// value drawn from an open set of variants (Root, InlineRoot, Text, and
// whatever concrete block/inline rules contribute).
package ast

import (
	"github.com/jcorbin/mdit/extset"
	"github.com/jcorbin/mdit/sourcepos"
)

// Value is the open set of node payload variants. Concrete values (Root,
// InlineRoot, Text, TextSpecial, and every rule-contributed node type)
// implement it by existing as a named Go type; the marker method just
// keeps arbitrary types from satisfying it by accident.
type Value interface {
	ASTValue()
}

// Attr is one HTML-attribute (name, value) pair. Node.Attrs preserves
// insertion order; duplicate names are a renderer concern (see
// render/html's join-on-render-contract rules), not enforced here.
type Attr struct {
	Name  string
	Value string
}

// Node is one tree node: its children, an optional source span, attribute
// list, extension set, and a Value. Each Node exclusively owns its
// children and Value; the tree is acyclic and no child points back at a
// parent.
type Node struct {
	Value    Value
	Children []*Node
	Pos      sourcepos.Pos
	HasPos   bool
	Attrs    []Attr
	Ext      extset.Set
}

// New creates a leaf node wrapping v, with no children, no source
// position, and an empty attribute/extension set.
func New(v Value) *Node {
	return &Node{Value: v}
}

// Name returns the dynamic type name of the node's Value, e.g. "ast.Text"
// trimmed to its bare type name for diagnostics.
func (n *Node) Name() string { return typeName(n.Value) }

// Is reports whether the node's Value is of type T.
func Is[T Value](n *Node) bool {
	_, ok := n.Value.(T)
	return ok
}

// Cast returns the node's Value as T, and whether the assertion
// succeeded.
func Cast[T Value](n *Node) (T, bool) {
	v, ok := n.Value.(T)
	return v, ok
}

// Replace changes n's Value in place to v, preserving Children, Attrs,
// Pos and Ext.
func (n *Node) Replace(v Value) {
	n.Value = v
}

// SetPos sets the node's source position.
func (n *Node) SetPos(p sourcepos.Pos) {
	n.Pos = p
	n.HasPos = true
}

// Append adds a child node, returning it for chaining.
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Attr returns the value of the first attribute with the given name, and
// whether it was found.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr appends an attribute pair. Duplicate names are allowed here;
// merging duplicate class/style attributes is the renderer's job per the
// node attribute HTML contract.
func (n *Node) SetAttr(name, value string) {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Walk visits n and its descendants preorder (parent before children).
// It uses an explicit heap stack rather than recursion so that documents
// with pathological nesting (deeply stacked blockquotes or lists) cannot
// overflow the call stack.
func Walk(n *Node, f func(*Node)) {
	type frame struct {
		node *Node
		i    int
	}
	stack := []frame{{n, -1}}
	f(n)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		top.i++
		if top.i >= len(top.node.Children) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.node.Children[top.i]
		f(child)
		stack = append(stack, frame{child, -1})
	}
}

// WalkPost visits n and its descendants postorder (children before
// parent), also stack-based to survive deep trees.
func WalkPost(n *Node, f func(*Node)) {
	type frame struct {
		node    *Node
		i       int
		entered bool
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i < len(top.node.Children) {
			child := top.node.Children[top.i]
			top.i++
			stack = append(stack, frame{node: child})
			continue
		}
		f(top.node)
		stack = stack[:len(stack)-1]
	}
}

// TextValuer is implemented by leaf Values that contribute literal text
// to CollectText, e.g. Text and TextSpecial.
type TextValuer interface {
	TextValue() string
}

// SoftbreakValuer is implemented by Values that CollectText renders as a
// single "\n", e.g. a Softbreak node contributed by rules/cmark.
type SoftbreakValuer interface {
	IsSoftbreak() bool
}

// CollectText concatenates the literal text of n's descendants,
// depth-first, mapping any SoftbreakValuer to "\n".
func CollectText(n *Node) string {
	var buf []byte
	Walk(n, func(c *Node) {
		if tv, ok := c.Value.(TextValuer); ok {
			buf = append(buf, tv.TextValue()...)
			return
		}
		if sb, ok := c.Value.(SoftbreakValuer); ok && sb.IsSoftbreak() {
			buf = append(buf, '\n')
		}
	})
	return string(buf)
}

func typeName(v Value) string {
	type named interface{ TypeName() string }
	if nv, ok := v.(named); ok {
		return nv.TypeName()
	}
	return goTypeName(v)
}
