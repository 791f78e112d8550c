package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit/ast"
)

type fakeSoftbreak struct{}

func (fakeSoftbreak) ASTValue()         {}
func (fakeSoftbreak) IsSoftbreak() bool { return true }

func TestWalkPreorder(t *testing.T) {
	root := ast.New(ast.Root{Content: "x"})
	a := root.Append(ast.New(ast.Text{Content: "a"}))
	a.Append(ast.New(ast.Text{Content: "a1"}))
	root.Append(ast.New(ast.Text{Content: "b"}))

	var order []string
	ast.Walk(root, func(n *ast.Node) { order = append(order, n.Name()) })
	assert.Equal(t, []string{"Root", "Text", "Text", "Text"}, order)
}

func TestWalkPostorder(t *testing.T) {
	root := ast.New(ast.Root{})
	a := root.Append(ast.New(ast.Text{Content: "a"}))
	a.Append(ast.New(ast.Text{Content: "a1"}))

	var order []string
	ast.WalkPost(root, func(n *ast.Node) { order = append(order, n.Name()) })
	assert.Equal(t, []string{"Text", "Text", "Root"}, order)
}

func TestCollectTextWithSoftbreak(t *testing.T) {
	root := ast.New(ast.Root{})
	root.Append(ast.New(ast.Text{Content: "foo"}))
	root.Append(ast.New(fakeSoftbreak{}))
	root.Append(ast.New(ast.Text{Content: "bar"}))

	assert.Equal(t, "foo\nbar", ast.CollectText(root))
}

func TestCastAndIs(t *testing.T) {
	n := ast.New(ast.Text{Content: "hi"})
	assert.True(t, ast.Is[ast.Text](n))
	assert.False(t, ast.Is[ast.TextSpecial](n))

	v, ok := ast.Cast[ast.Text](n)
	assert.True(t, ok)
	assert.Equal(t, "hi", v.Content)
}

func TestReplacePreservesChildren(t *testing.T) {
	n := ast.New(ast.Text{Content: "a"})
	child := n.Append(ast.New(ast.Text{Content: "b"}))
	n.Replace(ast.TextSpecial{Content: "a'"})
	assert.True(t, ast.Is[ast.TextSpecial](n))
	assert.Len(t, n.Children, 1)
	assert.Same(t, child, n.Children[0])
}

func TestInlineRootSourceOffset(t *testing.T) {
	ir := ast.InlineRoot{
		Content: "abc\ndef",
		SourceMap: []ast.OffsetPair{
			{BufferOffset: 0, SourceOffset: 100},
			{BufferOffset: 4, SourceOffset: 210},
		},
	}
	assert.Equal(t, 100, ir.SourceOffset(0))
	assert.Equal(t, 102, ir.SourceOffset(2))
	assert.Equal(t, 211, ir.SourceOffset(5))
}
