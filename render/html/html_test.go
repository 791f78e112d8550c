package html_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit"
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/render/html"
)

func TestXRenderSelfClosesVoidElements(t *testing.T) {
	p := mdit.NewParser()
	root := p.Parse("---\n\n![alt](/img.png)\n")
	got := html.XRender(root)
	assert.Contains(t, got, "<hr />")
	assert.Contains(t, got, "<img src=\"/img.png\" alt=\"alt\" />")
}

func TestWithSourcePos(t *testing.T) {
	p := mdit.NewParser()
	root := p.Parse("# hi\n")
	got := html.Render(root, html.WithSourcePos())
	assert.Contains(t, got, "data-sourcepos=\"0-4\"")
}

func TestWithHeadingAnchorsDisambiguates(t *testing.T) {
	p := mdit.NewParser()
	root := p.Parse("# Title\n\n# Title\n")
	got := html.Render(root, html.WithHeadingAnchors())
	assert.Contains(t, got, `id="title"`)
	assert.Contains(t, got, `id="title-1"`)
}

func TestRenderEscapesAttributesAndText(t *testing.T) {
	p := mdit.NewParser()
	root := p.Parse("[a](/x?y=\"z\"&w) 1 < 2\n")
	got := html.Render(root)
	assert.Contains(t, got, `href="/x?y=%22z%22&amp;w"`)
	assert.Contains(t, got, "1 &lt; 2")
}

func TestRenderTightListOmitsParagraphWrapper(t *testing.T) {
	p := mdit.NewParser()
	root := p.Parse("- a\n- b\n")
	got := html.Render(root)
	assert.NotContains(t, got, "<p>")
}

func TestRenderMergesDuplicateClassAndStyleAttrs(t *testing.T) {
	p := mdit.NewParser()
	root := p.Parse("## Section\n")
	heading := root.Children[0]
	heading.SetAttr("class", "a")
	heading.SetAttr("class", "b")
	heading.SetAttr("style", "color:red")
	heading.SetAttr("style", "font-weight:bold")
	heading.SetAttr("data-x", "1")
	heading.SetAttr("data-x", "2")

	got := html.Render(root)
	assert.Contains(t, got, `class="a b"`)
	assert.Contains(t, got, `style="color:red;font-weight:bold"`)
	assert.Contains(t, got, `data-x="1"`)
	assert.Contains(t, got, `data-x="2"`)
}

func TestRenderUnrecognizedNodeFallsBackToTextValue(t *testing.T) {
	root := &ast.Node{Value: ast.Root{}}
	child := &ast.Node{Value: customValue{text: "custom & text"}}
	root.Children = append(root.Children, child)
	got := html.Render(root)
	assert.Equal(t, "custom &amp; text", got)
}

type customValue struct{ text string }

func (customValue) ASTValue() {}

func (v customValue) TextValue() string { return v.text }
