package mdit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit"
	"github.com/jcorbin/mdit/render/html"
)

func renderMD(t *testing.T, src string) string {
	t.Helper()
	p := mdit.NewParser()
	root := p.Parse(src)
	return html.Render(root)
}

func TestParseSimpleParagraph(t *testing.T) {
	got := renderMD(t, "hello *world*\n")
	assert.Equal(t, "<p>hello <em>world</em></p>\n", got)
}

func TestParseHeadingAndList(t *testing.T) {
	got := renderMD(t, "# Title\n\n- one\n- two\n")
	assert.Equal(t, "<h1>Title</h1>\n<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n", got)
}

func TestParseReferenceLink(t *testing.T) {
	src := "[see][ref]\n\n[ref]: /dest \"Title\"\n"
	got := renderMD(t, src)
	assert.Equal(t, "<p><a href=\"/dest\" title=\"Title\">see</a></p>\n", got)
}

func TestParseCodeSpanAndEscape(t *testing.T) {
	got := renderMD(t, "`a`b \\*c\\*\n")
	assert.Contains(t, got, "<code>a</code>b")
	assert.Contains(t, got, "*c*")
}

func TestTryParseNeverFailsOnBuiltins(t *testing.T) {
	p := mdit.NewParser()
	_, err := p.TryParse("# hi\n\nplain *em* text\n")
	assert.NoError(t, err)
}

func TestParseFencedCodeBlockWithInfo(t *testing.T) {
	got := renderMD(t, "```go\nfmt.Println(1)\n```\n")
	assert.Contains(t, got, "<pre><code class=\"language-go\">")
	assert.Contains(t, got, "fmt.Println(1)")
}
