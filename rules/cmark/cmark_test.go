package cmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit"
	"github.com/jcorbin/mdit/render/html"
)

// TestCommonmarkExamples exercises a handful of representative CommonMark
// constructs per rule file, rather than the full upstream spec fixture.
func TestCommonmarkExamples(t *testing.T) {
	for _, tc := range []struct {
		name string
		md   string
		html string
	}{
		{
			name: "atx heading",
			md:   "## Section\n",
			html: "<h2>Section</h2>\n",
		},
		{
			name: "setext heading",
			md:   "Title\n=====\n",
			html: "<h1>Title</h1>\n",
		},
		{
			name: "thematic break",
			md:   "a\n\n---\n\nb\n",
			html: "<p>a</p>\n<hr />\n<p>b</p>\n",
		},
		{
			name: "blockquote",
			md:   "> quoted\n> text\n",
			html: "<blockquote>\n<p>quoted\ntext</p>\n</blockquote>\n",
		},
		{
			name: "indented code block",
			md:   "    code line\n",
			html: "<pre><code>code line\n</code></pre>\n",
		},
		{
			name: "fenced code block with info string",
			md:   "```go\nfmt.Println(1)\n```\n",
			html: "<pre><code class=\"language-go\">fmt.Println(1)\n</code></pre>\n",
		},
		{
			name: "tight list",
			md:   "- one\n- two\n",
			html: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name: "loose list",
			md:   "- one\n\n- two\n",
			html: "<ul>\n<li>\n<p>one</p>\n</li>\n<li>\n<p>two</p>\n</li>\n</ul>\n",
		},
		{
			name: "ordered list with start",
			md:   "3. three\n4. four\n",
			html: "<ol start=\"3\">\n<li>three</li>\n<li>four</li>\n</ol>\n",
		},
		{
			name: "autolink",
			md:   "<https://example.com>\n",
			html: "<p><a href=\"https://example.com\">https://example.com</a></p>\n",
		},
		{
			name: "code span",
			md:   "`a*b*c`\n",
			html: "<p><code>a*b*c</code></p>\n",
		},
		{
			name: "entity reference",
			md:   "&amp; &copy;\n",
			html: "<p>&amp; ©</p>\n",
		},
		{
			name: "backslash escape",
			md:   "\\*not emphasis\\*\n",
			html: "<p>*not emphasis*</p>\n",
		},
		{
			name: "raw html block",
			md:   "<div>\nraw\n</div>\n",
			html: "<div>\nraw\n</div>\n",
		},
		{
			name: "raw inline html",
			md:   "text <span class=\"x\">here</span>\n",
			html: "<p>text <span class=\"x\">here</span></p>\n",
		},
		{
			name: "inline link",
			md:   "[text](/dest \"title\")\n",
			html: "<p><a href=\"/dest\" title=\"title\">text</a></p>\n",
		},
		{
			name: "reference link",
			md:   "[text][ref]\n\n[ref]: /dest \"title\"\n",
			html: "<p><a href=\"/dest\" title=\"title\">text</a></p>\n",
		},
		{
			name: "hard line break",
			md:   "line one  \nline two\n",
			html: "<p>line one<br />\nline two</p>\n",
		},
		{
			name: "emphasis and strong",
			md:   "*em* and **strong**\n",
			html: "<p><em>em</em> and <strong>strong</strong></p>\n",
		},
		{
			name: "asymmetric flanking rule of three",
			md:   "*foo**bar*\n",
			html: "<p><em>foo**bar</em></p>\n",
		},
		{
			name: "tilde is not strikethrough",
			md:   "foo ~bar~ baz\n",
			html: "<p>foo ~bar~ baz</p>\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := mdit.NewParser()
			root := p.Parse(tc.md)
			got := html.XRender(root)
			assert.Equal(t, tc.html, got)
		})
	}
}
