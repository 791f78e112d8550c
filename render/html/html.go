// Package html renders a parsed mdit syntax tree to HTML or XHTML: a
// depth-first visitor over ast.Node that switches on each node's
// concrete Value, honoring the node-attribute HTML contract (Node.Attrs
// are emitted verbatim, in order, alongside whatever attributes the
// node's own tag contributes) and two opt-in decorator plugins,
// WithSourcePos and WithHeadingAnchors.
package html

import (
	"strconv"
	"strings"

	commonmarkhtml "gitlab.com/golang-commonmark/html"
	sanitizedanchorname "github.com/shurcooL/sanitized_anchor_name"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/rules/cmark"
)

// Option configures a render pass.
type Option func(*renderer)

// WithXHTML self-closes void elements (<br />, <hr />, <img .../>)
// instead of leaving them open, per the XHTML output mode.
func WithXHTML() Option { return func(r *renderer) { r.xhtml = true } }

// WithSourcePos decorates every node that carries a source position with
// a `data-sourcepos="start-end"` attribute, the way upstream's sourcepos
// plugin does.
func WithSourcePos() Option { return func(r *renderer) { r.sourcePos = true } }

// WithHeadingAnchors decorates every Heading with an `id` attribute
// derived from its text content via sanitized_anchor_name, disambiguating
// repeats with a numeric suffix.
func WithHeadingAnchors() Option { return func(r *renderer) { r.headingAnchors = true } }

// Render renders root (typically the ast.Root node a Parser.Parse
// returns) to an HTML string.
func Render(root *ast.Node, opts ...Option) string {
	r := &renderer{}
	for _, o := range opts {
		o(r)
	}
	var buf strings.Builder
	r.renderChildren(&buf, root)
	return buf.String()
}

// XRender is Render with WithXHTML applied, matching the embedding
// API's Node.XRender shorthand.
func XRender(root *ast.Node, opts ...Option) string {
	return Render(root, append(opts, WithXHTML())...)
}

type renderer struct {
	xhtml          bool
	sourcePos      bool
	headingAnchors bool
	anchorCounts   map[string]int
}

func (r *renderer) voidClose() string {
	if r.xhtml {
		return " />"
	}
	return ">"
}

func (r *renderer) renderChildren(buf *strings.Builder, n *ast.Node) {
	for _, c := range n.Children {
		r.renderNode(buf, c)
	}
}

func (r *renderer) openTag(buf *strings.Builder, n *ast.Node, tag string, attrs ...[2]string) {
	buf.WriteByte('<')
	buf.WriteString(tag)
	for _, a := range attrs {
		writeAttr(buf, a[0], a[1])
	}
	if r.sourcePos && n.HasPos {
		writeAttr(buf, "data-sourcepos", strconv.Itoa(n.Pos.Start)+"-"+strconv.Itoa(n.Pos.End))
	}
	writeNodeAttrs(buf, n)
	buf.WriteByte('>')
}

func writeAttr(buf *strings.Builder, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(commonmarkhtml.EscapeHTML(value))
	buf.WriteByte('"')
}

// writeNodeAttrs writes n.Attrs per the node attribute HTML contract:
// duplicate "class" names join with a space, duplicate "style" names
// join with ";", and every other duplicate is emitted verbatim, in
// order, as its own attribute.
func writeNodeAttrs(buf *strings.Builder, n *ast.Node) {
	for _, a := range mergeAttrs(n.Attrs) {
		writeAttr(buf, a.Name, a.Value)
	}
}

func mergeAttrs(attrs []ast.Attr) []ast.Attr {
	var out []ast.Attr
	merged := make(map[string]int)
	for _, a := range attrs {
		if a.Name != "class" && a.Name != "style" {
			out = append(out, a)
			continue
		}
		if i, ok := merged[a.Name]; ok {
			sep := " "
			if a.Name == "style" {
				sep = ";"
			}
			out[i].Value += sep + a.Value
			continue
		}
		merged[a.Name] = len(out)
		out = append(out, a)
	}
	return out
}

func (r *renderer) renderNode(buf *strings.Builder, n *ast.Node) {
	switch v := n.Value.(type) {
	case ast.Root:
		r.renderChildren(buf, n)

	case ast.Text:
		buf.WriteString(commonmarkhtml.EscapeHTML(v.Content))

	case ast.TextSpecial:
		buf.WriteString(commonmarkhtml.EscapeHTML(v.Content))

	case ast.InlineRoot:
		// every InlineRoot must have been expanded by the core "inline"
		// rule before rendering; one surviving here is a programming
		// error in the caller's pipeline, not a render-time data error.
		panic("render/html: unexpanded ast.InlineRoot reached the renderer")

	case cmark.Heading:
		tag := "h" + strconv.Itoa(v.Level)
		if r.headingAnchors {
			id := r.anchorID(ast.CollectText(n))
			r.openTag(buf, n, tag, [2]string{"id", id})
		} else {
			r.openTag(buf, n, tag)
		}
		r.renderChildren(buf, n)
		buf.WriteString("</" + tag + ">\n")

	case cmark.ThematicBreak:
		buf.WriteString("<hr")
		if r.sourcePos && n.HasPos {
			writeAttr(buf, "data-sourcepos", strconv.Itoa(n.Pos.Start)+"-"+strconv.Itoa(n.Pos.End))
		}
		writeNodeAttrs(buf, n)
		buf.WriteString(r.voidClose())
		buf.WriteString("\n")

	case cmark.CodeBlock:
		buf.WriteString("<pre><code")
		if v.Info != "" {
			lang := v.Info
			if sp := strings.IndexAny(lang, " \t"); sp >= 0 {
				lang = lang[:sp]
			}
			writeAttr(buf, "class", "language-"+lang)
		}
		buf.WriteString(">")
		buf.WriteString(commonmarkhtml.EscapeHTML(v.Content))
		buf.WriteString("</code></pre>\n")

	case cmark.Blockquote:
		r.openTag(buf, n, "blockquote")
		buf.WriteString("\n")
		r.renderChildren(buf, n)
		buf.WriteString("</blockquote>\n")

	case cmark.List:
		tag := "ul"
		var attrs [][2]string
		if v.Ordered {
			tag = "ol"
			if v.Start != 1 {
				attrs = append(attrs, [2]string{"start", strconv.Itoa(v.Start)})
			}
		}
		r.openTag(buf, n, tag, attrs...)
		buf.WriteString("\n")
		r.renderChildren(buf, n)
		buf.WriteString("</" + tag + ">\n")

	case cmark.ListItem:
		r.openTag(buf, n, "li")
		if len(n.Children) > 0 {
			if para, ok := ast.Cast[cmark.Paragraph](n.Children[0]); !ok || !para.Hidden {
				buf.WriteString("\n")
			}
		}
		r.renderChildren(buf, n)
		buf.WriteString("</li>\n")

	case cmark.Paragraph:
		if v.Hidden {
			r.renderChildren(buf, n)
			return
		}
		r.openTag(buf, n, "p")
		r.renderChildren(buf, n)
		buf.WriteString("</p>\n")

	case cmark.HTMLBlock:
		buf.WriteString(v.Content)
		buf.WriteString("\n")

	case cmark.HTMLInline:
		buf.WriteString(v.Content)

	case cmark.Emphasis:
		r.openTag(buf, n, "em")
		r.renderChildren(buf, n)
		buf.WriteString("</em>")

	case cmark.Strong:
		r.openTag(buf, n, "strong")
		r.renderChildren(buf, n)
		buf.WriteString("</strong>")

	case cmark.CodeSpan:
		r.openTag(buf, n, "code")
		buf.WriteString(commonmarkhtml.EscapeHTML(v.Content))
		buf.WriteString("</code>")

	case cmark.Autolink:
		r.openTag(buf, n, "a", [2]string{"href", v.URL})
		r.renderChildren(buf, n)
		buf.WriteString("</a>")

	case cmark.Link:
		attrs := [][2]string{{"href", v.Destination}}
		if v.HasTitle {
			attrs = append(attrs, [2]string{"title", v.Title})
		}
		r.openTag(buf, n, "a", attrs...)
		r.renderChildren(buf, n)
		buf.WriteString("</a>")

	case cmark.Image:
		attrs := [][2]string{
			{"src", v.Destination},
			{"alt", ast.CollectText(n)},
		}
		if v.HasTitle {
			attrs = append(attrs, [2]string{"title", v.Title})
		}
		buf.WriteString("<img")
		for _, a := range attrs {
			writeAttr(buf, a[0], a[1])
		}
		if r.sourcePos && n.HasPos {
			writeAttr(buf, "data-sourcepos", strconv.Itoa(n.Pos.Start)+"-"+strconv.Itoa(n.Pos.End))
		}
		writeNodeAttrs(buf, n)
		buf.WriteString(r.voidClose())

	case cmark.Softbreak:
		buf.WriteString("\n")

	case cmark.Hardbreak:
		buf.WriteString("<br" + r.voidClose() + "\n")

	default:
		// an unrecognized Value (a custom rule's node type the embedder
		// forgot to handle) renders as its literal text, if any, rather
		// than silently vanishing.
		if tv, ok := n.Value.(ast.TextValuer); ok {
			buf.WriteString(commonmarkhtml.EscapeHTML(tv.TextValue()))
		}
		r.renderChildren(buf, n)
	}
}

// anchorID slugifies text via sanitized_anchor_name, disambiguating a
// repeated slug with a "-N" suffix the way CommonMark.js-derived
// renderers do.
func (r *renderer) anchorID(text string) string {
	slug := sanitizedanchorname.Create(text)
	if r.anchorCounts == nil {
		r.anchorCounts = make(map[string]int)
	}
	n := r.anchorCounts[slug]
	r.anchorCounts[slug] = n + 1
	if n == 0 {
		return slug
	}
	return slug + "-" + strconv.Itoa(n)
}
