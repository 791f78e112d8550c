// Package cmark is the concrete CommonMark block and inline rule set:
// the node Value types and Tokenizer rules that a mdit.Parser installs by
// default via Install.
package cmark

// Heading is an ATX or setext heading, level 1-6.
type Heading struct {
	Level  int
	Setext bool
}

func (Heading) ASTValue() {}

// ThematicBreak is a `---`/`***`/`___` rule line.
type ThematicBreak struct {
	Marker byte
}

func (ThematicBreak) ASTValue() {}

// CodeBlock is an indented or fenced code block. Info and Marker are zero
// for indented blocks.
type CodeBlock struct {
	Content   string
	Info      string
	Fenced    bool
	Marker    byte
	MarkerLen int
}

func (CodeBlock) ASTValue() {}

// Blockquote wraps its nested block content.
type Blockquote struct{}

func (Blockquote) ASTValue() {}

// List is a bullet or ordered list container.
type List struct {
	Ordered    bool
	Start      int
	Tight      bool
	BulletChar byte
	Terminator byte // ')' or '.' for ordered lists, 0 for bullet lists
}

func (List) ASTValue() {}

// ListItem is one list item's block content.
type ListItem struct{}

func (ListItem) ASTValue() {}

// Paragraph wraps one InlineRoot. Hidden is set by the list rule for tight
// lists: the renderer omits the <p> wrapper for a hidden paragraph.
type Paragraph struct {
	Hidden bool
}

func (Paragraph) ASTValue() {}

// HTMLBlock is a raw passthrough block of one of the seven recognized
// HTML-block forms.
type HTMLBlock struct {
	Content string
}

func (HTMLBlock) ASTValue() {}

// Emphasis is the `<em>` wrapper produced by a single-length emphasis
// pairing.
type Emphasis struct{}

func (Emphasis) ASTValue() {}

// Strong is the `<strong>` wrapper produced by a double-length emphasis
// pairing.
type Strong struct{}

func (Strong) ASTValue() {}

// CodeSpan is an inline backtick/tilde code span.
type CodeSpan struct {
	Content string
}

func (CodeSpan) ASTValue() {}

// TextValue implements ast.TextValuer so CollectText sees code span
// content as literal text.
func (c CodeSpan) TextValue() string { return c.Content }

// Autolink is a bare `<scheme:...>` or `<email>` construct.
type Autolink struct {
	URL   string
	Email bool
}

func (Autolink) ASTValue() {}

// Link is a full or reference-resolved `[text](dest "title")` construct.
type Link struct {
	Destination string
	Title       string
	HasTitle    bool
}

func (Link) ASTValue() {}

// Image is the image form of Link: its Children (via the node's Children
// slice) hold the alt text fragments.
type Image struct {
	Destination string
	Title       string
	HasTitle    bool
}

func (Image) ASTValue() {}

// Softbreak is a `\n` with no hard-break signal; rendered as a newline.
type Softbreak struct{}

func (Softbreak) ASTValue() {}

// IsSoftbreak implements ast.SoftbreakValuer.
func (Softbreak) IsSoftbreak() bool { return true }

// Hardbreak is a `\n` preceded by >=2 trailing spaces or a backslash;
// rendered as `<br>`.
type Hardbreak struct{}

func (Hardbreak) ASTValue() {}

// HTMLInline is a raw inline HTML tag/comment/etc, passed through
// verbatim.
type HTMLInline struct {
	Content string
}

func (HTMLInline) ASTValue() {}
