package cmark

import (
	"regexp"
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
)

// blockTagNames is the type-6 list of block-level tag names: a line
// opening or closing one of these, with no other content, is HTML block
// even if a paragraph is open (and so may interrupt one).
var blockTagNames = map[string]bool{}

func init() {
	for _, n := range []string{
		"address", "article", "aside", "base", "basefont", "blockquote",
		"body", "caption", "center", "col", "colgroup", "dd", "details",
		"dialog", "dir", "div", "dl", "dt", "fieldset", "figcaption",
		"figure", "footer", "form", "frame", "frameset", "h1", "h2", "h3",
		"h4", "h5", "h6", "head", "header", "hr", "html", "iframe", "legend",
		"li", "link", "main", "menu", "menuitem", "nav", "noframes", "ol",
		"optgroup", "option", "p", "param", "section", "summary", "table",
		"tbody", "td", "tfoot", "th", "thead", "title", "tr", "track", "ul",
	} {
		blockTagNames[n] = true
	}
}

var (
	reType1Open  = regexp.MustCompile(`(?i)^<(script|pre|style|textarea)(\s|>|$)`)
	reType1Close = regexp.MustCompile(`(?i)</(script|pre|style|textarea)>`)
	reType6Tag   = regexp.MustCompile(`(?i)^</?([a-z][a-z0-9-]*)(\s|/?>|$)`)
	reType7Open  = regexp.MustCompile(`^<[a-zA-Z][a-zA-Z0-9-]*(\s+[^<>]*)?/?>\s*$`)
	reType7Close = regexp.MustCompile(`^</[a-zA-Z][a-zA-Z0-9-]*\s*>\s*$`)
)

// htmlBlockKind classifies line's opening condition per CommonMark's seven
// HTML-block start conditions, returning 0 if none match. canInterrupt
// reports whether this kind may interrupt an open paragraph (all but
// type 7).
func htmlBlockKind(line string) (kind int, canInterrupt bool) {
	switch {
	case reType1Open.MatchString(line):
		return 1, true
	case strings.HasPrefix(line, "<!--"):
		return 2, true
	case strings.HasPrefix(line, "<?"):
		return 3, true
	case strings.HasPrefix(line, "<!") && len(line) > 2 && isASCIIAlpha(line[2]):
		return 4, true
	case strings.HasPrefix(line, "<![CDATA["):
		return 5, true
	}
	if m := reType6Tag.FindStringSubmatch(line); m != nil && blockTagNames[strings.ToLower(m[1])] {
		return 6, true
	}
	if reType7Open.MatchString(line) || reType7Close.MatchString(line) {
		return 7, false
	}
	return 0, false
}

func isASCIIAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func htmlBlockEnds(kind int, line string) bool {
	switch kind {
	case 1:
		return reType1Close.MatchString(line)
	case 2:
		return strings.Contains(line, "-->")
	case 3:
		return strings.Contains(line, "?>")
	case 4:
		return strings.Contains(line, ">")
	case 5:
		return strings.Contains(line, "]]>")
	default: // 6, 7: a following blank line ends the block
		return false
	}
}

// HTMLBlockRule recognizes one of the seven CommonMark HTML-block start
// conditions and consumes lines verbatim through its matching end
// condition (or, for types 6-7, through the next blank line / EOF).
type HTMLBlockRule struct{}

func (r HTMLBlockRule) Check(s *block.State) bool {
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > 3 {
		return false
	}
	kind, _ := htmlBlockKind(s.LineTail(s.Line))
	return kind != 0
}

func (r HTMLBlockRule) Run(s *block.State) (*ast.Node, int, bool) {
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > 3 {
		return nil, 0, false
	}
	kind, _ := htmlBlockKind(s.LineTail(s.Line))
	if kind == 0 {
		return nil, 0, false
	}

	var buf strings.Builder
	line := s.Line
	for line < s.LineMax {
		text := s.LineText(line)
		buf.WriteString(text)
		buf.WriteByte('\n')
		if htmlBlockEnds(kind, text) {
			line++
			break
		}
		line++
		if (kind == 6 || kind == 7) && line < s.LineMax && s.IsBlank(line) {
			break
		}
	}
	content := strings.TrimSuffix(buf.String(), "\n")
	return ast.New(HTMLBlock{Content: content}), line - s.Line, true
}

// CanInterruptParagraph reports whether an HTML block opener found at
// line may interrupt an open paragraph: all forms except type 7.
func (r HTMLBlockRule) CanInterruptParagraph(s *block.State, line int) bool {
	_, canInterrupt := htmlBlockKind(s.LineTail(line))
	return canInterrupt
}

// htmlBlockParagraphTerminator adapts HTMLBlockRule for use as a
// ParagraphRule terminator: unlike Check, it reports false for a type-7
// opener, since that form alone cannot interrupt a paragraph.
type htmlBlockParagraphTerminator struct{ HTMLBlockRule }

func (t htmlBlockParagraphTerminator) Check(s *block.State) bool {
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > 3 {
		return false
	}
	return t.HTMLBlockRule.CanInterruptParagraph(s, s.Line)
}
