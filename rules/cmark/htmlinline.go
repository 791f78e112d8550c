package cmark

import (
	"regexp"
	"strings"

	"github.com/jcorbin/mdit/inline"
)

var (
	reInlineOpenTag  = regexp.MustCompile(`(?s)^<[a-zA-Z][a-zA-Z0-9-]*(\s+[a-zA-Z_:][a-zA-Z0-9_.:-]*(\s*=\s*("[^"]*"|'[^']*'|[^\s"'=<>` + "`" + `]+))?)*\s*/?>`)
	reInlineCloseTag = regexp.MustCompile(`^</[a-zA-Z][a-zA-Z0-9-]*\s*>`)
	reInlineComment  = regexp.MustCompile(`(?s)^<!---->|^<!--(?:-?[^>-])(?:-?[^-])*-->`)
	reInlinePI       = regexp.MustCompile(`(?s)^<\?.*?\?>`)
	reInlineDecl     = regexp.MustCompile(`(?s)^<![A-Za-z].*?>`)
	reInlineCDATA    = regexp.MustCompile(`(?s)^<!\[CDATA\[.*?\]\]>`)
	reAnchorOpenTag  = regexp.MustCompile(`(?i)^<a(\s|>|/>)`)
)

// HTMLInlineRule recognizes one raw inline HTML span: a tag, comment,
// processing instruction, declaration, or CDATA section, passed through
// verbatim. It tracks LinkLevel across `<a>`/`</a>` so the link rule
// won't open a markdown link nested inside a raw anchor span.
type HTMLInlineRule struct{}

func (HTMLInlineRule) Marker() byte { return '<' }

func (r HTMLInlineRule) Check(s *inline.State) (int, bool) {
	_, n, ok := r.match(s)
	return n, ok
}

func (r HTMLInlineRule) Run(s *inline.State) (int, bool) {
	kind, n, ok := r.match(s)
	if !ok {
		return 0, false
	}
	text := s.Src[s.Pos : s.Pos+n]
	s.FlushTrailingText()
	s.Node.Append(newPositioned(s, HTMLInline{Content: text}, s.Pos, s.Pos+n))

	switch kind {
	case inlineKindAnchorOpen:
		s.LinkLevel++
	case inlineKindAnchorClose:
		if s.LinkLevel > 0 {
			s.LinkLevel--
		}
	}
	return n, true
}

const (
	inlineKindOther = iota
	inlineKindAnchorOpen
	inlineKindAnchorClose
)

// match reports the matched byte length of a raw inline HTML span
// starting at s.Pos, if any, along with whether it is an <a> open tag, a
// </a> close tag, or some other form.
func (r HTMLInlineRule) match(s *inline.State) (kind int, n int, ok bool) {
	src := s.Src[s.Pos:s.PosMax]
	if len(src) < 3 || src[0] != '<' {
		return 0, 0, false
	}

	switch {
	case strings.HasPrefix(src, "<!--"):
		if m := reInlineComment.FindString(src); m != "" {
			return inlineKindOther, len(m), true
		}
		return 0, 0, false
	case strings.HasPrefix(src, "<?"):
		if m := reInlinePI.FindString(src); m != "" {
			return inlineKindOther, len(m), true
		}
		return 0, 0, false
	case strings.HasPrefix(src, "<![CDATA["):
		if m := reInlineCDATA.FindString(src); m != "" {
			return inlineKindOther, len(m), true
		}
		return 0, 0, false
	case strings.HasPrefix(src, "</"):
		if m := reInlineCloseTag.FindString(src); m != "" {
			if strings.EqualFold(strings.TrimRight(m[2:len(m)-1], " \t\n"), "a") {
				return inlineKindAnchorClose, len(m), true
			}
			return inlineKindOther, len(m), true
		}
		return 0, 0, false
	case len(src) > 1 && src[1] == '!':
		if m := reInlineDecl.FindString(src); m != "" {
			return inlineKindOther, len(m), true
		}
		return 0, 0, false
	default:
		if m := reInlineOpenTag.FindString(src); m != "" {
			if reAnchorOpenTag.MatchString(m) {
				return inlineKindAnchorOpen, len(m), true
			}
			return inlineKindOther, len(m), true
		}
		return 0, 0, false
	}
}
