package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/inline"
)

// CodeSpanRule recognizes a run of one or more bytes of MarkerByte (only
// '`' in the registered core rule set) as a code span opener, searching
// forward for a run of the same character and exact same length to close
// it. If none is found the opener is left as literal text. A single
// leading and trailing space are stripped when the content isn't
// entirely whitespace, per CommonMark's code-span rule.
type CodeSpanRule struct{ MarkerByte byte }

func (r CodeSpanRule) Marker() byte { return r.MarkerByte }

func (r CodeSpanRule) Check(s *inline.State) (int, bool) {
	if s.Pos >= s.PosMax || s.Src[s.Pos] != r.MarkerByte {
		return 0, false
	}
	marker := r.MarkerByte
	openLen := runLength(s.Src, s.Pos, marker)
	searchFrom := s.Pos + openLen
	for p := searchFrom; p < s.PosMax; {
		if s.Src[p] != marker {
			p++
			continue
		}
		closeLen := runLength(s.Src, p, marker)
		if closeLen == openLen {
			return p + closeLen - s.Pos, true
		}
		p += closeLen
	}
	return 0, false
}

func (r CodeSpanRule) Run(s *inline.State) (int, bool) {
	n, ok := r.Check(s)
	if !ok {
		return 0, false
	}
	marker := r.MarkerByte
	openLen := runLength(s.Src, s.Pos, marker)
	contentStart := s.Pos + openLen
	contentEnd := s.Pos + n - openLen
	content := s.Src[contentStart:contentEnd]
	content = strings.ReplaceAll(content, "\n", " ")
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.TrimSpace(content) != "" {
		content = content[1 : len(content)-1]
	}
	s.FlushTrailingText()
	s.Node.Append(newPositioned(s, CodeSpan{Content: content}, s.Pos, s.Pos+n))
	return n, true
}

func runLength(src string, pos int, marker byte) int {
	n := 0
	for pos+n < len(src) && src[pos+n] == marker {
		n++
	}
	return n
}
