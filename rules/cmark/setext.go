package cmark

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
)

// SetextHeadingRule recognizes a paragraph-like run of text immediately
// followed by an underline of `=` (level 1) or `-` (level 2). It is
// registered before "paragraph" so it gets first
// look at a candidate text run, but yields (ok=false, no lines consumed)
// whenever no underline follows, leaving ParagraphRule to do the real
// accumulation.
type SetextHeadingRule struct {
	Terminators []block.Rule
}

func (r SetextHeadingRule) Check(s *block.State) bool { return block.DefaultCheck(r, s) }

func (r SetextHeadingRule) Run(s *block.State) (*ast.Node, int, bool) {
	if s.IsBlank(s.Line) {
		return nil, 0, false
	}
	textEnd := s.Line + 1
	for textEnd < s.LineMax {
		if s.IsBlank(textEnd) {
			return nil, 0, false
		}
		if _, ok := setextUnderline(s, textEnd); ok {
			break
		}
		if terminatorMatches(s, r.Terminators, textEnd) {
			return nil, 0, false
		}
		textEnd++
	}
	if textEnd >= s.LineMax {
		return nil, 0, false
	}
	marker, ok := setextUnderline(s, textEnd)
	if !ok {
		return nil, 0, false
	}
	level := 2
	if marker == '=' {
		level = 1
	}
	p := buildParagraph(s, s.Line, textEnd, false)
	ir := p.Children[0]
	n := ast.New(Heading{Level: level, Setext: true})
	n.Append(ir)
	return n, textEnd + 1 - s.Line, true
}

func setextUnderline(s *block.State, line int) (byte, bool) {
	if s.Indent(line) < 0 || s.Indent(line) > 3 {
		return 0, false
	}
	tail := s.LineTail(line)
	if tail == "" {
		return 0, false
	}
	marker := tail[0]
	if marker != '=' && marker != '-' {
		return 0, false
	}
	for i := 0; i < len(tail); i++ {
		switch tail[i] {
		case marker, ' ', '\t':
		default:
			return 0, false
		}
	}
	return marker, true
}
