package cmark

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
)

// BlockquoteRule recognizes a `>` marker, strips it (and one following
// space) from every line it owns, recurses the block tokenizer over the
// resulting range, then restores the saved line index, per CommonMark's
// container-rule contract.
type BlockquoteRule struct{}

func (r BlockquoteRule) Check(s *block.State) bool {
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > 3 {
		return false
	}
	_, ok := block.BlockquoteMarker(s.LineTail(s.Line))
	return ok
}

func (r BlockquoteRule) Run(s *block.State) (*ast.Node, int, bool) {
	if !r.Check(s) {
		return nil, 0, false
	}

	restore := s.PushLines()
	defer restore()

	startLine := s.Line
	line := s.Line
	for line < s.LineMax {
		if s.Indent(line) >= 0 && s.Indent(line) <= 3 {
			if width, ok := block.BlockquoteMarker(s.LineTail(line)); ok {
				fns, indent := rescanIndent(s, line, s.Lines[line].FirstNonspace+width, 0)
				s.Lines[line].FirstNonspace = fns
				s.Lines[line].IndentNonspace = indent
				line++
				continue
			}
		}
		if s.IsBlank(line) {
			break
		}
		// lazy continuation: a following non-blank, non-`>` line belongs
		// to the blockquote's last paragraph iff it isn't itself some
		// other block's start. We approximate CommonMark's lazy
		// continuation by accepting it unconditionally here and letting
		// the nested paragraph rule's own terminator scan decide.
		s.Lines[line].IndentNonspace = -1
		line++
	}
	endExclusive := line

	n := ast.New(Blockquote{})
	savedNode, savedLine, savedLineMax, savedLevel := s.Node, s.Line, s.LineMax, s.Level
	s.Node = n
	s.Line = startLine
	s.LineMax = endExclusive
	s.Level++
	s.Tok.Tokenize(s)
	s.Node, s.Line, s.LineMax, s.Level = savedNode, savedLine, savedLineMax, savedLevel

	return n, endExclusive - startLine, true
}
