package block

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/extset"
	"github.com/jcorbin/mdit/sourcepos"
)

func posRange(start, end int) sourcepos.Pos { return sourcepos.Pos{Start: start, End: end} }

// State is the mutable context a block Rule runs against: the source
// text, the line index, the container node currently receiving
// children, and the handful of cursors (Line, BlkIndent, ListIndent,
// Tight, Level) that container rules adjust before recursing.
type State struct {
	Src string

	Tok     *Tokenizer
	RootExt *extset.Set

	Node  *ast.Node
	Lines []LineInfo

	BlkIndent  int
	Line       int
	LineMax    int
	Tight      bool
	ListIndent int
	Level      int

	// LastLineBlank records whether the line immediately before Line was
	// blank. The tokenizer keeps it up to date; none of the rules in
	// rules/cmark read it.
	LastLineBlank bool
}

// LineText returns the full (untrimmed) byte range of physical line i.
func (s *State) LineText(i int) string {
	li := s.Lines[i]
	return s.Src[li.LineStart:li.LineEnd]
}

// LineTail returns the line's content starting at its FirstNonspace,
// i.e. with leading container/indent already stripped by whatever
// container rule owns this line.
func (s *State) LineTail(i int) string {
	li := s.Lines[i]
	return s.Src[li.FirstNonspace:li.LineEnd]
}

// IsBlank reports whether line i has no non-whitespace content.
func (s *State) IsBlank(i int) bool {
	li := s.Lines[i]
	return li.FirstNonspace >= li.LineEnd
}

// Indent returns line i's tab-expanded visual indent, relative to
// BlkIndent (i.e. how many columns past the current container's content
// indentation the first non-space byte sits). Negative means the
// "paragraph continuation only" sentinel.
func (s *State) Indent(i int) int {
	in := s.Lines[i].IndentNonspace
	if in < 0 {
		return in
	}
	return in - s.BlkIndent
}

// PushLines saves the current Lines slice and BlkIndent so a container
// rule can mutate line entries for its nested call and restore them
// afterward via the returned func.
func (s *State) PushLines() (restore func()) {
	saved := make([]LineInfo, len(s.Lines))
	copy(saved, s.Lines)
	savedIndent := s.BlkIndent
	return func() {
		s.Lines = saved
		s.BlkIndent = savedIndent
	}
}

// SetPosFromLines sets n's source position to span from the
// FirstNonspace of line startLine through the LineEnd of the line
// immediately before endLineExclusive.
func (s *State) SetPosFromLines(n *ast.Node, startLine, endLineExclusive int) {
	if endLineExclusive <= startLine {
		return
	}
	n.SetPos(posRange(s.Lines[startLine].FirstNonspace, s.Lines[endLineExclusive-1].LineEnd))
}
