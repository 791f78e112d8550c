package cmark

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/inline"
)

// asciiPunct is the set of ASCII punctuation bytes a backslash may escape,
// per CommonMark's backslash-escape rule.
func asciiPunct(b byte) bool {
	switch {
	case b >= '!' && b <= '/':
		return true
	case b >= ':' && b <= '@':
		return true
	case b >= '[' && b <= '`':
		return true
	case b >= '{' && b <= '~':
		return true
	}
	return false
}

// EscapeRule recognizes a backslash followed by an ASCII punctuation
// character (emitted as ast.TextSpecial, not reinterpreted as markup) or
// by a newline (a hardbreak).
type EscapeRule struct{}

func (EscapeRule) Marker() byte { return '\\' }

func (EscapeRule) Check(s *inline.State) (int, bool) {
	if s.Pos+1 >= s.PosMax {
		return 0, false
	}
	c := s.Src[s.Pos+1]
	if asciiPunct(c) || c == '\n' {
		return 2, true
	}
	return 0, false
}

func (EscapeRule) Run(s *inline.State) (int, bool) {
	if s.Pos+1 >= s.PosMax {
		return 0, false
	}
	c := s.Src[s.Pos+1]
	if c == '\n' {
		s.FlushTrailingText()
		s.Node.Append(newPositioned(s, Hardbreak{}, s.Pos, s.Pos+2))
		return 2, true
	}
	if !asciiPunct(c) {
		return 0, false
	}
	s.FlushTrailingText()
	s.Node.Append(newPositioned(s, ast.TextSpecial{Content: string(c), Markup: string([]byte{'\\', c})}, s.Pos, s.Pos+2))
	return 2, true
}
