package cmark

import "github.com/jcorbin/mdit/inline"

// NewlineRule recognizes a literal '\n' in the inline buffer: two or more
// trailing spaces (or a preceding backslash, handled by EscapeRule)
// before it make a Hardbreak, anything else a Softbreak. Trailing spaces
// consumed as the hardbreak signal are popped out of the pending
// trailing-text buffer rather than left in the preceding Text run.
type NewlineRule struct{}

func (NewlineRule) Marker() byte { return '\n' }

func (NewlineRule) Check(s *inline.State) (int, bool) {
	if s.Pos >= s.PosMax || s.Src[s.Pos] != '\n' {
		return 0, false
	}
	return 1, true
}

func (NewlineRule) Run(s *inline.State) (int, bool) {
	if s.Pos >= s.PosMax || s.Src[s.Pos] != '\n' {
		return 0, false
	}
	trailing := s.TrailingGet()
	spaces := 0
	for spaces < len(trailing) && trailing[len(trailing)-1-spaces] == ' ' {
		spaces++
	}
	hard := spaces >= 2
	if hard {
		s.TrailingPop(spaces)
	}
	s.FlushTrailingText()
	if hard {
		s.Node.Append(newPositioned(s, Hardbreak{}, s.Pos, s.Pos+1))
	} else {
		s.Node.Append(newPositioned(s, Softbreak{}, s.Pos, s.Pos+1))
	}
	// leading spaces on the following line are insignificant.
	end := s.Pos + 1
	for end < s.PosMax && s.Src[end] == ' ' {
		end++
	}
	return end - s.Pos, true
}
