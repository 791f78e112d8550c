package cmark

import (
	"unicode"
	"unicode/utf8"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/emphasis"
	"github.com/jcorbin/mdit/extset"
	"github.com/jcorbin/mdit/inline"
)

// EmphasisScanRule recognizes a run of '*' or '_' as a delimiter run,
// computing its can-open/can-close flanking per CommonMark's emphasis
// rules, then emitting an emphasis.Marker placeholder and immediately
// trying to pair it against earlier openers via the per-container
// emphasis.Matcher held in state.ContainerExt.
type EmphasisScanRule struct{ MarkerByte byte }

func (r EmphasisScanRule) Marker() byte { return r.MarkerByte }

func (r EmphasisScanRule) Check(s *inline.State) (int, bool) {
	if s.Pos >= s.PosMax || s.Src[s.Pos] != r.MarkerByte {
		return 0, false
	}
	return runLength(s.Src, s.Pos, r.MarkerByte), true
}

func (r EmphasisScanRule) Run(s *inline.State) (int, bool) {
	n, ok := r.Check(s)
	if !ok {
		return 0, false
	}
	before, beforeOK := runeBefore(s.Src, s.Pos)
	after, afterOK := runeAfter(s.Src, s.Pos+n)

	beforeWS := !beforeOK || unicode.IsSpace(before)
	afterWS := !afterOK || unicode.IsSpace(after)
	beforePunct := beforeOK && isUnicodePunctuation(before)
	afterPunct := afterOK && isUnicodePunctuation(after)

	leftFlanking := !afterWS && (!afterPunct || beforeWS || beforePunct)
	rightFlanking := !beforeWS && (!beforePunct || afterWS || afterPunct)

	var canOpen, canClose bool
	if r.MarkerByte == '_' {
		canOpen = leftFlanking && (!rightFlanking || beforePunct)
		canClose = rightFlanking && (!leftFlanking || afterPunct)
	} else {
		canOpen = leftFlanking
		canClose = rightFlanking
	}
	if !canOpen && !canClose {
		return 0, false
	}

	s.FlushTrailingText()
	node := newPositioned(s, emphasis.Marker{
		MarkerByte: r.MarkerByte,
		Length:     n,
		Remaining:  n,
		Open:       canOpen,
		Close:      canClose,
	}, s.Pos, s.Pos+n)
	s.Node.Append(node)

	if canClose {
		matcher := extset.GetOrInsert(s.ContainerExt, emphasisMatcher())
		matcher.TryMatch(s.Node, len(s.Node.Children)-1)
	}
	return n, true
}

// emphasisMatcher builds the single-level constructor table for "*"/"_"
// emphasis: lengths of 1 produce <em>, lengths of 2 produce <strong>. A
// run matched at length 3 deliberately has no direct entry: TryMatch
// falls back to consuming 2 of the 3 as <strong>, then loops and
// consumes the remaining 1 as <em> around that, yielding the correct
// <em><strong>...</strong></em> nesting for "***" without a third case.
func emphasisMatcher() *emphasis.Matcher {
	return &emphasis.Matcher{
		Constructors: map[int]emphasis.Constructor{
			1: func(children []*ast.Node) ast.Value { return Emphasis{} },
			2: func(children []*ast.Node) ast.Value { return Strong{} },
		},
	}
}

func isUnicodePunctuation(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func runeBefore(src string, pos int) (rune, bool) {
	if pos <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(src[:pos])
	if r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

func runeAfter(src string, pos int) (rune, bool) {
	if pos >= len(src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(src[pos:])
	if r == utf8.RuneError {
		return 0, false
	}
	return r, true
}
