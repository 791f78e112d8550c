package cmark

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/inline"
	"github.com/jcorbin/mdit/sourcepos"
)

// newPositioned builds a leaf node wrapping v, with its source position
// translated from the inline buffer offsets [bufStart,bufEnd) via s's
// source map.
func newPositioned(s *inline.State, v ast.Value, bufStart, bufEnd int) *ast.Node {
	n := ast.New(v)
	n.SetPos(sourcepos.Pos{
		Start: s.SourceOffset(bufStart),
		End:   s.SourceOffset(bufEnd),
	})
	return n
}
