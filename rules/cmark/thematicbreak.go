package cmark

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
)

// ThematicBreakRule recognizes a line of three or more `-`, `_`, or `*`,
// optionally interspersed with spaces/tabs.
type ThematicBreakRule struct{}

func (r ThematicBreakRule) Check(s *block.State) bool { return block.DefaultCheck(r, s) }

func (r ThematicBreakRule) Run(s *block.State) (*ast.Node, int, bool) {
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > 3 {
		return nil, 0, false
	}
	marker, _, ok := block.ThematicRuler(s.LineTail(s.Line), '-', '_', '*')
	if !ok {
		return nil, 0, false
	}
	return ast.New(ThematicBreak{Marker: marker}), 1, true
}
