package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/emphasis"
)

// JoinFragments is the post-pass run once per expanded InlineRoot,
// after every inline rule has had its turn: it walks the whole
// container tree, turning any delimiter placeholder that never found a
// pairing into literal text (a spent emphasis.Marker becomes its
// repeated marker byte, an unresolved linkMarker becomes its literal
// bracket) at every nesting depth, then merges adjacent Text siblings
// so the tree a renderer walks has no leftover bookkeeping nodes.
//
// Recursion matters here: Matcher.TryMatch and LinkCloseRule can each
// splice a still-unresolved sibling placeholder into a newly wrapped
// Emphasis/Strong/Link/Image node's Children (when that placeholder sat
// between an opener and its closer), so a placeholder left unresolved
// can end up nested arbitrarily deep, not just at container's own
// top level.
func JoinFragments(container *ast.Node) {
	resolved := make([]*ast.Node, 0, len(container.Children))
	for _, c := range container.Children {
		if lit, ok := literalFor(c); ok {
			if lit == "" {
				continue
			}
			c.Replace(ast.Text{Content: lit})
		}
		if len(c.Children) > 0 {
			JoinFragments(c)
		}
		resolved = append(resolved, c)
	}
	container.Children = mergeAdjacentText(resolved)
}

// literalFor reports the literal text a surviving placeholder node
// should collapse to, if c is a placeholder at all.
func literalFor(c *ast.Node) (string, bool) {
	if m, ok := ast.Cast[emphasis.Marker](c); ok {
		return strings.Repeat(string(m.MarkerByte), m.Remaining), true
	}
	if m, ok := ast.Cast[linkMarker](c); ok {
		// any linkMarker still present here (active or deactivated by a
		// later successful inner link) never got spliced into a
		// Link/Image wrapper, so it renders as its literal bracket(s).
		return openerText(m), true
	}
	return "", false
}

func mergeAdjacentText(children []*ast.Node) []*ast.Node {
	out := children[:0]
	for _, c := range children {
		if len(out) > 0 {
			prev := out[len(out)-1]
			prevText, prevOK := ast.Cast[ast.Text](prev)
			curText, curOK := ast.Cast[ast.Text](c)
			if prevOK && curOK {
				prev.Replace(ast.Text{Content: prevText.Content + curText.Content})
				if prev.HasPos && c.HasPos {
					prev.Pos.End = c.Pos.End
				}
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
