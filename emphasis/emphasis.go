// Package emphasis implements the CommonMark delimiter matcher (C7): a
// streaming scanner emits a Marker placeholder per delimiter run, and
// whenever a placeholder that can close is emitted, Matcher.TryMatch
// walks backward through its container's siblings to pair it with a
// compatible opener under the "rule of 3", using a per-bucket
// opener-bottom cache to keep adversarial inputs (e.g. long alternating
// delimiter chains) linear rather than quadratic.
package emphasis

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/sourcepos"
)

// Marker is the placeholder leaf the scanner emits for one delimiter
// run. Remaining starts equal to Length and is decremented by each
// successful pairing; Remaining <= Length is always true.
type Marker struct {
	MarkerByte byte
	Length     int
	Remaining  int
	Open       bool
	Close      bool
}

func (Marker) ASTValue() {}

// Constructor builds the Value for a node that wraps the children
// consumed by one pairing of the given matched length (1, 2, or 3).
// TryMatch itself attaches children to the resulting node's Children
// slice; a Constructor only needs to inspect them if its Value varies by
// content, not to store them.
type Constructor func(children []*ast.Node) ast.Value

// Matcher holds the per-container pairing-length constructor table and
// the opener-bottom cache. A fresh Matcher should be used per inline
// container (e.g. one per paragraph being parsed), since the cache and
// the children it indexes are both container-scoped.
type Matcher struct {
	// Constructors maps a matched pairing length (1, 2, or 3 bytes of
	// marker consumed per side) to the node Value it builds. The
	// longest length with a non-nil entry that still fits is always
	// preferred over shorter ones, per spec.
	Constructors map[int]Constructor

	bottoms map[bottomKey]int
}

type bottomKey struct {
	marker byte
	bucket int
}

func bucket(openAndClose bool, length int) int {
	b := length % 3
	if openAndClose {
		b += 3
	}
	return b
}

// TryMatch is called immediately after container.Children[closerIdx] is
// pushed, if that placeholder can close. It pairs it against as many
// compatible openers (searching right-to-left) as its Remaining count
// allows, splicing a new wrapper node into container.Children for each
// pairing.
func (m *Matcher) TryMatch(container *ast.Node, closerIdx int) {
	if m.bottoms == nil {
		m.bottoms = make(map[bottomKey]int)
	}

	for {
		children := container.Children
		if closerIdx < 0 || closerIdx >= len(children) {
			return
		}
		closer, ok := ast.Cast[Marker](children[closerIdx])
		if !ok || !closer.Close || closer.Remaining <= 0 {
			return
		}

		key := bottomKey{marker: closer.MarkerByte, bucket: bucket(closer.Open && closer.Close, closer.Length%3)}
		bottom := m.bottoms[key]

		openerIdx := -1
		var opener Marker
		for oi := closerIdx - 1; oi >= bottom; oi-- {
			cand, ok := ast.Cast[Marker](children[oi])
			if !ok || cand.MarkerByte != closer.MarkerByte || !cand.Open || cand.Remaining <= 0 {
				continue
			}
			if cand.Close || closer.Open {
				sum := cand.Length + closer.Length
				if sum%3 == 0 && !(cand.Length%3 == 0 && closer.Length%3 == 0) {
					continue
				}
			}
			openerIdx, opener = oi, cand
			break
		}

		if openerIdx < 0 {
			// no compatible opener anywhere above bottom: remember that,
			// so future closers in this bucket never rescan this range.
			m.bottoms[key] = closerIdx
			return
		}

		matchLen := min3(opener.Remaining, closer.Remaining)
		ctor, usedLen := m.pickConstructor(matchLen)
		if ctor == nil {
			// no constructor fits any feasible length: treat as if no
			// opener were found, but don't poison the bottom past this
			// opener -- a shorter closer run might still pair with it.
			m.bottoms[key] = openerIdx + 1
			continue
		}

		openerNode := children[openerIdx]
		closerNode := children[closerIdx]
		inner := append([]*ast.Node(nil), children[openerIdx+1:closerIdx]...)

		oldOpenerEnd := openerNode.Pos.End
		oldCloserStart := closerNode.Pos.Start

		opener.Remaining -= usedLen
		closer.Remaining -= usedLen
		openerNode.Replace(opener)
		closerNode.Replace(closer)
		if openerNode.HasPos {
			openerNode.Pos.End -= usedLen
		}
		if closerNode.HasPos {
			closerNode.Pos.Start += usedLen
		}

		wrapped := ast.New(ctor(inner))
		wrapped.Children = inner
		if openerNode.HasPos && closerNode.HasPos {
			wrapped.SetPos(sourcepos.Pos{Start: oldOpenerEnd - usedLen, End: oldCloserStart + usedLen})
		}

		newChildren := make([]*ast.Node, 0, len(children)-(closerIdx-openerIdx-1)+2)
		newChildren = append(newChildren, children[:openerIdx+1]...)
		newChildren = append(newChildren, wrapped)
		newChildren = append(newChildren, closerNode)
		newChildren = append(newChildren, children[closerIdx+1:]...)
		container.Children = newChildren

		closerIdx = openerIdx + 2 // wrapped now sits right after the (still-present) opener

		if closer.Remaining <= 0 {
			return
		}
		// loop: this closer may still pair with an even-earlier opener
	}
}

func (m *Matcher) pickConstructor(maxLen int) (Constructor, int) {
	for l := maxLen; l >= 1; l-- {
		if c, ok := m.Constructors[l]; ok {
			return c, l
		}
	}
	return nil, 0
}

func min3(a, b int) int {
	n := 3
	if a < n {
		n = a
	}
	if b < n {
		n = b
	}
	return n
}
