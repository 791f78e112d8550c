// Package inline implements the byte-indexed inline-level tokenizer
// (C6): a chain of inline rules dispatched by starting byte, driving a
// running trailing-text accumulator for the bytes no rule claims.
package inline

import (
	"fmt"

	"github.com/jcorbin/mdit/ruler"
)

// Mark names an inline rule for dependency ordering.
type Mark = ruler.Mark

// AnyMarker is the reserved marker value meaning "try this rule at every
// position", used by the lowest-precedence text-run rule.
const AnyMarker byte = 0

// Rule recognizes one inline construct starting at state.Pos.
type Rule interface {
	// Marker is the byte this rule dispatches on, or AnyMarker to be
	// tried at every position regardless of the current byte.
	Marker() byte
	// Check is a cheap membership test returning the match length.
	Check(s *State) (length int, ok bool)
	// Run attempts the match, pushing at most one child onto state.Node
	// itself (unlike block rules, since many inline rules need to touch
	// the trailing-text buffer around their own node) and returning how
	// many bytes it consumed.
	Run(s *State) (length int, ok bool)
}

// RuleError wraps an inline rule's hard failure (reachable only through
// rules that choose to signal one via a custom error path outside the
// Rule interface; built-in rules never produce one).
type RuleError struct {
	Mark Mark
	Err  error
}

func (e *RuleError) Error() string { return fmt.Sprintf("inline rule %q: %v", e.Mark, e.Err) }
func (e *RuleError) Unwrap() error { return e.Err }

type namedRule struct {
	Mark Mark
	Rule Rule
}

// RuleBuilder refines a just-registered rule's ordering constraints.
type RuleBuilder struct {
	entry *ruler.Entry[namedRule]
}

func (b *RuleBuilder) Before(m Mark) *RuleBuilder { b.entry.Before = append(b.entry.Before, m); return b }
func (b *RuleBuilder) After(m Mark) *RuleBuilder  { b.entry.After = append(b.entry.After, m); return b }
func (b *RuleBuilder) Require(m Mark) *RuleBuilder {
	b.entry.Require = append(b.entry.Require, m)
	return b
}
func (b *RuleBuilder) Alias(m Mark) *RuleBuilder { b.entry.Aliases = append(b.entry.Aliases, m); return b }
func (b *RuleBuilder) BeforeAll() *RuleBuilder    { b.entry.Priority = ruler.BeforeAll; return b }
func (b *RuleBuilder) AfterAll() *RuleBuilder     { b.entry.Priority = ruler.AfterAll; return b }

// Tokenizer holds the compiled inline rule chain and the recursion
// bound.
type Tokenizer struct {
	Rules      ruler.Ruler[namedRule]
	MaxNesting int

	skipCache map[skipKey]int
}

type skipKey struct {
	pos       int
	linkLevel int
}

// NewTokenizer returns a Tokenizer with no rules installed and the
// default max-nesting bound of 100.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{MaxNesting: 100}
}

// AddRule registers r under mark, returning a builder to refine its
// ordering constraints.
func (t *Tokenizer) AddRule(mark Mark, r Rule) *RuleBuilder {
	t.Rules.Push(ruler.Entry[namedRule]{Mark: mark, Payload: namedRule{mark, r}})
	return &RuleBuilder{entry: t.Rules.Last()}
}

// RemoveRule removes a previously registered rule by mark.
func (t *Tokenizer) RemoveRule(mark Mark) int { return t.Rules.RemoveByMark(mark) }

// Tokenize runs the compiled rule chain over s from s.Pos to s.PosMax,
// appending nodes to s.Node and merging unclaimed bytes into Text runs.
func (t *Tokenizer) Tokenize(s *State) {
	compiled := t.Rules.Compile()
	for s.Pos < s.PosMax {
		if s.Level >= t.MaxNesting {
			// degrade to passthrough: emit the remainder as literal text
			s.TrailingPushString(s.Src[s.Pos:s.PosMax])
			s.Pos = s.PosMax
			break
		}
		b := s.Src[s.Pos]
		matched := false
		for _, nr := range compiled {
			m := nr.Rule.Marker()
			if m != AnyMarker && m != b {
				continue
			}
			length, ok := nr.Rule.Run(s)
			if !ok {
				continue
			}
			s.Pos += length
			matched = true
			break
		}
		if !matched {
			n := runeLen(b)
			if s.Pos+n > s.PosMax {
				n = s.PosMax - s.Pos
			}
			s.TrailingPushString(s.Src[s.Pos : s.Pos+n])
			s.Pos += n
		}
	}
	s.FlushTrailingText()
}

// Skip reports how far the tokenizer could advance from pos without
// emitting anything, i.e. the position it would stop needing to inspect
// byte-by-byte. It's memoized per (pos, linkLevel) so balanced-bracket
// scans (for link/image labels) over the same region run in amortized
// linear time rather than being re-walked for every candidate closer.
func (t *Tokenizer) Skip(s *State, pos int) int {
	key := skipKey{pos: pos, linkLevel: s.LinkLevel}
	if t.skipCache == nil {
		t.skipCache = make(map[skipKey]int)
	}
	if n, ok := t.skipCache[key]; ok {
		return n
	}
	compiled := t.Rules.Compile()
	p := pos
	for p < s.PosMax {
		b := s.Src[p]
		advanced := false
		for _, nr := range compiled {
			m := nr.Rule.Marker()
			if m != AnyMarker && m != b {
				continue
			}
			if n, ok := nr.Rule.Check(s.at(p)); ok && n > 0 {
				p += n
				advanced = true
				break
			}
		}
		if !advanced {
			p += runeLen(b)
		}
	}
	t.skipCache[key] = p
	return p
}

func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
