// Package block implements the line-indexed block-level tokenizer (C5):
// a chain of block rules, tried in dependency order at each line, that
// segment the source into block-construct nodes and InlineRoot
// placeholders.
package block

import (
	"fmt"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/ruler"
)

// Mark names a block rule for dependency ordering.
type Mark = ruler.Mark

// Rule recognizes one block construct starting at state.Line.
type Rule interface {
	// Check is a cheap membership test: does this rule begin here? Used
	// by the paragraph rule to find its own terminators. Rules with no
	// cheaper test implement it via DefaultCheck.
	Check(s *State) bool
	// Run attempts to recognize the construct. On success it returns
	// the new node (own subtree; the caller appends it to the current
	// container) and how many source lines it consumed.
	Run(s *State) (node *ast.Node, lines int, ok bool)
}

// TryRule is implemented by rules registered through TryTokenize that
// may fail outright (as opposed to simply not matching).
type TryRule interface {
	TryRun(s *State) (node *ast.Node, lines int, ok bool, err error)
}

// RuleError wraps a TryRule failure with the mark of the rule that
// produced it, as surfaced through Parser.TryParse.
type RuleError struct {
	Mark Mark
	Err  error
}

func (e *RuleError) Error() string { return fmt.Sprintf("block rule %q: %v", e.Mark, e.Err) }
func (e *RuleError) Unwrap() error { return e.Err }

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

type namedRule struct {
	Mark Mark
	Rule Rule
}

// Tokenizer holds the compiled block rule chain and the recursion bound.
type Tokenizer struct {
	Rules      ruler.Ruler[namedRule]
	MaxNesting int
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

// Tokenize runs the compiled rule chain over state until Line reaches
// LineMax, appending produced nodes to state.Node. It never fails: a
// TryRule error here is a programming error path reachable only via
// TryTokenize.
func (t *Tokenizer) Tokenize(s *State) {
	_ = t.tokenize(s, false)
}

// TryTokenize is Tokenize's fallible twin: if any rule implementing
// TryRule returns an error, it is wrapped in a *RuleError and returned
// immediately, leaving state.Node's children as far as they got.
func (t *Tokenizer) TryTokenize(s *State) error {
	return t.tokenize(s, true)
}

func (t *Tokenizer) tokenize(s *State, fallible bool) error {
	compiled := t.Rules.Compile()
	for s.Line < s.LineMax {
		for s.Line < s.LineMax && s.IsBlank(s.Line) {
			s.LastLineBlank = true
			s.Line++
		}
		if s.Line >= s.LineMax {
			break
		}
		if s.Lines[s.Line].IndentNonspace < 0 {
			break
		}
		if s.Level >= t.MaxNesting {
			s.Line = s.LineMax
			break
		}

		matched := false
		for _, nr := range compiled {
			var (
				node  *ast.Node
				lines int
				ok    bool
			)
			if fallible {
				if tr, isTry := nr.Rule.(TryRule); isTry {
					var err error
					node, lines, ok, err = tr.TryRun(s)
					if err != nil {
						return &RuleError{Mark: nr.Mark, Err: err}
					}
				} else {
					node, lines, ok = nr.Rule.Run(s)
				}
			} else {
				node, lines, ok = nr.Rule.Run(s)
			}
			if !ok {
				continue
			}
			startLine := s.Line
			s.Line += lines
			if node != nil {
				if lines > 0 {
					s.SetPosFromLines(node, startLine, s.Line)
				}
				s.Node.Append(node)
			}
			matched = true
			s.LastLineBlank = false
			break
		}
		if matched {
			continue
		}

		// No rule matched (possible only when the paragraph fallback
		// has been disabled): emit one raw line as an InlineRoot.
		li := s.Lines[s.Line]
		ir := ast.New(ast.InlineRoot{
			Content:   s.Src[li.FirstNonspace:li.LineEnd],
			SourceMap: []ast.OffsetPair{{BufferOffset: 0, SourceOffset: li.FirstNonspace}},
		})
		ir.SetPos(posRange(li.FirstNonspace, li.LineEnd))
		s.Node.Append(ir)
		s.Line++
		s.LastLineBlank = false
	}
	return nil
}

// DefaultCheck is the cheap-check fallback for rules with no cheaper
// membership test: it calls Run and discards the resulting node, keeping
// only the success bit.
func DefaultCheck(r Rule, s *State) bool {
	clone := *s
	_, _, ok := r.Run(&clone)
	return ok
}
