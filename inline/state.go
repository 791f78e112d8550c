package inline

import (
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/extset"
)

// State is the mutable context an inline Rule runs against: the flat
// content buffer (an InlineRoot's sliced content, or a reentrant slice
// of one for link-label parsing), its parallel source map, the
// container node receiving children, and the running trailing-text
// accumulator.
type State struct {
	Src       string
	SourceMap []ast.OffsetPair

	Tok     *Tokenizer
	RootExt *extset.Set

	// ContainerExt is the inline-root-scoped extension set: state private
	// to parsing this one container (e.g. the emphasis matcher's
	// opener-bottom cache), reset fresh for every InlineRoot expansion.
	ContainerExt *extset.Set

	Node      *ast.Node
	Pos       int
	PosMax    int
	LinkLevel int
	Level     int

	pending      []byte
	pendingStart int
	pendingOpen  bool
}

func (s *State) at(pos int) *State {
	c := *s
	c.Pos = pos
	return &c
}

// SourceOffset translates a buffer offset in s.Src back to a byte offset
// in the original document source.
func (s *State) SourceOffset(bufOffset int) int {
	return ast.TranslateOffset(s.SourceMap, bufOffset)
}

// TrailingPush appends bytes to the running trailing-text buffer,
// without creating a node yet; adjacent pushes coalesce into one Text
// node at the next flush (explicit FlushTrailingText, or implicitly
// whenever a rule's match causes the tokenizer to emit a differently
// typed node).
func (s *State) TrailingPush(b []byte) {
	if !s.pendingOpen {
		s.pendingStart = s.Pos
		s.pendingOpen = true
	}
	s.pending = append(s.pending, b...)
}

// TrailingPushString is TrailingPush for a string argument.
func (s *State) TrailingPushString(str string) { s.TrailingPush([]byte(str)) }

// TrailingPop trims the last n bytes off the pending trailing-text
// buffer (used by the hardbreak rule to eat trailing spaces it claims
// as part of its own match instead of leaving them in the Text run).
func (s *State) TrailingPop(n int) {
	if n > len(s.pending) {
		n = len(s.pending)
	}
	s.pending = s.pending[:len(s.pending)-n]
}

// TrailingGet returns the bytes accumulated so far in the trailing-text
// buffer, without clearing it.
func (s *State) TrailingGet() []byte { return s.pending }

// FlushTrailingText materializes any pending trailing-text bytes into a
// Text child of s.Node, then clears the buffer. Rules that are about to
// append their own node call this first so ordering stays correct;
// Tokenize also calls it once at the end of the scan.
func (s *State) FlushTrailingText() {
	if len(s.pending) == 0 {
		s.pendingOpen = false
		return
	}
	n := ast.New(ast.Text{Content: string(s.pending)})
	n.HasPos = true
	n.Pos.Start = s.SourceOffset(s.pendingStart)
	n.Pos.End = s.SourceOffset(s.Pos)
	s.Node.Append(n)
	s.pending = nil
	s.pendingOpen = false
}
