package inline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/inline"
)

type stubStarValue struct{}

func (stubStarValue) ASTValue() {}

type stubStarRule struct{}

func (stubStarRule) Marker() byte { return '*' }
func (stubStarRule) Check(s *inline.State) (int, bool) {
	if s.Pos < s.PosMax && s.Src[s.Pos] == '*' {
		return 1, true
	}
	return 0, false
}
func (stubStarRule) Run(s *inline.State) (int, bool) {
	n, ok := stubStarRule{}.Check(s)
	if !ok {
		return 0, false
	}
	s.FlushTrailingText()
	s.Node.Append(ast.New(stubStarValue{}))
	return n, true
}

func newTestState(content string) (*inline.Tokenizer, *inline.State, *ast.Node) {
	tok := inline.NewTokenizer()
	tok.AddRule("star", stubStarRule{})
	root := ast.New(ast.Text{Content: ""})
	st := &inline.State{
		Src:       content,
		SourceMap: []ast.OffsetPair{{BufferOffset: 0, SourceOffset: 1000}},
		Tok:       tok,
		Node:      root,
		PosMax:    len(content),
	}
	return tok, st, root
}

func TestTokenizeCoalescesText(t *testing.T) {
	_, st, root := newTestState("ab*cd*ef")
	st.Tok.Tokenize(st)

	require.Len(t, root.Children, 5)
	txt0, ok := ast.Cast[ast.Text](root.Children[0])
	require.True(t, ok)
	assert.Equal(t, "ab", txt0.Content)

	_, ok = ast.Cast[stubStarValue](root.Children[1])
	assert.True(t, ok)

	txt1, ok := ast.Cast[ast.Text](root.Children[2])
	require.True(t, ok)
	assert.Equal(t, "cd", txt1.Content)

	_, ok = ast.Cast[stubStarValue](root.Children[3])
	assert.True(t, ok)
}

func TestTextNodeSourcePosTranslated(t *testing.T) {
	_, st, root := newTestState("abc")
	st.Tok.Tokenize(st)
	require.Len(t, root.Children, 1)
	txt := root.Children[0]
	assert.Equal(t, 1000, txt.Pos.Start)
	assert.Equal(t, 1003, txt.Pos.End)
}

func TestMaxNestingDegradesToPassthrough(t *testing.T) {
	_, st, root := newTestState("*a*")
	st.Tok.MaxNesting = 0
	st.Level = 0
	st.Tok.MaxNesting = 0
	assert.NotPanics(t, func() { st.Tok.Tokenize(st) })
	require.Len(t, root.Children, 1)
	txt, ok := ast.Cast[ast.Text](root.Children[0])
	require.True(t, ok)
	assert.Equal(t, "*a*", txt.Content)
}

func TestSkipMemoizesAcrossCalls(t *testing.T) {
	_, st, _ := newTestState("**")
	a := st.Tok.Skip(st, 0)
	b := st.Tok.Skip(st, 0)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a)
}
