package block_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
)

type stubHeadingValue struct{ Level int }

func (stubHeadingValue) ASTValue() {}

type stubHeadingRule struct{}

func (stubHeadingRule) Check(s *block.State) bool { return block.DefaultCheck(stubHeadingRule{}, s) }

func (stubHeadingRule) Run(s *block.State) (*ast.Node, int, bool) {
	tail := s.LineTail(s.Line)
	if !strings.HasPrefix(tail, "# ") {
		return nil, 0, false
	}
	n := ast.New(stubHeadingValue{Level: 1})
	n.Append(ast.New(ast.Text{Content: strings.TrimSpace(tail[2:])}))
	return n, 1, true
}

func newTestState(src string) (*block.Tokenizer, *block.State, *ast.Node) {
	tok := block.NewTokenizer()
	tok.AddRule("heading", stubHeadingRule{})
	lines := block.BuildLineIndex(src)
	root := ast.New(ast.Root{Content: src})
	st := &block.State{
		Src:     src,
		Tok:     tok,
		Node:    root,
		Lines:   lines,
		LineMax: len(lines),
	}
	return tok, st, root
}

func TestTokenizeHeadingAndFallback(t *testing.T) {
	src := "# Title\nplain text\n"
	tok, st, root := newTestState(src)
	tok.Tokenize(st)

	require.Len(t, root.Children, 2)
	h, ok := ast.Cast[stubHeadingValue](root.Children[0])
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)

	ir, ok := ast.Cast[ast.InlineRoot](root.Children[1])
	require.True(t, ok)
	assert.Equal(t, "plain text", ir.Content)
}

func TestTokenizeSkipsBlankLines(t *testing.T) {
	src := "\n\n# Title\n"
	_, st, root := newTestState(src)
	st.Tok.Tokenize(st)
	require.Len(t, root.Children, 1)
	assert.True(t, st.LastLineBlank == false)
}

func TestSourcePosSpansConsumedLines(t *testing.T) {
	src := "# Title\n"
	_, st, root := newTestState(src)
	st.Tok.Tokenize(st)
	require.Len(t, root.Children, 1)
	n := root.Children[0]
	assert.True(t, n.HasPos)
	assert.Equal(t, 0, n.Pos.Start)
	assert.Equal(t, len("# Title"), n.Pos.End)
}

func TestPushLinesRestoresOnReturn(t *testing.T) {
	src := "abc\n"
	_, st, _ := newTestState(src)
	before := append([]block.LineInfo(nil), st.Lines...)
	restore := st.PushLines()
	st.Lines[0].FirstNonspace = 99
	st.BlkIndent = 7
	restore()
	assert.Equal(t, before, st.Lines)
	assert.Equal(t, 0, st.BlkIndent)
}
