package emphasis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/emphasis"
)

type emValue struct{}

func (emValue) ASTValue() {}

type strongValue struct{}

func (strongValue) ASTValue() {}

func newMatcher() *emphasis.Matcher {
	return &emphasis.Matcher{
		Constructors: map[int]emphasis.Constructor{
			1: func(children []*ast.Node) ast.Value { return emValue{} },
			2: func(children []*ast.Node) ast.Value { return strongValue{} },
		},
	}
}

func textNode(s string) *ast.Node { return ast.New(ast.Text{Content: s}) }

func markerNode(marker byte, length int, open, close bool) *ast.Node {
	n := ast.New(emphasis.Marker{
		MarkerByte: marker,
		Length:     length,
		Remaining:  length,
		Open:       open,
		Close:      close,
	})
	n.HasPos = true
	return n
}

func TestTryMatchSimpleEmphasis(t *testing.T) {
	container := ast.New(ast.Root{})
	opener := markerNode('*', 1, true, false)
	inner := textNode("hi")
	closer := markerNode('*', 1, false, true)
	container.Children = []*ast.Node{opener, inner, closer}

	m := newMatcher()
	m.TryMatch(container, 2)

	require.Len(t, container.Children, 3)
	openerAfter, ok := ast.Cast[emphasis.Marker](container.Children[0])
	require.True(t, ok)
	assert.Equal(t, 0, openerAfter.Remaining)

	wrapped := container.Children[1]
	assert.True(t, ast.Is[emValue](wrapped))
	require.Len(t, wrapped.Children, 1)
	txt, ok := ast.Cast[ast.Text](wrapped.Children[0])
	require.True(t, ok)
	assert.Equal(t, "hi", txt.Content)
}

func TestTryMatchPrefersStrongOverNestedEmphasis(t *testing.T) {
	container := ast.New(ast.Root{})
	opener := markerNode('*', 2, true, false)
	inner := textNode("hi")
	closer := markerNode('*', 2, false, true)
	container.Children = []*ast.Node{opener, inner, closer}

	m := newMatcher()
	m.TryMatch(container, 2)

	require.Len(t, container.Children, 3)
	wrapped := container.Children[1]
	assert.True(t, ast.Is[strongValue](wrapped))
	require.Len(t, wrapped.Children, 1)
}

func TestTryMatchNoOpenerRecordsBottom(t *testing.T) {
	container := ast.New(ast.Root{})
	closer := markerNode('*', 1, false, true)
	container.Children = []*ast.Node{closer}

	m := newMatcher()
	assert.NotPanics(t, func() { m.TryMatch(container, 0) })
	require.Len(t, container.Children, 1)
	after, ok := ast.Cast[emphasis.Marker](container.Children[0])
	require.True(t, ok)
	assert.Equal(t, 1, after.Remaining)
}

func TestTryMatchSkipsUnflankedRuleOfThree(t *testing.T) {
	// opener and closer both open-and-close capable, lengths summing to a
	// multiple of 3 where neither length is itself a multiple of 3: must
	// not pair (CommonMark's "rule of 3").
	container := ast.New(ast.Root{})
	opener := markerNode('*', 1, true, true)
	inner := textNode("x")
	closer := markerNode('*', 2, true, true)
	container.Children = []*ast.Node{opener, inner, closer}

	m := newMatcher()
	m.TryMatch(container, 2)

	// no pairing happened: all three original children remain untouched.
	require.Len(t, container.Children, 3)
	_, isMarkerStillOpener := ast.Cast[emphasis.Marker](container.Children[0])
	assert.True(t, isMarkerStillOpener)
	_, isMarkerStillCloser := ast.Cast[emphasis.Marker](container.Children[2])
	assert.True(t, isMarkerStillCloser)
}

func TestTryMatchPairsNearestOpener(t *testing.T) {
	// "*a*b*" style chain: with two single-length openers and a
	// single-length closer, the closer pairs with the nearest opener only;
	// its remaining count is then spent, so TryMatch does not reach o1.
	container := ast.New(ast.Root{})
	o1 := markerNode('*', 1, true, false)
	t1 := textNode("a")
	o2 := markerNode('*', 1, true, false)
	t2 := textNode("b")
	closer := markerNode('*', 1, false, true)
	container.Children = []*ast.Node{o1, t1, o2, t2, closer}

	m := newMatcher()
	m.TryMatch(container, 4)

	// nearest opener (o2) pairs first, wrapping just t2. Both spent marker
	// nodes survive in place around the new wrapper (cleanup of
	// zero-remaining markers is the fragments-join post-pass's job).
	require.Len(t, container.Children, 5)
	_, o2StillMarker := ast.Cast[emphasis.Marker](container.Children[2])
	assert.True(t, o2StillMarker)
	wrapped := container.Children[3]
	assert.True(t, ast.Is[emValue](wrapped))
	_, closerStillMarker := ast.Cast[emphasis.Marker](container.Children[4])
	assert.True(t, closerStillMarker)
	require.Len(t, wrapped.Children, 1)
	txt, ok := ast.Cast[ast.Text](wrapped.Children[0])
	require.True(t, ok)
	assert.Equal(t, "b", txt.Content)
}
