package refmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit/refmap"
)

func TestDefineFirstWins(t *testing.T) {
	var m refmap.Map
	assert.True(t, m.Define("Foo", refmap.Def{Destination: "/a"}))
	assert.False(t, m.Define("foo", refmap.Def{Destination: "/b"}))

	d, ok := m.Lookup("  FOO  ")
	assert.True(t, ok)
	assert.Equal(t, "/a", d.Destination)
}

func TestNormalizeIdempotent(t *testing.T) {
	s := "  The   Title  \t Of\nThings "
	n1 := refmap.Normalize(s)
	n2 := refmap.Normalize(n1)
	assert.Equal(t, n1, n2)
	assert.Equal(t, "THE TITLE OF THINGS", n1)
}

func TestEmptyLabelRejected(t *testing.T) {
	var m refmap.Map
	assert.False(t, m.Define("   ", refmap.Def{Destination: "/x"}))
	assert.Equal(t, 0, m.Len())
}
