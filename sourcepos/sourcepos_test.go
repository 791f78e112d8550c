package sourcepos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit/sourcepos"
)

func TestLookupBasic(t *testing.T) {
	src := "foo\nbar\r\nbaz"
	m := sourcepos.Build(src)

	assert.Equal(t, sourcepos.LineCol{Line: 1, Col: 1}, m.Lookup(0))
	assert.Equal(t, sourcepos.LineCol{Line: 1, Col: 4}, m.Lookup(3))
	assert.Equal(t, sourcepos.LineCol{Line: 2, Col: 1}, m.Lookup(4))
	assert.Equal(t, sourcepos.LineCol{Line: 3, Col: 1}, m.Lookup(9))
	assert.Equal(t, 3, m.LineCount())
}

func TestLookupAcrossCheckpoint(t *testing.T) {
	src := "0123456789012345678901234567890123456789"
	m := sourcepos.Build(src)
	got := m.Lookup(30)
	assert.Equal(t, sourcepos.LineCol{Line: 1, Col: 31}, got)
}

func TestLookupMultibyte(t *testing.T) {
	src := "aéb" // a, e-acute (2 bytes), b
	m := sourcepos.Build(src)
	assert.Equal(t, sourcepos.LineCol{Line: 1, Col: 1}, m.Lookup(0))
	assert.Equal(t, sourcepos.LineCol{Line: 1, Col: 2}, m.Lookup(1))
	assert.Equal(t, sourcepos.LineCol{Line: 1, Col: 3}, m.Lookup(3))
}

func TestPosHelpers(t *testing.T) {
	p := sourcepos.Pos{Start: 2, End: 5}
	assert.Equal(t, 3, p.Len())
	assert.False(t, p.Empty())
	assert.True(t, sourcepos.Pos{Start: 2, End: 2}.Empty())
}
