package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit/block"
)

func TestBuildLineIndexBasic(t *testing.T) {
	lines := block.BuildLineIndex("foo\n\n  bar\r\nbaz")
	if assert.Len(t, lines, 4) {
		assert.Equal(t, 0, lines[0].FirstNonspace)
		assert.Equal(t, 4, lines[1].LineStart)
		assert.True(t, lines[1].FirstNonspace >= lines[1].LineEnd)
		assert.Equal(t, 2, lines[2].IndentNonspace)
	}
}

func TestBuildLineIndexEmptySource(t *testing.T) {
	lines := block.BuildLineIndex("")
	if assert.Len(t, lines, 1) {
		assert.Equal(t, 0, lines[0].LineStart)
		assert.Equal(t, 0, lines[0].LineEnd)
	}
}

func TestBuildLineIndexTabExpansion(t *testing.T) {
	lines := block.BuildLineIndex("\tfoo")
	if assert.Len(t, lines, 1) {
		assert.Equal(t, 4, lines[0].IndentNonspace)
		assert.Equal(t, 1, lines[0].FirstNonspace)
	}
}

func TestMarkers(t *testing.T) {
	if d, w, tail := block.Delimiter("### heading", 6, '#'); assert.Equal(t, byte('#'), d) {
		assert.Equal(t, 3, w)
		assert.Equal(t, " heading", "### heading"[tail:])
	}

	if m, n, ok := block.ThematicRuler("- - -", '-', '_', '*'); assert.True(t, ok) {
		assert.Equal(t, byte('-'), m)
		assert.Equal(t, 3, n)
	}

	if d, v, w, ok := block.ListOrdinalMarker("12. item"); assert.True(t, ok) {
		assert.Equal(t, byte('.'), d)
		assert.Equal(t, 12, v)
		assert.Equal(t, "item", "12. item"[w:])
	}

	if w, ok := block.BlockquoteMarker("> quoted"); assert.True(t, ok) {
		assert.Equal(t, 2, w)
	}
}
