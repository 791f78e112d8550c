// Package sourcepos converts byte offsets in a source string into
// (line, column) pairs, via a line-start index built once per source.
package sourcepos

import "sort"

// Pos is an immutable byte offset span within the original source. End is
// exclusive: one past the last byte of the span.
type Pos struct {
	Start, End int
}

// Len returns End - Start.
func (p Pos) Len() int { return p.End - p.Start }

// Empty reports whether the span covers zero bytes.
func (p Pos) Empty() bool { return p.Start >= p.End }

// LineCol is a 1-indexed (line, column) pair, counting Unicode code points
// per column.
type LineCol struct {
	Line, Col int
}

const checkpointStride = 16

type marker struct {
	offset int // byte offset of this marker
	line   int // 1-indexed line number at this marker
	col    int // 1-indexed column at this marker
}

// Map is a precomputed line-start index over one source string, built
// once by Build and then used read-only for the lifetime of a parse.
type Map struct {
	src      string
	markers  []marker // one per line start, plus checkpoints every 16 columns
	lineEnds []int    // byte offset of line_end (before terminator) for each line, 0-indexed by line-1
}

// Build scans src once, recording a marker at the start of every line and
// an additional checkpoint every 16 columns within a line, so that Lookup
// never needs to scan more than 16 runes from the nearest marker.
//
// \r, \n, and \r\n each count as exactly one line break.
func Build(src string) *Map {
	m := &Map{src: src}
	m.markers = append(m.markers, marker{offset: 0, line: 1, col: 1})

	line, col := 1, 1
	i := 0
	sinceCheckpoint := 0
	for i < len(src) {
		c := src[i]
		switch c {
		case '\r':
			adv := 1
			if i+1 < len(src) && src[i+1] == '\n' {
				adv = 2
			}
			m.lineEnds = append(m.lineEnds, i)
			i += adv
			line++
			col = 1
			sinceCheckpoint = 0
			m.markers = append(m.markers, marker{offset: i, line: line, col: col})
			continue
		case '\n':
			m.lineEnds = append(m.lineEnds, i)
			i++
			line++
			col = 1
			sinceCheckpoint = 0
			m.markers = append(m.markers, marker{offset: i, line: line, col: col})
			continue
		}
		// advance one code point
		n := utf8RuneLen(src[i:])
		i += n
		col++
		sinceCheckpoint++
		if sinceCheckpoint >= checkpointStride {
			m.markers = append(m.markers, marker{offset: i, line: line, col: col})
			sinceCheckpoint = 0
		}
	}
	m.lineEnds = append(m.lineEnds, len(src))
	return m
}

func utf8RuneLen(s string) int {
	b := s[0]
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

// Lookup converts a byte offset into a (line, column) pair by binary
// searching the nearest preceding marker, then advancing rune by rune to
// the target. offset must be within [0, len(src)] and on a UTF-8 boundary.
func (m *Map) Lookup(offset int) LineCol {
	i := sort.Search(len(m.markers), func(i int) bool {
		return m.markers[i].offset > offset
	}) - 1
	if i < 0 {
		i = 0
	}
	mk := m.markers[i]
	line, col := mk.line, mk.col
	pos := mk.offset
	for pos < offset {
		n := utf8RuneLen(m.src[pos:])
		pos += n
		col++
	}
	return LineCol{Line: line, Col: col}
}

// LineCount returns the number of physical lines in the source.
func (m *Map) LineCount() int { return len(m.lineEnds) }

// LineEnd returns the byte offset of the terminator (or end of source) of
// the given 1-indexed line.
func (m *Map) LineEnd(line int) int {
	if line < 1 || line > len(m.lineEnds) {
		return len(m.src)
	}
	return m.lineEnds[line-1]
}
