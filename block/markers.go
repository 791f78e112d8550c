package block

// Low-level line-marker recognizers: same byte-scanning shape as a
// bufio.SplitFunc block matcher (delimiter/ordinal/fence/ruler), but
// generalized to return enough detail for a node-tree block rule to
// build a child node and compute content offsets, rather than just
// advancing a scan cursor.

// Delimiter scans a run of the same marker byte (one of marks) at the
// start of line, up to maxWidth, requiring the run be followed by a
// space, a tab, or end of line. Returns the matched byte, the run
// width, and the byte offset in line right after the run (and any
// following single separator byte is NOT consumed).
func Delimiter(line string, maxWidth int, marks ...byte) (delim byte, width int, tailStart int) {
	if len(line) == 0 || !isByte(line[0], marks...) {
		return 0, 0, 0
	}
	delim = line[0]
	width = 1
	i := 1
	for i < len(line) && line[i] == delim {
		width++
		if width > maxWidth {
			return 0, 0, 0
		}
		i++
	}
	if i < len(line) {
		switch line[i] {
		case ' ', '\t':
		default:
			return 0, 0, 0
		}
	}
	return delim, width, i
}

// Ordinal scans a decimal ordinal-list marker (1-9 digits followed by
// '.' or ')') at the start of line. Returns the terminator byte, the
// numeric value, the marker's byte width (digits + terminator), and the
// offset right after the terminator.
func Ordinal(line string) (delim byte, value int, width int, tailStart int) {
	i := 0
	for i < len(line) {
		c := line[i]
		if c < '0' || c > '9' {
			break
		}
		i++
	}
	digits := i
	if digits < 1 || digits > 9 || i >= len(line) {
		return 0, 0, 0, 0
	}
	switch line[i] {
	case '.', ')':
		delim = line[i]
	default:
		return 0, 0, 0, 0
	}
	value = 0
	for _, c := range line[:digits] {
		value = value*10 + int(c-'0')
	}
	return delim, value, digits + 1, digits + 1
}

// Fence scans an opening code-fence marker: a run of at least min of the
// same byte (one of marks), with no minimum-width upper bound. Returns
// the marker byte, its run length, and the byte offset right after the
// run (the remainder of the line is the info string).
func Fence(line string, min int, marks ...byte) (marker byte, length int, tailStart int) {
	if len(line) == 0 || !isByte(line[0], marks...) {
		return 0, 0, 0
	}
	marker = line[0]
	i := 1
	for i < len(line) && line[i] == marker {
		i++
	}
	if i < min {
		return 0, 0, 0
	}
	return marker, i, i
}

// ThematicRuler scans a thematic-break line: 3 or more of the same byte
// (one of marks), optionally interspersed with spaces/tabs and nothing
// else. Returns the marker byte and how many marker bytes were counted.
func ThematicRuler(line string, marks ...byte) (marker byte, count int, ok bool) {
	if len(line) == 0 || !isByte(line[0], marks...) {
		return 0, 0, false
	}
	marker = line[0]
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case marker:
			count++
		case ' ', '\t':
		default:
			return 0, 0, false
		}
	}
	if count < 3 {
		return 0, 0, false
	}
	return marker, count, true
}

// BlockquoteMarker recognizes a '>' marker optionally followed by one
// space (or tab, tab-aware up to one virtual space). Returns the total
// marker width (the '>' plus any consumed single separator) and whether
// it matched.
func BlockquoteMarker(line string) (width int, ok bool) {
	if len(line) == 0 || line[0] != '>' {
		return 0, false
	}
	if len(line) > 1 && (line[1] == ' ' || line[1] == '\t') {
		return 2, true
	}
	return 1, true
}

// ListBulletMarker recognizes an unordered list marker byte ('-', '+',
// or '*') at the start of line, requiring a following space/tab/EOL.
// Returns the marker byte and its total consumed width (marker + one
// separator, if present).
func ListBulletMarker(line string) (delim byte, width int, ok bool) {
	d, w, tail := Delimiter(line, 1, '-', '+', '*')
	if d == 0 {
		return 0, 0, false
	}
	if tail < len(line) && (line[tail] == ' ' || line[tail] == '\t') {
		return d, w + 1, true
	}
	return d, w, true
}

// ListOrdinalMarker recognizes an ordered list marker (digits + '.' or
// ')') requiring a following space/tab/EOL. Returns the terminator byte,
// the start value, and the total consumed width.
func ListOrdinalMarker(line string) (delim byte, start, width int, ok bool) {
	d, v, w, tail := Ordinal(line)
	if d == 0 {
		return 0, 0, 0, false
	}
	if tail < len(line) {
		switch line[tail] {
		case ' ', '\t':
			return d, v, w + 1, true
		default:
			return 0, 0, 0, false
		}
	}
	return d, v, w, true
}

func isByte(b byte, any ...byte) bool {
	for _, a := range any {
		if b == a {
			return true
		}
	}
	return false
}

// ExpandIndent strips up to limit columns of leading space/tab
// indentation from line (tab-aware, expanding to the next multiple of
// 4), returning how many columns were actually stripped and the byte
// offset of the remaining tail.
func ExpandIndent(line string, limit int) (stripped int, tailStart int) {
	col := 0
	i := 0
	for i < len(line) && col < limit {
		switch line[i] {
		case ' ':
			col++
			i++
		case '\t':
			next := col + 4 - col%4
			if next > limit {
				return col, i // caller decides how to handle a split tab
			}
			col = next
			i++
		default:
			return col, i
		}
	}
	return col, i
}
