package block

// LineInfo describes one physical source line as needed by the block
// tokenizer: where it starts and ends, where its first non-whitespace
// byte is, and that byte's tab-expanded visual column.
//
// Container rules (blockquote, list) rewrite the FirstNonspace and
// IndentNonspace fields of the lines they own, in place, then restore
// the saved values when they return. A negative IndentNonspace is a
// sentinel meaning "paragraph continuation only" (blockquote lazy
// continuation).
type LineInfo struct {
	LineStart      int
	LineEnd        int
	FirstNonspace  int
	IndentNonspace int
}

// BuildLineIndex scans src once, splitting it into physical lines on \r,
// \n, and \r\n (each counts as one line break), and computing
// FirstNonspace/IndentNonspace for each. The terminator bytes themselves
// are excluded from LineEnd.
func BuildLineIndex(src string) []LineInfo {
	var lines []LineInfo
	i := 0
	for {
		start := i
		for i < len(src) && src[i] != '\n' && src[i] != '\r' {
			i++
		}
		end := i
		fns, indent := scanIndent(src, start, end)
		lines = append(lines, LineInfo{
			LineStart:      start,
			LineEnd:        end,
			FirstNonspace:  fns,
			IndentNonspace: indent,
		})
		if i >= len(src) {
			break
		}
		if src[i] == '\r' {
			i++
			if i < len(src) && src[i] == '\n' {
				i++
			}
		} else {
			i++
		}
		if i >= len(src) {
			break
		}
	}
	return lines
}

// scanIndent returns the byte offset of the first non-space/tab byte in
// src[start:end], and its tab-expanded visual column (0-indexed).
func scanIndent(src string, start, end int) (firstNonspace, indentNonspace int) {
	col := 0
	i := start
	for i < end {
		switch src[i] {
		case ' ':
			col++
			i++
			continue
		case '\t':
			col += 4 - col%4
			i++
			continue
		}
		break
	}
	return i, col
}
