package cmark

import "github.com/jcorbin/mdit/block"

// rescanIndent recomputes a line's FirstNonspace/IndentNonspace after a
// container rule has advanced FirstNonspace past a stripped marker,
// accounting for any further space/tab run immediately following it (so
// e.g. "> code" with 4+ spaces after the `>` still yields an indented
// code block inside the blockquote). baseCol is the absolute visual
// column the new FirstNonspace starts scanning from.
func rescanIndent(s *block.State, line, newFirstNonspace, baseCol int) (firstNonspace, indentNonspace int) {
	li := s.Lines[line]
	stripped, tailStart := block.ExpandIndent(s.Src[newFirstNonspace:li.LineEnd], 1<<30)
	return newFirstNonspace + tailStart, baseCol + stripped
}
