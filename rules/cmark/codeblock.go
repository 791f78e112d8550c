package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
)

// IndentedCodeRule recognizes a line indented at least 4 columns past
// BlkIndent, accumulating consecutive such lines (blank lines in the
// middle are allowed and kept, but trailing blank lines are trimmed back
// to the last non-blank line).
type IndentedCodeRule struct{}

func (r IndentedCodeRule) Check(s *block.State) bool { return block.DefaultCheck(r, s) }

func (r IndentedCodeRule) Run(s *block.State) (*ast.Node, int, bool) {
	if s.Indent(s.Line) < 4 {
		return nil, 0, false
	}
	var buf strings.Builder
	line := s.Line
	trailingBlanks := 0
	for line < s.LineMax {
		if s.IsBlank(line) {
			buf.WriteByte('\n')
			line++
			trailingBlanks++
			continue
		}
		if s.Indent(line) < 4 {
			break
		}
		buf.WriteString(indentedContent(s, line))
		buf.WriteByte('\n')
		line++
		trailingBlanks = 0
	}
	line -= trailingBlanks // trailing blank lines are not part of the block
	content := buf.String()
	for i := 0; i < trailingBlanks; i++ {
		content = strings.TrimSuffix(content, "\n")
	}
	return ast.New(CodeBlock{Content: content}), line - s.Line, true
}

// indentedContent returns line i's content with exactly 4 columns of
// indentation (past BlkIndent) stripped, tab-aware.
func indentedContent(s *block.State, i int) string {
	li := s.Lines[i]
	full := s.Src[li.LineStart:li.LineEnd]
	target := s.BlkIndent + 4
	col := 0
	pos := 0
	for pos < len(full) && col < target {
		switch full[pos] {
		case ' ':
			col++
			pos++
		case '\t':
			col += 4 - col%4
			pos++
		default:
			return full[pos:]
		}
	}
	if col > target {
		// a tab overshot the target column: re-expand with the remainder
		// as literal spaces for the overshoot.
		return strings.Repeat(" ", col-target) + full[pos:]
	}
	return full[pos:]
}

// FencedCodeRule recognizes a fenced code block opened by a run of three
// or more backticks or tildes; the closing fence must use the same
// marker and be at least as long as the opener.
type FencedCodeRule struct{}

func (r FencedCodeRule) Check(s *block.State) bool { return block.DefaultCheck(r, s) }

func (r FencedCodeRule) Run(s *block.State) (*ast.Node, int, bool) {
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > 3 {
		return nil, 0, false
	}
	tail := s.LineTail(s.Line)
	marker, length, tailStart := block.Fence(tail, 3, '`', '~')
	if marker == 0 {
		return nil, 0, false
	}
	info := strings.TrimSpace(tail[tailStart:])
	if marker == '`' && strings.ContainsRune(info, '`') {
		return nil, 0, false
	}

	var buf strings.Builder
	line := s.Line + 1
	closed := false
	for line < s.LineMax {
		if s.Indent(line) >= 0 && s.Indent(line) <= 3 {
			closeMarker, closeLen, closeTail := block.Fence(s.LineTail(line), length, marker)
			if closeMarker == marker && closeLen >= length && strings.TrimSpace(s.LineTail(line)[closeTail:]) == "" {
				closed = true
				line++
				break
			}
		}
		buf.WriteString(indentedFenceContent(s, line))
		buf.WriteByte('\n')
		line++
	}
	_ = closed // an unclosed fence simply runs to end-of-input, per CommonMark

	node := ast.New(CodeBlock{
		Content:   buf.String(),
		Info:      info,
		Fenced:    true,
		Marker:    marker,
		MarkerLen: length,
	})
	return node, line - s.Line, true
}

// indentedFenceContent strips up to BlkIndent columns (the fence's own
// indentation) from line i's content, tab-aware, per CommonMark's fenced
// code content-indent rule.
func indentedFenceContent(s *block.State, i int) string {
	li := s.Lines[i]
	full := s.Src[li.LineStart:li.LineEnd]
	target := s.BlkIndent
	col := 0
	pos := 0
	for pos < len(full) && col < target {
		switch full[pos] {
		case ' ':
			col++
			pos++
		case '\t':
			col += 4 - col%4
			pos++
		default:
			return full[pos:]
		}
	}
	return full[pos:]
}
