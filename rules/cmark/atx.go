package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
	"github.com/jcorbin/mdit/sourcepos"
)

// ATXHeadingRule recognizes `# heading` through `###### heading`, with an
// optional trailing run of `#` stripped.
type ATXHeadingRule struct{ MaxIndent int }

func (r ATXHeadingRule) Check(s *block.State) bool { return block.DefaultCheck(r, s) }

func (r ATXHeadingRule) Run(s *block.State) (*ast.Node, int, bool) {
	maxIndent := r.MaxIndent
	if maxIndent == 0 {
		maxIndent = 3
	}
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > maxIndent {
		return nil, 0, false
	}
	line := s.LineTail(s.Line)
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level < 1 || level > 6 {
		return nil, 0, false
	}
	rest := line[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, 0, false
	}
	leadingWS := len(rest) - len(strings.TrimLeft(rest, " \t"))
	trimmedLeft := strings.TrimLeft(rest, " \t")
	content := stripATXClosing(strings.TrimRight(trimmedLeft, " \t"))

	n := ast.New(Heading{Level: level})
	li := s.Lines[s.Line]
	contentStart := li.FirstNonspace + level + leadingWS
	contentEnd := contentStart + len(content)
	ir := ast.New(ast.InlineRoot{
		Content:   content,
		SourceMap: []ast.OffsetPair{{BufferOffset: 0, SourceOffset: contentStart}},
	})
	ir.SetPos(sourcepos.Pos{Start: contentStart, End: contentEnd})
	n.Append(ir)
	return n, 1, true
}

// stripATXClosing removes a trailing run of `#` (optionally preceded by
// spaces, and itself followed only by spaces before end-of-line), per the
// ATX heading closing-sequence rule.
func stripATXClosing(content string) string {
	trimmed := strings.TrimRight(content, " \t")
	i := len(trimmed)
	for i > 0 && trimmed[i-1] == '#' {
		i--
	}
	if i == len(trimmed) {
		return content // no trailing # run
	}
	if i == 0 || trimmed[i-1] == ' ' || trimmed[i-1] == '\t' {
		return strings.TrimRight(trimmed[:i], " \t")
	}
	return content
}
