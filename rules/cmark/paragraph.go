package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
	"github.com/jcorbin/mdit/sourcepos"
)

// ParagraphRule is the lowest-priority block rule: it accumulates lines
// until a blank line, the end of input, or a line where some other
// registered rule's Check succeeds (a "rule-terminator").
type ParagraphRule struct {
	// Terminators are the other block rules consulted to detect a
	// rule-terminator line. Populated by Install; deliberately excludes
	// the indented-code-block rule, which CommonMark says cannot
	// interrupt a paragraph.
	Terminators []block.Rule
}

func (r ParagraphRule) Check(s *block.State) bool { return block.DefaultCheck(r, s) }

func (r ParagraphRule) Run(s *block.State) (*ast.Node, int, bool) {
	if s.IsBlank(s.Line) {
		return nil, 0, false
	}
	endExclusive := scanParagraphLines(s, r.Terminators, s.Line)
	if endExclusive <= s.Line {
		return nil, 0, false
	}
	return buildParagraph(s, s.Line, endExclusive, false), endExclusive - s.Line, true
}

// scanParagraphLines returns the exclusive end line of the paragraph-text
// run starting at startLine: lines accumulate until EOF, a blank line, or
// a line where one of terminators.Check succeeds.
func scanParagraphLines(s *block.State, terminators []block.Rule, startLine int) int {
	line := startLine
	for line < s.LineMax {
		if s.IsBlank(line) {
			break
		}
		if line > startLine && terminatorMatches(s, terminators, line) {
			break
		}
		line++
	}
	return line
}

func terminatorMatches(s *block.State, terminators []block.Rule, line int) bool {
	clone := *s
	clone.Line = line
	for _, t := range terminators {
		if t.Check(&clone) {
			return true
		}
	}
	return false
}

// buildParagraph assembles a Paragraph node whose single InlineRoot child
// carries the concatenated, tab-expanded content of lines
// [startLine,endExclusive) and a per-line buffer->source offset map.
func buildParagraph(s *block.State, startLine, endExclusive int, hidden bool) *ast.Node {
	var buf strings.Builder
	var sm []ast.OffsetPair
	for i := startLine; i < endExclusive; i++ {
		li := s.Lines[i]
		sm = append(sm, ast.OffsetPair{BufferOffset: buf.Len(), SourceOffset: li.FirstNonspace})
		buf.WriteString(s.LineTail(i))
		if i < endExclusive-1 {
			buf.WriteByte('\n')
		}
	}
	content := buf.String()
	ir := ast.New(ast.InlineRoot{Content: content, SourceMap: sm})
	ir.SetPos(sourcepos.Pos{
		Start: s.Lines[startLine].FirstNonspace,
		End:   s.Lines[endExclusive-1].LineEnd,
	})
	n := ast.New(Paragraph{Hidden: hidden})
	n.Append(ir)
	return n
}
