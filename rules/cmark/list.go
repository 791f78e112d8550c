package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
)

// ListRule recognizes a run of bullet (`-`,`+`,`*`) or ordered
// (`digits.`/`digits)`) list items, tokenizing each item's content
// recursively with an adjusted BlkIndent.
type ListRule struct{}

func (r ListRule) Check(s *block.State) bool {
	return listMarkerAt(s, s.Line) != nil
}

type listMarker struct {
	ordered    bool
	bulletChar byte
	terminator byte
	start      int
	rawWidth   int // marker bytes only, not counting the separator
}

func listMarkerAt(s *block.State, line int) *listMarker {
	if s.Indent(line) < 0 || s.Indent(line) > 3 {
		return nil
	}
	tail := s.LineTail(line)
	if d, _, tailStart := block.Delimiter(tail, 1, '-', '+', '*'); d != 0 {
		return &listMarker{bulletChar: d, rawWidth: tailStart}
	}
	if d, v, _, tailStart := block.Ordinal(tail); d != 0 {
		return &listMarker{ordered: true, terminator: d, start: v, rawWidth: tailStart}
	}
	return nil
}

func (r ListRule) Run(s *block.State) (*ast.Node, int, bool) {
	first := listMarkerAt(s, s.Line)
	if first == nil {
		return nil, 0, false
	}

	list := ast.New(List{
		Ordered:    first.ordered,
		Start:      first.start,
		BulletChar: first.bulletChar,
		Terminator: first.terminator,
	})

	startLine := s.Line
	line := s.Line
	tight := true

	for line < s.LineMax {
		m := listMarkerAt(s, line)
		if m == nil {
			break
		}
		if m.ordered != first.ordered || (first.ordered && m.terminator != first.terminator) || (!first.ordered && m.bulletChar != first.bulletChar) {
			break
		}

		contentIndent, itemFirstBlank := itemContentIndent(s, line, m)
		// markerCol is this item marker's own relative indent (0-3), so a
		// continuation line must reach at least markerCol+rawWidth+
		// contentIndent columns past the outer BlkIndent to belong here.
		markerCol := s.Indent(line)
		itemTotalIndent := markerCol + m.rawWidth + contentIndent
		itemStart := line
		restore := s.PushLines()

		fns, indent := rescanIndent(s, line, s.Lines[line].FirstNonspace+m.rawWidth, s.BlkIndent+markerCol+m.rawWidth)
		s.Lines[line].FirstNonspace = fns
		s.Lines[line].IndentNonspace = indent
		itemLine := line + 1
		for itemLine < s.LineMax {
			if s.IsBlank(itemLine) {
				itemLine++
				continue
			}
			if s.Indent(itemLine) >= itemTotalIndent {
				itemLine++
				continue
			}
			break
		}
		itemEnd := itemLine
		// trim trailing blank lines off this item's own range; they
		// instead act as the separator before the next item (or the
		// list's end).
		blanksBefore := 0
		for itemEnd > itemStart+1 && s.IsBlank(itemEnd-1) {
			itemEnd--
			blanksBefore++
		}

		item := ast.New(ListItem{})
		savedNode, savedLine, savedLineMax, savedBlkIndent, savedLevel := s.Node, s.Line, s.LineMax, s.BlkIndent, s.Level
		s.Node = item
		s.Line = itemStart
		s.LineMax = itemEnd
		s.BlkIndent = savedBlkIndent + itemTotalIndent
		s.Level++
		if itemFirstBlank && itemEnd == itemStart+1 {
			// a list item whose only line is the marker itself (empty
			// item): nothing to tokenize.
		} else {
			s.Tok.Tokenize(s)
		}
		s.Node, s.Line, s.LineMax, s.BlkIndent, s.Level = savedNode, savedLine, savedLineMax, savedBlkIndent, savedLevel

		restore()
		list.Append(item)

		if blanksBefore > 0 && itemEnd < s.LineMax {
			tight = false
		}
		if itemHasLooseParagraph(s, item) {
			tight = false
		}

		line = itemEnd + blanksBefore
		if blanksBefore >= 2 {
			break
		}
	}

	listVal := list.Value.(List)
	listVal.Tight = tight
	list.Replace(listVal)

	return list, line - startLine, true
}

// itemContentIndent computes how many columns past the marker's own
// first-nonspace a list item's content begins, and whether the item's
// first line has no content after the marker (the "empty first line
// fixes content indent to 1" rule).
func itemContentIndent(s *block.State, line int, m *listMarker) (indent int, firstBlank bool) {
	tail := s.LineTail(line)
	rest := tail[m.rawWidth:]
	spaces := 0
	for spaces < len(rest) && spaces < 4 && (rest[spaces] == ' ' || rest[spaces] == '\t') {
		spaces++
	}
	if spaces == len(rest) {
		return 1, true
	}
	if spaces == 0 {
		return 1, false
	}
	return spaces, false
}

// itemHasLooseParagraph reports whether item directly contains two or
// more top-level blocks with a blank source line between them, the
// "directly contains two block-level elements with a blank line between
// them" loose-list clause. The inter-item blank-line gap is handled
// separately by the caller.
func itemHasLooseParagraph(s *block.State, item *ast.Node) bool {
	for i := 1; i < len(item.Children); i++ {
		prev, cur := item.Children[i-1], item.Children[i]
		if !prev.HasPos || !cur.HasPos {
			continue
		}
		if prev.Pos.End >= cur.Pos.Start {
			continue
		}
		if strings.Count(s.Src[prev.Pos.End:cur.Pos.Start], "\n") > 1 {
			return true
		}
	}
	return false
}
