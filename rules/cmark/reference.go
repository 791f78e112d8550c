package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/block"
	"github.com/jcorbin/mdit/extset"
	"github.com/jcorbin/mdit/refmap"
)

// ReferenceRule recognizes `[label]: destination "optional title"`,
// across as many lines as a multi-line title needs, rolling back to a
// shorter match if trailing garbage follows the title on its last line.
// It emits no node: definitions are stored directly into the root
// reference map and the rule just advances past the lines it consumed.
type ReferenceRule struct{}

func (r ReferenceRule) Check(s *block.State) bool { return block.DefaultCheck(r, s) }

func (r ReferenceRule) Run(s *block.State) (*ast.Node, int, bool) {
	if s.Indent(s.Line) < 0 || s.Indent(s.Line) > 3 {
		return nil, 0, false
	}

	var buf strings.Builder
	line := s.Line
	for line < s.LineMax && !s.IsBlank(line) {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(s.LineTail(line))
		line++
		if canParseReference(buf.String()) {
			break
		}
	}

	for attempt := line; attempt >= s.Line+1; attempt-- {
		text := joinLines(s, s.Line, attempt)
		label, dest, title, hasTitle, ok := parseReference(text)
		if !ok {
			continue
		}
		if label == "" {
			return nil, 0, false
		}
		refs := extset.GetOrInsert(s.RootExt, &refmap.Map{})
		refs.Define(label, refmap.Def{Destination: dest, Title: title, HasTitle: hasTitle})
		return nil, attempt - s.Line, true
	}
	return nil, 0, false
}

func joinLines(s *block.State, from, toExclusive int) string {
	var b strings.Builder
	for i := from; i < toExclusive; i++ {
		if i > from {
			b.WriteByte('\n')
		}
		b.WriteString(s.LineTail(i))
	}
	return b.String()
}

// canParseReference is a cheap early-exit used only to bound the initial
// greedy accumulation; the real rollback-capable parse is parseReference,
// tried from the longest to shortest candidate.
func canParseReference(text string) bool {
	_, _, _, _, ok := parseReference(text)
	return ok
}

// parseReference parses "[label]: dest title?" possibly spanning
// multiple already-joined lines. It requires the destination and (if
// present) the title to be fully consumed with only trailing whitespace
// left over.
func parseReference(text string) (label, dest, title string, hasTitle bool, ok bool) {
	if len(text) == 0 || text[0] != '[' {
		return
	}
	i := 1
	start := i
	depth := 0
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
			continue
		case '[':
			depth++
		case ']':
			if depth == 0 {
				goto foundLabelEnd
			}
			depth--
		}
		i++
	}
	return
foundLabelEnd:
	label = text[start:i]
	i++ // skip ']'
	if i >= len(text) || text[i] != ':' {
		return
	}
	i++
	i = skipSpace(text, i)
	if i >= len(text) {
		return
	}

	destEnd, destination, ok2 := parseDestination(text, i)
	if !ok2 {
		return
	}
	dest = destination
	i = destEnd

	afterDestEnd := i
	i = skipSpace(text, i)
	if i < len(text) {
		titleEnd, t, ok3 := parseTitle(text, i)
		if ok3 {
			rest := strings.TrimRight(text[titleEnd:], " \t\n")
			if rest == "" {
				title, hasTitle = t, true
				ok = true
				return
			}
		}
	}
	// no usable title: destination alone must be the full remainder.
	rest := strings.TrimRight(text[afterDestEnd:], " \t\n")
	if rest != "" {
		return "", "", "", false, false
	}
	ok = true
	return
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

func parseDestination(text string, i int) (end int, dest string, ok bool) {
	if i >= len(text) {
		return i, "", false
	}
	if text[i] == '<' {
		j := i + 1
		for j < len(text) && text[j] != '>' && text[j] != '\n' {
			if text[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(text) || text[j] != '>' {
			return i, "", false
		}
		return j + 1, text[i+1 : j], true
	}
	j := i
	depth := 0
	for j < len(text) {
		c := text[j]
		if c == '\\' {
			j += 2
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' {
			break
		}
		if c == '(' {
			depth++
		}
		if c == ')' {
			if depth == 0 {
				break
			}
			depth--
		}
		j++
	}
	if j == i || depth != 0 {
		return i, "", false
	}
	return j, text[i:j], true
}

func parseTitle(text string, i int) (end int, title string, ok bool) {
	if i >= len(text) {
		return i, "", false
	}
	open := text[i]
	var closeCh byte
	switch open {
	case '"':
		closeCh = '"'
	case '\'':
		closeCh = '\''
	case '(':
		closeCh = ')'
	default:
		return i, "", false
	}
	j := i + 1
	for j < len(text) {
		if text[j] == '\\' {
			j += 2
			continue
		}
		if text[j] == closeCh {
			return j + 1, text[i+1 : j], true
		}
		j++
	}
	return i, "", false
}
