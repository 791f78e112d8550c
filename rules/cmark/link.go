package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/extset"
	"github.com/jcorbin/mdit/inline"
	"github.com/jcorbin/mdit/refmap"
	"github.com/jcorbin/mdit/sourcepos"
	"github.com/jcorbin/mdit/urlutil"
)

// linkMarker is the placeholder leaf LinkOpenRule emits for an
// unresolved '[' or '!['. LinkCloseRule rewrites it in place: to a
// Link/Image wrapper's inner-content splice point on success, or to a
// literal Text bracket on failure (at which point it is permanently
// spent, per CommonMark's delimiter-stack "remove on failure" rule).
type linkMarker struct {
	Image  bool
	Active bool
	// ContentStart is the buffer offset (in inline.State.Src, not a
	// translated source offset) right after the opening bracket(s), i.e.
	// where the label text begins.
	ContentStart int
}

func (linkMarker) ASTValue() {}

// LinkOpenRule recognizes '[' (a potential link) or '![' (a potential
// image), pushing an unresolved linkMarker placeholder.
type LinkOpenRule struct{ Image bool }

func (r LinkOpenRule) Marker() byte {
	if r.Image {
		return '!'
	}
	return '['
}

func (r LinkOpenRule) Check(s *inline.State) (int, bool) {
	if r.Image {
		if s.Pos+1 < s.PosMax && s.Src[s.Pos] == '!' && s.Src[s.Pos+1] == '[' {
			return 2, true
		}
		return 0, false
	}
	if s.Pos < s.PosMax && s.Src[s.Pos] == '[' {
		return 1, true
	}
	return 0, false
}

func (r LinkOpenRule) Run(s *inline.State) (int, bool) {
	n, ok := r.Check(s)
	if !ok {
		return 0, false
	}
	s.FlushTrailingText()
	s.Node.Append(newPositioned(s, linkMarker{Image: r.Image, Active: true, ContentStart: s.Pos + n}, s.Pos, s.Pos+n))
	return n, true
}

// LinkCloseRule recognizes ']', attempting to pair it with the nearest
// active linkMarker among the current container's already-tokenized
// children, per the inline form `(dest "title")`, the reference forms
// `[ref]`/`[]`, or the shortcut form (the label text itself as the
// reference).
type LinkCloseRule struct {
	Formatter urlutil.LinkFormatter
}

func (LinkCloseRule) Marker() byte { return ']' }

func (r LinkCloseRule) Check(s *inline.State) (int, bool) {
	return r.tryClose(s)
}

func (r LinkCloseRule) Run(s *inline.State) (int, bool) {
	n, ok := r.tryClose(s)
	if !ok {
		return 0, false
	}
	s.FlushTrailingText()
	return n, true
}

// tryClose implements the shared Check/Run logic: finding the opener,
// resolving the destination, and (if successful) splicing the built
// Link/Image wrapper into s.Node.Children, returning the total consumed
// length starting at the ']'. It mutates s.Node.Children in place
// (splicing the resolved wrapper, or converting a failed opener to
// literal text) as a side effect even when called from Check --
// consistent with this codebase's established DefaultCheck dry-run
// convention elsewhere.
func (r LinkCloseRule) tryClose(s *inline.State) (int, bool) {
	if s.Pos >= s.PosMax || s.Src[s.Pos] != ']' {
		return 0, false
	}
	openerIdx := -1
	for i := len(s.Node.Children) - 1; i >= 0; i-- {
		m, ok := ast.Cast[linkMarker](s.Node.Children[i])
		if !ok || !m.Active {
			continue
		}
		openerIdx = i
		break
	}
	if openerIdx < 0 {
		return 0, false
	}
	opener := s.Node.Children[openerIdx]
	openerVal, _ := ast.Cast[linkMarker](opener)

	if !openerVal.Image && s.LinkLevel > 0 {
		// inside a raw <a>...</a> HTML span (tracked via LinkLevel by the
		// inline-HTML rule): a markdown link can't open here without
		// producing overlapping anchors, so treat this as if no opener
		// were found.
		return 0, false
	}

	rest := s.Src[s.Pos+1 : s.PosMax]
	var (
		dest, title      string
		hasTitle         bool
		tailConsumed     int
		resolved         bool
		formatter        = r.Formatter
	)
	if formatter == nil {
		formatter = urlutil.DefaultFormatter{}
	}

	switch {
	case strings.HasPrefix(rest, "("):
		d, t, ht, consumed, ok := parseInlineLinkTail(rest)
		if ok && formatter.Validate(d) {
			dest, title, hasTitle, tailConsumed, resolved = d, t, ht, consumed, true
		}
	case strings.HasPrefix(rest, "["):
		end := strings.IndexByte(rest, ']')
		if end >= 1 {
			label := rest[1:end]
			rawLabel := s.Src[openerVal.ContentStart:s.Pos]
			key := label
			if key == "" {
				key = rawLabel
			}
			if def, ok := lookupRef(s, key); ok {
				dest, title, hasTitle, resolved = def.Destination, def.Title, def.HasTitle, true
			}
			tailConsumed = end + 1
		}
	default:
		rawLabel := s.Src[openerVal.ContentStart:s.Pos]
		if def, ok := lookupRef(s, rawLabel); ok {
			dest, title, hasTitle, resolved = def.Destination, def.Title, def.HasTitle, true
		}
	}

	if !resolved {
		opener.Replace(ast.Text{Content: openerText(openerVal)})
		return 0, false
	}

	inner := append([]*ast.Node(nil), s.Node.Children[openerIdx+1:]...)
	var wrapped *ast.Node
	if openerVal.Image {
		wrapped = ast.New(Image{Destination: formatter.Normalize(dest), Title: title, HasTitle: hasTitle})
	} else {
		wrapped = ast.New(Link{Destination: formatter.Normalize(dest), Title: title, HasTitle: hasTitle})
		for i := 0; i < openerIdx; i++ {
			if m, ok := ast.Cast[linkMarker](s.Node.Children[i]); ok && !m.Image && m.Active {
				s.Node.Children[i].Replace(linkMarker{Image: m.Image, Active: false, ContentStart: m.ContentStart})
			}
		}
	}
	if opener.HasPos {
		wrapped.SetPos(sourcepos.Pos{Start: opener.Pos.Start, End: s.SourceOffset(s.Pos + 1 + tailConsumed)})
	}
	wrapped.Children = inner

	newChildren := append([]*ast.Node(nil), s.Node.Children[:openerIdx]...)
	newChildren = append(newChildren, wrapped)
	s.Node.Children = newChildren

	return 1 + tailConsumed, true
}

func openerText(m linkMarker) string {
	if m.Image {
		return "!["
	}
	return "["
}

func lookupRef(s *inline.State, label string) (refmap.Def, bool) {
	refs, ok := extset.Get[*refmap.Map](s.RootExt)
	if !ok {
		return refmap.Def{}, false
	}
	return refs.Lookup(label)
}

// parseInlineLinkTail parses "(dest title?)" starting at text[0]=='('
// (the opening bracket is included in text but not in dest/title),
// returning the destination, optional title, and the byte length
// consumed including both parens.
func parseInlineLinkTail(text string) (dest, title string, hasTitle bool, consumed int, ok bool) {
	if len(text) == 0 || text[0] != '(' {
		return "", "", false, 0, false
	}
	i := skipSpace(text, 1)
	if i < len(text) && text[i] == ')' {
		return "", "", false, i + 1, true
	}
	destEnd, d, destOK := parseDestination(text, i)
	if !destOK {
		return "", "", false, 0, false
	}
	i = skipSpace(text, destEnd)
	if i < len(text) && text[i] != ')' {
		titleEnd, t, titleOK := parseTitle(text, i)
		if titleOK {
			title, hasTitle = t, true
			i = skipSpace(text, titleEnd)
		}
	}
	if i >= len(text) || text[i] != ')' {
		return "", "", false, 0, false
	}
	return d, title, hasTitle, i + 1, true
}
