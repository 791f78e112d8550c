// Package refmap implements the document-scoped reference-label table:
// label -> (destination, optional title). It lives in the root node's
// extension set, is populated by the reference-definition block rule
// during block phase, and is consulted by the link inline rule during
// inline phase.
package refmap

import (
	"strings"
	"unicode"
)

// Def is one reference definition's payload.
type Def struct {
	Destination string
	Title       string
	HasTitle    bool
}

// Map holds normalized-label -> Def entries. First definition of a label
// wins; later ones are ignored. The zero value is ready to use.
type Map struct {
	defs map[string]Def
}

// Define inserts label -> def if label is not already defined. Returns
// true if the definition was stored (i.e. this was the first definition
// of that label). label is normalized before lookup/storage.
func (m *Map) Define(label string, def Def) bool {
	norm := Normalize(label)
	if norm == "" {
		return false
	}
	if m.defs == nil {
		m.defs = make(map[string]Def)
	}
	if _, exists := m.defs[norm]; exists {
		return false
	}
	m.defs[norm] = def
	return true
}

// Lookup returns the definition for label (normalized the same way as
// Define), and whether it was found.
func (m *Map) Lookup(label string) (Def, bool) {
	if m.defs == nil {
		return Def{}, false
	}
	d, ok := m.defs[Normalize(label)]
	return d, ok
}

// Len returns how many distinct labels are defined.
func (m *Map) Len() int { return len(m.defs) }

// Normalize implements the label normalization used by both Define and
// Lookup: trim outer whitespace, collapse internal whitespace runs to a
// single space, then Unicode case-fold via lower-then-upper.
//
// Normalizing a label twice is idempotent: Normalize(Normalize(s)) ==
// Normalize(s), since the output already has single-space-collapsed,
// upper-cased runs with no leading/trailing space.
func Normalize(label string) string {
	fields := strings.Fields(label)
	for i, f := range fields {
		fields[i] = strings.ToUpper(strings.ToLower(f))
	}
	return foldASCIISpace(strings.Join(fields, " "))
}

// foldASCIISpace is a defensive no-op pass reserved for future Unicode
// whitespace classes beyond strings.Fields' ASCII+Unicode space handling;
// kept separate so Normalize's contract (single space, case-folded) is
// easy to unit test independent of any future tightening here.
func foldASCIISpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
