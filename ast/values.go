package ast

import (
	"reflect"

	"github.com/jcorbin/mdit/extset"
)

func goTypeName(v Value) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// OffsetPair maps one inline-content buffer offset back to the byte
// offset it came from in the original source. A Root's InlineRoot
// children each carry a strictly-increasing sequence of these, one per
// source line folded into the inline buffer.
type OffsetPair struct {
	BufferOffset int
	SourceOffset int
}

// Root is the single top-level node's Value. It owns the original source
// string and a root-scoped extension set (home to the reference map, the
// opener-bottom cache, and any plugin configuration that must outlive a
// single container).
type Root struct {
	Content string
	Ext     extset.Set
}

func (Root) ASTValue() {}

// InlineRoot is a placeholder child inserted by block rules that parse
// containers holding inline content (paragraphs, headings, ...). It owns
// the sliced inline content, the mapping from offsets in that content
// back to the original source, and an inline-scoped extension set. The
// core inline-parser rule expands every InlineRoot into real inline
// children; none should survive the top-level driver's pipeline.
type InlineRoot struct {
	Content   string
	SourceMap []OffsetPair
	Ext       extset.Set
}

func (InlineRoot) ASTValue() {}

// Text is the basic inline leaf: a run of literal text. Adjacent Text
// siblings may be merged by a fragments-join post-pass.
type Text struct {
	Content string
}

func (Text) ASTValue() {}

// TextValue implements TextValuer.
func (t Text) TextValue() string { return t.Content }

// TextSpecial is a leaf like Text, but produced by a rule that wants to
// mark the span as "already resolved" (e.g. a backslash-escaped
// punctuation character, or a decoded entity) so later passes don't
// reinterpret its content as markup.
type TextSpecial struct {
	Content string
	// Markup records the original source markup (e.g. "&amp;" or "\\*"),
	// useful for renderers or tools that want to round-trip.
	Markup string
}

func (TextSpecial) ASTValue() {}

// TextValue implements TextValuer.
func (t TextSpecial) TextValue() string { return t.Content }

// SourceOffset converts a buffer offset to a source byte offset using the
// strictly-increasing (buffer_offset, source_offset) line markers,
// translating via binary search per line, then adding the in-line
// remainder directly (byte-for-byte within the remapped line, since
// InlineRoot content preserves byte layout within each folded line).
func (ir InlineRoot) SourceOffset(bufOffset int) int {
	return TranslateOffset(ir.SourceMap, bufOffset)
}

// TranslateOffset is the shared buffer->source offset translation used
// by InlineRoot and by the inline tokenizer's own state (which carries
// the same kind of map without owning a full InlineRoot).
func TranslateOffset(sm []OffsetPair, bufOffset int) int {
	if len(sm) == 0 {
		return bufOffset
	}
	lo, hi := 0, len(sm)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if sm[mid].BufferOffset <= bufOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return sm[lo].SourceOffset + (bufOffset - sm[lo].BufferOffset)
}
