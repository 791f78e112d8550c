package scanio

import (
	"bytes"
	"fmt"
	"io"
)

// FileArena is a ByteArena whose entire content is loaded once from a
// sized io.ReaderAt, so that any byte range within it can be referenced
// via Ref without further I/O against the backing reader.
type FileArena struct {
	ByteArena
}

// Reset discards any current content and loads size bytes from ra,
// starting at offset 0. A size of 0 asks ra for its own length first (via
// a Size() method, as implemented by strings.Reader and bytes.Reader),
// falling back to reading ra fully if it's also an io.Reader.
func (fa *FileArena) Reset(ra io.ReaderAt, size int64) error {
	fa.ByteArena.Reset()

	if size == 0 {
		if sizer, ok := ra.(interface{ Size() int64 }); ok {
			size = sizer.Size()
		} else if r, ok := ra.(io.Reader); ok {
			b, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			fa.buf = b
			fa.cur = len(b)
			return nil
		}
	}

	buf := make([]byte, size)
	if size > 0 {
		if _, err := ra.ReadAt(buf, 0); err != nil && err != io.EOF {
			return err
		}
	}
	fa.buf = buf
	fa.cur = len(buf)
	return nil
}

// ReadAt implements io.ReaderAt against the arena's loaded content, so a
// FileArena can itself serve as the backing store for a byte-range reader
// (e.g. io.NewSectionReader) without any further indirection.
func (fa *FileArena) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(fa.buf)) {
		return 0, io.EOF
	}
	n := copy(p, fa.buf[off:])
	var err error
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

// Ref returns a token referencing the [start,end) byte range of the
// arena's loaded content.
func (fa *FileArena) Ref(start, end int) ByteArenaToken {
	return ByteArenaToken{byteRange: byteRange{start, end}, arena: &fa.ByteArena}
}

// RefAll returns a token referencing the arena's entire loaded content.
func (fa *FileArena) RefAll() ByteArenaToken {
	return fa.Ref(0, len(fa.buf))
}

// Close discards the arena's loaded content.
func (fa *FileArena) Close() error {
	fa.ByteArena.Reset()
	return nil
}

// Open returns a reader over fa's currently loaded content.
func Open(fa FileArena) io.Reader {
	return bytes.NewReader(fa.buf)
}

// Area tracks a disjoint, ascending set of byte ranges within a single
// arena, used to find and subtract already-accounted-for spans of file
// content (e.g. a remnant body being picked apart into carried-forward and
// left-behind pieces).
type Area struct {
	arena  *ByteArena
	ranges []byteRange
}

// MakeArea starts an Area containing tok's range.
func MakeArea(tok ByteArenaToken) (a Area) {
	a.Add(tok)
	return a
}

// Add inserts tok's range into the receiver, merging it with any
// overlapping or touching existing range.
func (a *Area) Add(tok ByteArenaToken) {
	if tok.Empty() {
		return
	}
	a.arena = tok.arena
	r := tok.byteRange

	var out []byteRange
	inserted := false
	for _, cur := range a.ranges {
		switch {
		case cur.end < r.start:
			out = append(out, cur)
		case r.end < cur.start:
			if !inserted {
				out = append(out, r)
				inserted = true
			}
			out = append(out, cur)
		default:
			if cur.start < r.start {
				r.start = cur.start
			}
			if cur.end > r.end {
				r.end = cur.end
			}
		}
	}
	if !inserted {
		out = append(out, r)
	}
	a.ranges = out
}

// Sub removes any overlap with tok from the receiver's tracked ranges. A
// tok from a foreign arena is ignored.
func (a *Area) Sub(tok ByteArenaToken) {
	if tok.arena != a.arena || tok.Empty() {
		return
	}
	r := tok.byteRange

	var out []byteRange
	for _, cur := range a.ranges {
		if r.end <= cur.start || r.start >= cur.end {
			out = append(out, cur)
			continue
		}
		if cur.start < r.start {
			out = append(out, byteRange{cur.start, r.start})
		}
		if r.end < cur.end {
			out = append(out, byteRange{r.end, cur.end})
		}
	}
	a.ranges = out
}

// Find reports whether pos falls within any tracked range, and if so its
// offset from that range's start.
func (a Area) Find(pos int) (offset int, found bool) {
	for _, r := range a.ranges {
		if pos >= r.start && pos < r.end {
			return pos - r.start, true
		}
	}
	return 0, false
}

// Format renders the receiver's tracked byte ranges under the "+v" verb,
// or their concatenated content under plain "%v".
func (a Area) Format(f fmt.State, c rune) {
	if c != 'v' {
		fmt.Fprintf(f, "%%!%c(scanio.Area)", c)
		return
	}
	if f.Flag('+') {
		io.WriteString(f, "[")
		for i, r := range a.ranges {
			if i > 0 {
				io.WriteString(f, " ")
			}
			fmt.Fprintf(f, "@%v:%v", r.start, r.end)
		}
		io.WriteString(f, "]")
		return
	}
	if a.arena != nil {
		for _, r := range a.ranges {
			f.Write(a.arena.buf[r.start:r.end])
		}
	}
}
