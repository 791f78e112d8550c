package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jcorbin/mdit"
	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/internal/isotime"
	"github.com/jcorbin/mdit/rules/cmark"
)

// blockKind classifies the outline-relevant structural nodes a parsed
// stream tree can contain; everything else (code blocks, thematic breaks,
// blockquotes, ...) is outline-inert.
type blockKind int

const (
	blockHeading blockKind = iota
	blockList
	blockItem
)

func (k blockKind) String() string {
	switch k {
	case blockHeading:
		return "Heading"
	case blockList:
		return "List"
	case blockItem:
		return "Item"
	default:
		return "Block"
	}
}

// blockInfo classifies one outline-relevant node from a parsed ast.Node
// tree: Width carries a heading's level, 0 otherwise.
type blockInfo struct {
	Type  blockKind
	Width int
}

func (b blockInfo) Format(f fmt.State, _ rune) {
	if b.Type == blockHeading {
		fmt.Fprintf(f, "%v(%v)", b.Type, b.Width)
		return
	}
	io.WriteString(f, b.Type.String())
}

// outline represents document tree structure under a parsed stream, as
// defined by Headings, Lists, and Items; ignores any structure under
// Blockquote.
//
// Each outline item has a title populated from its first Paragraph (all
// text of a Heading, or of an Item's first Paragraph). Each item may
// contribute to an ever narrowing time stamp. Most commonly, this will
// simply be a Heading with the current day; some example content:
//
//	# 2020-08-11
//
//	- something
//	- this is the title
//
//	  additional non-title content
//
//	# 2020 a year section
//
//	## 07 a month section
//
//	### 04 a day section
//
//	- 12:00 list item titles can also contribute to the time
//
// Should result in the following leaf [time]s and "title"s:
//
//	[2020-08-11] "something"
//	[2020-08-11] "this is the title"
//	[2020] "a year section"
//	[2020-07] "a month section"
//	[2020-07-04] "a day section"
//	[2020-07-04T12:00] "list item titles can also contribute to the time"
//
// See outlineScanner for example code.
type outline struct {
	id    []int
	block []blockInfo
	time  []isotime.GrainedTime
	title []string
}

// lastTime returns the most fine-grained time parsed so far.
func (out outline) lastTime() (t isotime.GrainedTime) {
	if i := len(out.time) - 1; i >= 0 {
		t = out.time[i]
	}
	return t
}

// heading returns the n-th non-empty title token, and whether or not it's
// the current outline leaf.
//
// NOTE if a heading (or item) title contains only a date/time component, it
// does not count towards deepening the outline tree.
func (out outline) heading(n int) (_ string, isLast bool) {
	m := 0
	for i := 0; i < len(out.title); i++ {
		if title := out.title[i]; title != "" {
			if m++; m == n {
				return title, i+1 == len(out.title)
			}
		}
	}
	return "", false
}

func (out outline) toplevel() bool {
	_, is := out.heading(1)
	return is
}

func (out outline) firstTitle() string {
	for _, t := range out.title {
		if t != "" {
			return t
		}
	}
	return ""
}

// Format provides a textual representation of the current outline state.
// Any time is printed as a prefix in square brackets. Up to the first 50 characters of each
// title are then printed. When formatted with the "+" flag, also prints
// block and time data from each outline item.
func (out outline) Format(f fmt.State, _ rune) {
	first := true

	if !f.Flag('+') {
		if len(out.time) > 0 {
			if t := out.time[len(out.time)-1]; t.Grain() > 0 {
				fmt.Fprintf(f, "[%v]", t)
				first = false
			}
		}
	}

	for i := range out.id {
		t := out.title[i]
		if !f.Flag('+') && t == "" {
			continue
		}

		if first {
			first = false
		} else {
			io.WriteString(f, " ")
		}

		if f.Flag('+') {
			fmt.Fprintf(f, "%v#%v", out.block[i], out.id[i])
		}

		if t != "" {
			trunc, tb := "", t
			if len(tb) > 50 {
				// TODO should be rune aware
				j := 50
				for j > 0 && tb[j] != ' ' {
					j--
				}
				tb = tb[:j]
				trunc = "..."
			}
			if f.Flag('+') {
				fmt.Fprintf(f, "(%q%s)", tb, trunc)
			} else {
				io.WriteString(f, tb)
				io.WriteString(f, trunc)
			}
		} else if f.Flag('+') {
			if t := out.time[i]; t.Grain() > 0 && (i == 0 || !t.Equal(out.time[i-1])) {
				fmt.Fprintf(f, "[%v]", t)
			}
		}
	}
}

func (out *outline) push(id int, block blockInfo, t isotime.GrainedTime, title string) {
	out.id = append(out.id, id)
	out.block = append(out.block, block)
	out.time = append(out.time, t)
	out.title = append(out.title, title)
}

func (out *outline) truncate(i int) {
	out.id = out.id[:i]
	out.block = out.block[:i]
	out.time = out.time[:i]
	out.title = out.title[:i]
}

// section represents a range within a document outline, containing a
// header (which provides any outline time and title) and a, maybe empty,
// body of additional content.
type section struct {
	byteRange
	body byteRange
	id   int
}

func (sec section) add(offset int64) section {
	sec.byteRange = sec.byteRange.add(offset)
	sec.body = sec.body.add(offset)
	return sec
}

func (sec section) header() byteRange {
	sec.end = sec.body.start
	return sec.byteRange
}

// outlineStep is one precomputed entry in an outlineScanner's walk: a
// snapshot of the outline path after visiting one structural node (a
// Heading, a List, or a ListItem), along with that node's byte range used
// to resolve section boundaries directly (no incremental "still within"
// bookkeeping is needed once the whole document is already a tree).
type outlineStep struct {
	ids       []int
	blocks    []blockInfo
	times     []isotime.GrainedTime
	titles    []string
	titled    bool
	start     int64
	end       int64
	bodyStart int64
}

// outlineScanner orchestrates a full parse of a stream and a precomputed,
// depth-first walk of its outline structure (Headings, Lists, Items),
// exposing an incremental Scan()-based API backed by a single
// mdit.Parser.Parse pass over ast.Node rather than a streaming block
// scanner.
type outlineScanner struct {
	outline
	steps []outlineStep
	idx   int
	err   error
}

// Reset (re)initializes receiver state to scan a new outline from src.
func (sc *outlineScanner) Reset(src io.Reader) {
	sc.truncate(0)
	sc.idx = -1
	sc.err = nil
	sc.steps = nil

	b, err := io.ReadAll(src)
	if err != nil {
		sc.err = err
		return
	}
	root := mdit.NewParser().Parse(string(b))
	sc.steps = buildOutlineSteps(root)
}

// Scan advances to the next outline step, updating the embedded outline
// fields and titled flag to reflect it.
func (sc *outlineScanner) Scan() bool {
	sc.idx++
	if sc.idx >= len(sc.steps) {
		sc.truncate(0)
		sc.titled = false
		return false
	}
	st := sc.steps[sc.idx]
	sc.id = append(sc.id[:0], st.ids...)
	sc.block = append(sc.block[:0], st.blocks...)
	sc.time = append(sc.time[:0], st.times...)
	sc.title = append(sc.title[:0], st.titles...)
	sc.titled = st.titled
	return true
}

// Err returns any error encountered while reading the source stream.
func (sc *outlineScanner) Err() error { return sc.err }

// openSection returns a new section whose heading is the current node just
// scanned; its end is already fully resolved from that node's own byte
// range. Returns the zero section if sc.titled is false.
func (sc *outlineScanner) openSection() (sec section) {
	if !sc.titled || sc.idx < 0 || sc.idx >= len(sc.steps) {
		return section{}
	}
	st := sc.steps[sc.idx]
	sec.start = st.start
	sec.end = st.end
	sec.body.start = st.bodyStart
	sec.body.end = st.end
	if i := len(sc.outline.id) - 1; i >= 0 {
		sec.id = sc.outline.id[i]
	}
	return sec
}

// updateSection is a no-op under the tree-based scanner: openSection
// already resolved the section's full extent from the node's own byte
// range, so there is no incremental "still within" state left to update.
func (sc *outlineScanner) updateSection(sec section) section { return sec }

func mustCompileOutlineFilter(args ...interface{}) outlineFilter {
	f, err := compileOutlineFilter(args...)
	if err != nil {
		panic(err)
	}
	return f
}

func compileOutlineFilter(args ...interface{}) (outlineFilter, error) {
	var fs outlineFilterAnd
	for _, arg := range args {
		switch val := arg.(type) {
		case bool:
			if !val {
				return outlineFilterConst(val), nil
			}

		case func(out *outline) bool:
			fs = append(fs, outlineFilterFunc(val))

		case isotime.TimeGrain:
			fs = append(fs, outlineTimeGrainFilter(val))

		case int:
			fs = append(fs, outlineLevelFilter(val))

		case outlineFilterAnd:
			fs = append(fs, val...)

		case outlineFilter:
			fs = append(fs, val)

		default:
			return nil, fmt.Errorf("invalid outline filter arg type %T", arg)
		}
	}

	switch len(fs) {
	case 0:
		return nil, nil
	case 1:
		return fs[0], nil
	default:
		return fs, nil
	}
}

func outlineFilters(filters ...outlineFilter) outlineFilter {
	var fs outlineFilterAnd
	for _, f := range filters {
		switch fv := f.(type) {
		case nil:
		case outlineFilterConst:
			if !bool(fv) {
				return fv // const false annihilates
			}
			// elide const true
		case outlineFilterAnd:
			fs = append(fs, fv...)
		default:
			fs = append(fs, fv)
		}
	}
	switch len(fs) {
	case 0:
		return nil
	case 1:
		return fs[0]
	default:
		return fs
	}
}

type outlineFilter interface{ match(out *outline) bool }
type outlineFilterConst bool
type outlineFilterAnd []outlineFilter
type outlineFilterFunc func(out *outline) bool

func (c outlineFilterConst) match(out *outline) bool { return bool(c) }
func (f outlineFilterFunc) match(out *outline) bool  { return f(out) }
func (fs outlineFilterAnd) match(out *outline) bool {
	for _, f := range fs {
		if !f.match(out) {
			return false
		}
	}
	return true
}

type outlineTimeGrainFilter isotime.TimeGrain

func (tg outlineTimeGrainFilter) match(out *outline) bool {
	return out.lastTime().Grain() >= isotime.TimeGrain(tg)
}

type outlineLevelFilter int

func (l outlineLevelFilter) match(out *outline) bool {
	_, is := out.heading(int(l))
	return is
}

func printOutline(to io.Writer, from io.Reader, filters ...outlineFilter) error {
	var sc outlineScanner
	filter := outlineFilters(filters...)
	sc.Reset(from)

	var (
		id  []int
		n   []int
		w   []int
		t   []isotime.GrainedTime
		buf bytes.Buffer

		prior bool
	)
	buf.Grow(1024)
	for sc.Scan() {
		if !sc.titled {
			continue
		}
		if filter != nil && !filter.match(&sc.outline) {
			continue
		}

		// sync scanned ID state:
		// - id[i:] are the "exited" nodes, no longer on the scan stack
		// - sc.id[i:] are the "entered" nodes, new on the scan stack this round
		var i int
		id, i = updateIDs(id, sc.id)
		if i < len(n) {
			n = n[:i+1] // truncate exited levels, but carry level count
		} else {
			n = n[:i] // truncate exited levels
		}
		w = w[:i] // truncate exited widths
		t = t[:i] // truncate exited times

		// add entered nodes, printing lines
		for ; i < len(sc.id); i++ {
			if i < len(n) {
				n[i]++ // increment level carried from above truncation
			} else {
				n = append(n, 1) // start a new level count
			}
			w = append(w, 0) // width starts out 0, will be filled in if we format an ordinal

			level := 0
			nt := sc.time[i]
			t = append(t, nt)
			if nt.Grain() > 0 {
				if i == 0 {
					level++
				} else {
					for j := i - 1; j >= 0; j-- {
						ot := t[j]
						if ot.Equal(nt) {
							break
						}
						level++
						if ot.Grain() == 0 {
							break
						}
					}
				}
			}

			title := sc.title[i]
			buf.Grow(len(title) / 4 * 5) // ensure 25% over allocation

			in := 0
			if level > 0 {
				if prior {
					buf.WriteByte('\n') // hard paragraph break
				}
				// write a temporal header item
				for i := 0; i < level; i++ {
					buf.WriteByte('#')
				}
				buf.WriteByte(' ')
				fmt.Fprint(&buf, nt)
			} else if len(title) == 0 {
				continue
			} else {
				in = sumInts(w)
			}

			for i := 0; i < in; i++ {
				buf.WriteByte(' ')
			}
			var nw int
			if level == 0 {
				// write an ordinal bullet item
				nw, _ = fmt.Fprintf(&buf, "%v. ", n[i])
			}
			const lineWidth = 80
			tb := []byte(title)
			tb = breakLineInto(&buf, tb, lineWidth)
			in += nw
			w[i] = nw
			for len(tb) > 0 {
				for i := 0; i < in; i++ {
					buf.WriteByte(' ')
				}
				tb = breakLineInto(&buf, tb, lineWidth)
			}

			// flush formatted item buffer
			prior = true
			if _, err := buf.WriteTo(to); err != nil {
				return err
			}
		}
	}

	return sc.Err()
}

func breakLineInto(buf *bytes.Buffer, b []byte, width int) []byte {
	var line []byte
	if line = b; len(line) > width {
		i := width
		if i = bytes.LastIndexFunc(line[:i+1], isNonWord); i < 0 {
			i = bytes.IndexFunc(line, isNonWord)
		}
		if i > 0 {
			line = line[:i]
		}
	}
	buf.Write(line)
	buf.WriteByte('\n')
	return b[len(line):]
}

func isNonWord(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

func updateIDs(into, from []int) (_ []int, prefix int) {
	prefix = commonPrefix(into, from)
	if prefix < len(into) {
		into = into[:prefix]
	}
	into = append(into, from[prefix:]...)
	return into, prefix
}

func commonPrefix(a, b []int) (i int) {
	for i < len(a) && i < len(b) {
		if a[i] != b[i] {
			break
		}
		i++
	}
	return i
}

func sumInts(ns []int) (t int) {
	for _, n := range ns {
		t += n
	}
	return t
}

// buildOutlineSteps walks root's top-level structure (Headings, Lists,
// Items), producing one outlineStep per structural node entered, in
// document order.
func buildOutlineSteps(root *ast.Node) []outlineStep {
	w := &outlineWalker{nextID: 1}
	w.walkChildren(root, isotime.GrainedTime{})
	return w.steps
}

type outlineWalker struct {
	nextID int
	stack  outline
	steps  []outlineStep
}

func (w *outlineWalker) snapshotStep(titled bool, start, end, bodyStart int64) {
	w.steps = append(w.steps, outlineStep{
		ids:       append([]int(nil), w.stack.id...),
		blocks:    append([]blockInfo(nil), w.stack.block...),
		times:     append([]isotime.GrainedTime(nil), w.stack.time...),
		titles:    append([]string(nil), w.stack.title...),
		titled:    titled,
		start:     start,
		end:       end,
		bodyStart: bodyStart,
	})
}

// walkChildren visits n's direct children for outline-relevant structure;
// parentTime is the time context inherited from the nearest enclosing
// Heading or Item.
func (w *outlineWalker) walkChildren(n *ast.Node, parentTime isotime.GrainedTime) {
	for _, c := range n.Children {
		switch v := c.Value.(type) {
		case cmark.Heading:
			w.enterHeading(c, v, parentTime)
		case cmark.List:
			w.enterList(c, parentTime)
		case cmark.Blockquote:
			// outline structure under a blockquote is ignored.
		default:
			// outline-inert: paragraphs outside of a list item, code
			// blocks, thematic breaks, raw HTML, ...
		}
	}
}

func (w *outlineWalker) enterHeading(n *ast.Node, v cmark.Heading, parentTime isotime.GrainedTime) {
	level := v.Level
	i := 0
	for ; i < len(w.stack.block); i++ {
		if b := w.stack.block[i]; b.Type != blockHeading || b.Width >= level {
			break
		}
	}
	w.stack.truncate(i)

	t := parentTime
	if j := i - 1; j >= 0 {
		t = w.stack.time[j]
	}
	t, title := deriveTimeAndTitle(t, ast.CollectText(n))

	id := w.nextID
	w.nextID++
	w.stack.push(id, blockInfo{Type: blockHeading, Width: level}, t, title)

	start, end := int64(0), int64(0)
	if n.HasPos {
		start, end = int64(n.Pos.Start), int64(n.Pos.End)
	}
	w.snapshotStep(true, start, end, end)
}

func (w *outlineWalker) enterList(n *ast.Node, parentTime isotime.GrainedTime) {
	t := parentTime
	if j := len(w.stack.time) - 1; j >= 0 {
		t = w.stack.time[j]
	}
	id := w.nextID
	w.nextID++
	w.stack.push(id, blockInfo{Type: blockList}, t, "")

	start, end := int64(0), int64(0)
	if n.HasPos {
		start, end = int64(n.Pos.Start), int64(n.Pos.End)
	}
	w.snapshotStep(false, start, end, start)

	base := len(w.stack.id)
	for _, item := range n.Children {
		if _, ok := ast.Cast[cmark.ListItem](item); ok {
			w.enterItem(item, t)
		}
		w.stack.truncate(base)
	}

	w.stack.truncate(base - 1)
}

func (w *outlineWalker) enterItem(n *ast.Node, parentTime isotime.GrainedTime) {
	id := w.nextID
	w.nextID++
	w.stack.push(id, blockInfo{Type: blockItem}, parentTime, "")

	start, end := int64(0), int64(0)
	if n.HasPos {
		start, end = int64(n.Pos.Start), int64(n.Pos.End)
	}
	w.snapshotStep(false, start, end, start)

	rest := n.Children
	if len(rest) > 0 {
		if _, ok := ast.Cast[cmark.Paragraph](rest[0]); ok {
			t, title := deriveTimeAndTitle(parentTime, ast.CollectText(rest[0]))
			i := len(w.stack.time) - 1
			w.stack.time[i] = t
			w.stack.title[i] = title
			bodyStart := end
			if rest[0].HasPos {
				bodyStart = int64(rest[0].Pos.End)
			}
			w.snapshotStep(true, start, end, bodyStart)
			rest = rest[1:]
		}
	}

	for _, c := range rest {
		if _, ok := ast.Cast[cmark.List](c); ok {
			w.enterList(c, parentTime)
		}
	}
}

// deriveTimeAndTitle extracts any leading date/time prefix from raw
// (parsed against base as the time to refine) and truncates the remainder
// to its first sentence.
func deriveTimeAndTitle(base isotime.GrainedTime, raw string) (isotime.GrainedTime, string) {
	title := strings.Join(strings.Fields(raw), " ")
	t := base
	if st, rest, parsed := t.ParseString(title); parsed {
		t = st
		title = strings.TrimLeft(rest, " ")
	}
	title = truncateToFirstSentence(title)
	return t, title
}

func truncateToFirstSentence(s string) string {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '.':
			if j := i + 1; j < len(s) && s[j] != ' ' {
				continue
			}
			return s[:i]
		case ';':
			return s[:i]
		}
	}
	return s
}
