package cmark

import (
	"strconv"
	"strings"
	"unicode/utf8"

	commonmarkhtml "gitlab.com/golang-commonmark/html"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/inline"
)

// EntityRule recognizes `&name;`, `&#digits;`, and `&#xhex;` character
// references, decoding them to their literal Unicode text via
// gitlab.com/golang-commonmark/html's named-entity table. An
// unrecognized or malformed reference is left for the trailing-text
// buffer to absorb as plain `&`.
type EntityRule struct{}

func (EntityRule) Marker() byte { return '&' }

func (r EntityRule) Check(s *inline.State) (int, bool) {
	_, n, ok := decodeEntity(s.Src[s.Pos:s.PosMax])
	return n, ok
}

func (r EntityRule) Run(s *inline.State) (int, bool) {
	decoded, n, ok := decodeEntity(s.Src[s.Pos:s.PosMax])
	if !ok {
		return 0, false
	}
	s.FlushTrailingText()
	s.Node.Append(newPositioned(s, ast.TextSpecial{Content: decoded, Markup: s.Src[s.Pos : s.Pos+n]}, s.Pos, s.Pos+n))
	return n, true
}

// decodeEntity decodes one character reference at the start of text,
// returning its decoded literal text, the byte length consumed
// (including the leading '&' and trailing ';'), and whether it matched.
func decodeEntity(text string) (decoded string, n int, ok bool) {
	if len(text) < 3 || text[0] != '&' {
		return "", 0, false
	}
	end := strings.IndexByte(text, ';')
	if end < 0 || end > 32 {
		return "", 0, false
	}
	body := text[1:end]

	if strings.HasPrefix(body, "#") {
		numPart := body[1:]
		var codepoint int64
		var err error
		if len(numPart) > 0 && (numPart[0] == 'x' || numPart[0] == 'X') {
			codepoint, err = strconv.ParseInt(numPart[1:], 16, 32)
		} else {
			codepoint, err = strconv.ParseInt(numPart, 10, 32)
		}
		if err != nil || codepoint <= 0 || codepoint > 0x10FFFF || !utf8.ValidRune(rune(codepoint)) {
			return "�", end + 1, true
		}
		return string(rune(codepoint)), end + 1, true
	}

	if repl, found := commonmarkhtml.Entities[body]; found {
		return repl, end + 1, true
	}
	return "", 0, false
}
