package cmark

import (
	"strings"

	"github.com/jcorbin/mdit/ast"
	"github.com/jcorbin/mdit/inline"
	"github.com/jcorbin/mdit/urlutil"
)

// AutolinkRule recognizes `<scheme:rest>` and `<user@host>` forms: a
// bare URI or email address enclosed in angle brackets with no
// whitespace inside.
type AutolinkRule struct {
	Formatter urlutil.LinkFormatter
}

func (AutolinkRule) Marker() byte { return '<' }

func (r AutolinkRule) Check(s *inline.State) (int, bool) {
	_, _, n, ok := r.parse(s)
	return n, ok
}

func (r AutolinkRule) Run(s *inline.State) (int, bool) {
	dest, isEmail, n, ok := r.parse(s)
	if !ok {
		return 0, false
	}
	formatter := r.Formatter
	if formatter == nil {
		formatter = urlutil.DefaultFormatter{}
	}
	full := dest
	if isEmail {
		full = "mailto:" + dest
	}
	if !formatter.Validate(full) {
		return 0, false
	}
	s.FlushTrailingText()
	link := newPositioned(s, Autolink{URL: formatter.Normalize(full), Email: isEmail}, s.Pos, s.Pos+n)
	link.Append(newPositioned(s, ast.Text{Content: formatter.NormalizeText(dest)}, s.Pos+1, s.Pos+n-1))
	s.Node.Append(link)
	return n, true
}

// parse returns the inner destination (without angle brackets), whether
// it looks like an email address rather than a scheme URI, the total
// byte length consumed (including both angle brackets), and whether an
// autolink was found at all.
func (r AutolinkRule) parse(s *inline.State) (dest string, isEmail bool, n int, ok bool) {
	src := s.Src[s.Pos:s.PosMax]
	if len(src) < 3 || src[0] != '<' {
		return "", false, 0, false
	}
	end := strings.IndexByte(src, '>')
	if end < 0 {
		return "", false, 0, false
	}
	inner := src[1:end]
	if strings.ContainsAny(inner, " \t\n<") {
		return "", false, 0, false
	}
	if isValidURIAutolink(inner) {
		return inner, false, end + 1, true
	}
	if isValidEmailAutolink(inner) {
		return inner, true, end + 1, true
	}
	return "", false, 0, false
}

func isValidURIAutolink(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon < 2 {
		return false
	}
	scheme := s[:colon]
	if !isASCIIAlpha(scheme[0]) {
		return false
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		if !isASCIIAlpha(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isValidEmailAutolink(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at >= len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	for i := 0; i < len(local); i++ {
		c := local[i]
		if isASCIIAlpha(c) || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '.', '!', '#', '$', '%', '&', '\'', '*', '+', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~', '-':
			continue
		}
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 1 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !isASCIIAlpha(c) && !(c >= '0' && c <= '9') && c != '-' {
				return false
			}
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
	}
	return true
}
