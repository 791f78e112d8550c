// Package urlutil provides the pluggable link-formatter contract used by
// the autolink and link/image inline rules: validate a destination before
// emitting it, normalize it for the href/src attribute, and normalize
// reference/autolink text for display.
package urlutil

import (
	"strings"

	"gitlab.com/golang-commonmark/mdurl"
	"gitlab.com/golang-commonmark/puny"
)

// LinkFormatter is the three-operation contract a Parser's LinkFormatter
// field satisfies. The zero value of DefaultFormatter is a ready-to-use
// implementation of it.
type LinkFormatter interface {
	// Validate reports whether dest is acceptable as a link destination at
	// all (e.g. rejecting a javascript: scheme). Rules that fail this
	// check treat the whole construct as not matching.
	Validate(dest string) bool
	// Normalize rewrites dest for emission as an href/src attribute value.
	Normalize(dest string) string
	// NormalizeText rewrites dest for use as the visible text of a bare
	// autolink (e.g. <https://example.com>).
	NormalizeText(dest string) string
}

// blockedSchemes are rejected outright by DefaultFormatter.Validate,
// regardless of case.
var blockedSchemes = []string{"javascript:", "vbscript:", "file:"}

// allowedDataImagePrefixes are the only data: URLs Validate accepts.
var allowedDataImagePrefixes = []string{
	"data:image/gif;",
	"data:image/png;",
	"data:image/jpeg;",
	"data:image/webp;",
}

// DefaultFormatter is the built-in LinkFormatter: percent-encoding via
// gitlab.com/golang-commonmark/mdurl, IDN hostnames via
// gitlab.com/golang-commonmark/puny, and the scheme blocklist from the
// external-interface contract.
type DefaultFormatter struct{}

// Validate rejects javascript:, vbscript:, file:, and data: URLs other
// than data:image/{gif,png,jpeg,webp};..., matching the default URL
// validation contract. It also punycode-validates the host of any
// scheme-qualified destination, when one is present.
func (DefaultFormatter) Validate(dest string) bool {
	lower := strings.ToLower(strings.TrimSpace(dest))
	for _, s := range blockedSchemes {
		if strings.HasPrefix(lower, s) {
			return false
		}
	}
	if strings.HasPrefix(lower, "data:") {
		ok := false
		for _, p := range allowedDataImagePrefixes {
			if strings.HasPrefix(lower, p) {
				ok = true
				break
			}
		}
		return ok
	}
	if host, ok := extractHost(dest); ok && host != "" {
		if _, err := puny.ToASCII(host); err != nil {
			return false
		}
	}
	return true
}

// Normalize percent-encodes dest outside of the safe character set,
// leaving already-valid %XX escapes untouched.
func (DefaultFormatter) Normalize(dest string) string {
	return mdurl.Encode(dest)
}

// NormalizeText decodes percent-escapes back to literal characters for
// display, the inverse direction from Normalize.
func (DefaultFormatter) NormalizeText(dest string) string {
	return mdurl.Decode(dest)
}

// extractHost pulls the authority component out of a scheme://host...
// URL well enough to punycode-validate it; it does not need to be a full
// RFC 3986 parse since it only feeds Validate's best-effort check.
func extractHost(dest string) (string, bool) {
	i := strings.Index(dest, "://")
	if i < 0 {
		return "", false
	}
	rest := dest[i+3:]
	end := strings.IndexAny(rest, "/?#")
	if end >= 0 {
		rest = rest[:end]
	}
	if at := strings.LastIndexByte(rest, '@'); at >= 0 {
		rest = rest[at+1:]
	}
	if colon := strings.LastIndexByte(rest, ':'); colon >= 0 {
		rest = rest[:colon]
	}
	return rest, true
}

var _ LinkFormatter = DefaultFormatter{}
