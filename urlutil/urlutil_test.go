package urlutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit/urlutil"
)

func TestDefaultFormatterValidateBlocksDangerousSchemes(t *testing.T) {
	f := urlutil.DefaultFormatter{}
	assert.False(t, f.Validate("javascript:alert(1)"))
	assert.False(t, f.Validate("JavaScript:alert(1)"))
	assert.False(t, f.Validate("vbscript:msgbox(1)"))
	assert.False(t, f.Validate("file:///etc/passwd"))
	assert.True(t, f.Validate("https://example.com"))
}

func TestDefaultFormatterValidateAllowsSafeDataImages(t *testing.T) {
	f := urlutil.DefaultFormatter{}
	assert.True(t, f.Validate("data:image/png;base64,aaaa"))
	assert.True(t, f.Validate("data:image/gif;base64,aaaa"))
	assert.False(t, f.Validate("data:text/html;base64,aaaa"))
	assert.False(t, f.Validate("data:image/svg+xml;base64,aaaa"))
}

func TestDefaultFormatterNormalizeIdempotent(t *testing.T) {
	f := urlutil.DefaultFormatter{}
	once := f.Normalize("https://example.com/a b")
	twice := f.Normalize(once)
	assert.Equal(t, once, twice)
}
