package scanio

import "bytes"

// Index returns the index of the first instance of sep within the token's
// bytes, or -1 if sep is not present.
func (token Token) Index(sep []byte) int {
	return bytes.Index(token.Bytes(), sep)
}

// IndexByte returns the index of the first instance of c within the
// token's bytes, or -1 if c is not present.
func (token Token) IndexByte(c byte) int {
	return bytes.IndexByte(token.Bytes(), c)
}
