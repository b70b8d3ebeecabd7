// Package field implements the fixed-width field encoding used by ustar
// header blocks: octal ASCII numerics (with the GNU binary extension) and
// NUL-terminated byte strings at fixed offsets.
package field

import (
	"bytes"
	"errors"
	"strconv"
)

// ErrInvalidNumeric is returned when a numeric field contains a byte that is
// neither an octal digit, a terminator, nor the GNU binary marker.
var ErrInvalidNumeric = errors.New("invalid numeric field")

// binaryMarker in the first byte of a numeric field selects the GNU binary
// encoding: the remaining bytes are an unsigned big-endian integer. Used for
// values too large to express in octal ASCII.
const binaryMarker = 0x80

// Numeric decodes a fixed-width numeric field.
//
// The common encoding is octal ASCII digits terminated by a space or NUL
// byte; everything before the terminator is the value. If the first byte is
// the GNU binary marker, the remaining bytes are decoded as an unsigned
// big-endian integer instead. The binary check happens before octal parsing.
func Numeric(b []byte) (int64, error) {
	if len(b) > 0 && b[0] == binaryMarker {
		var v int64
		for _, c := range b[1:] {
			v = v<<8 | int64(c)
		}
		return v, nil
	}

	var v int64
	for _, c := range b {
		if c == ' ' || c == 0 {
			break
		}
		if c < '0' || c > '7' {
			return 0, ErrInvalidNumeric
		}
		v = v<<3 | int64(c-'0')
	}
	return v, nil
}

// PutNumeric encodes v as right-justified, zero-padded octal ASCII with a
// trailing NUL terminator. Values that do not fit the field are truncated to
// the low-order digits; callers validate ranges before encoding.
func PutNumeric(b []byte, v int64) {
	s := strconv.FormatInt(v, 8)
	if len(s) > len(b)-1 {
		s = s[len(s)-(len(b)-1):]
	}
	pad := len(b) - 1 - len(s)
	for i := 0; i < pad; i++ {
		b[i] = '0'
	}
	copy(b[pad:], s)
	b[len(b)-1] = 0
}

// Text decodes a fixed-width byte-string field, stopping at the first NUL
// byte or the end of the field. The returned slice aliases b.
func Text(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// PutText copies s into the field and zero-fills the remainder. Content
// longer than the field is truncated.
func PutText(b, s []byte) {
	n := copy(b, s)
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
}
