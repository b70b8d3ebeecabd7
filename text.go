package ustar

import "fmt"

// TextCodec converts between the raw bytes stored in header string fields
// and Go strings. Implementations must be deterministic and must round-trip
// ASCII-range text.
//
// The codec is supplied at Reader/Writer construction rather than through
// package-level state, so two archives in one process can use different
// conventions.
type TextCodec interface {
	// String decodes a raw field value (already stripped of its NUL
	// terminator) into a string.
	String(b []byte) (string, error)

	// Bytes encodes a string into the raw bytes to store in a field,
	// without terminator or padding.
	Bytes(s string) ([]byte, error)
}

// latin1Codec maps every byte to the identically-numbered code point, which
// round-trips arbitrary field bytes and is the identity on ASCII.
type latin1Codec struct{}

// Interface compliance.
var _ TextCodec = latin1Codec{}

func (latin1Codec) String(b []byte) (string, error) {
	s := make([]rune, len(b))
	for i, c := range b {
		s[i] = rune(c)
	}
	return string(s), nil
}

func (latin1Codec) Bytes(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, fmt.Errorf("cannot encode %q in a header field", r)
		}
		b = append(b, byte(r))
	}
	return b, nil
}
