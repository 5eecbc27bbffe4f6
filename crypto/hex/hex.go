// Package hex decodes the hex-encoded byte fields used throughout an
// ERC-2335 keystore JSON document, enforcing the fixed sizes the format
// requires for salts, initialization vectors, and checksums.
package hex

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedHex is returned when a string is not valid, even-length hex.
var ErrMalformedHex = errors.New("malformed hex string")

// FieldSizeError reports that a decoded field did not match its
// contractually required byte length.
type FieldSizeError struct {
	Field    string
	Expected int
	Got      int
}

func (e *FieldSizeError) Error() string {
	return errors.Errorf("field %s: expected %d bytes, got %d", e.Field, e.Expected, e.Got).Error()
}

// Decode parses a case-insensitive hex string, tolerating an optional
// leading "0x" prefix. It fails with ErrMalformedHex on non-hex input or an
// odd-length string.
func Decode(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedHex, err.Error())
	}
	return b, nil
}

// DecodeFixed decodes s and asserts the result is exactly want bytes long,
// returning a *FieldSizeError under the given field name otherwise.
func DecodeFixed(field, s string, want int) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != want {
		return nil, &FieldSizeError{Field: field, Expected: want, Got: len(b)}
	}
	return b, nil
}

// Encode returns the lowercase hex encoding of b, without a "0x" prefix.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}
