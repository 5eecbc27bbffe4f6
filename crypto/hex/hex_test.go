package hex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	b, err := Decode("0x0102")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, b)

	b, err = Decode("0102")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, b)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode("not-hex")
	require.ErrorIs(t, err, ErrMalformedHex)

	_, err = Decode("abc")
	require.ErrorIs(t, err, ErrMalformedHex)
}

func TestDecodeFixed(t *testing.T) {
	salt := make([]byte, 32)
	for i := range salt {
		salt[i] = byte(i)
	}
	got, err := DecodeFixed("salt", Encode(salt), 32)
	require.NoError(t, err)
	require.Equal(t, salt, got)
}

func TestDecodeFixed_WrongSize(t *testing.T) {
	_, err := DecodeFixed("iv", Encode(make([]byte, 4)), 16)
	var sizeErr *FieldSizeError
	require.ErrorAs(t, err, &sizeErr)
	require.Equal(t, "iv", sizeErr.Field)
	require.Equal(t, 16, sizeErr.Expected)
	require.Equal(t, 4, sizeErr.Got)
}
