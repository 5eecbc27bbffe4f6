package keystore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizePassword_StripsControls(t *testing.T) {
	in := "pass\x00word\x7fwith\x1fcontrols"
	got := sanitizePassword(in)
	require.NotContains(t, string(got), "\x00")
	require.NotContains(t, string(got), "\x7f")
	require.NotContains(t, string(got), "\x1f")
}

func TestSanitizePassword_NFKDNormalizes(t *testing.T) {
	// U+212B (ANGSTROM SIGN) decomposes under NFKD to "A" + U+030A.
	a := sanitizePassword("Å")
	b := sanitizePassword("Å")
	require.Equal(t, a, b)
}

func TestSanitizePassword_PreservesOrdinaryText(t *testing.T) {
	got := sanitizePassword("correct horse battery staple")
	require.Equal(t, []byte("correct horse battery staple"), got)
}
