package keystore

import "golang.org/x/text/unicode/norm"

// sanitizePassword applies the ERC-2335-mandated NFKD normalization and
// strips the C0 controls, DEL, and C1 controls before the password is
// fed to the KDF. Skipping this step is a compatibility break: a keystore
// written by a compliant encoder will never decrypt against the raw,
// un-sanitized password.
func sanitizePassword(password string) []byte {
	normalized := norm.NFKD.String(password)
	out := make([]rune, 0, len(normalized))
	for _, r := range normalized {
		if isStrippedControl(r) {
			continue
		}
		out = append(out, r)
	}
	return []byte(string(out))
}

func isStrippedControl(r rune) bool {
	switch {
	case r >= 0x00 && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	default:
		return false
	}
}
