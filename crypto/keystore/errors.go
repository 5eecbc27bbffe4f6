package keystore

import "github.com/pkg/errors"

// Sentinel decode errors. Each maps directly to an ERC-2335 rejection
// reason from spec section 7; callers should use errors.Is against these
// rather than string-matching messages.
var (
	// ErrMalformedJSON means the keystore body did not parse as JSON.
	ErrMalformedJSON = errors.New("keystore: malformed json")
	// ErrUnsupportedVersion means the "version" field was not 4.
	ErrUnsupportedVersion = errors.New("keystore: unsupported version")
	// ErrUnsupportedPath means "path" was non-empty.
	ErrUnsupportedPath = errors.New("keystore: unsupported non-empty path")
	// ErrUnsupportedKDF means crypto.kdf.function was neither scrypt nor pbkdf2,
	// or a pbkdf2 prf was not hmac-sha256.
	ErrUnsupportedKDF = errors.New("keystore: unsupported kdf function")
	// ErrUnsupportedCipher means crypto.cipher.function was not aes-128-ctr.
	ErrUnsupportedCipher = errors.New("keystore: unsupported cipher function")
	// ErrUnsupportedChecksumFn means crypto.checksum.function was not sha256.
	ErrUnsupportedChecksumFn = errors.New("keystore: unsupported checksum function")
	// ErrBadPassword means the checksum verification failed.
	ErrBadPassword = errors.New("keystore: invalid password")
	// ErrKeyPairMismatch means the derived pubkey did not match the declared one.
	ErrKeyPairMismatch = errors.New("keystore: derived public key does not match keystore pubkey")
	// ErrInvalidScryptN means scrypt's "n" parameter was not a power of two.
	ErrInvalidScryptN = errors.New("keystore: scrypt n must be a power of two")
)
