package keystore

import (
	"crypto/sha256"

	khex "github.com/mahmudsudo/lambda-ethereum-consensus/crypto/hex"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const (
	kdfDKLen = 32

	kdfScrypt = "scrypt"
	kdfPBKDF2 = "pbkdf2"

	prfHMACSHA256 = "hmac-sha256"
)

// kdfParams is the union of scrypt and pbkdf2 parameter fields as they
// appear under crypto.kdf.params in an ERC-2335 document. Only the fields
// relevant to the selected function are consulted.
type kdfParams struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`

	// scrypt
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`

	// pbkdf2
	C   int    `json:"c"`
	PRF string `json:"prf"`
}

// deriveKey derives a 32-byte symmetric key from password using the named
// KDF and params. function must be "scrypt" or "pbkdf2"; any other value
// fails with ErrUnsupportedKDF.
func deriveKey(function string, params kdfParams, password []byte) ([]byte, error) {
	salt, err := khex.DecodeFixed("crypto.kdf.params.salt", params.Salt, 32)
	if err != nil {
		return nil, err
	}

	dklen := params.DKLen
	if dklen == 0 {
		dklen = kdfDKLen
	}
	if dklen != kdfDKLen {
		return nil, errors.Errorf("keystore: crypto.kdf.params.dklen must be %d, got %d", kdfDKLen, dklen)
	}

	switch function {
	case kdfScrypt:
		return deriveScrypt(password, salt, params.N, params.R, params.P, dklen)
	case kdfPBKDF2:
		return derivePBKDF2(password, salt, params.C, params.PRF, dklen)
	default:
		return nil, errors.Wrapf(ErrUnsupportedKDF, "function %q", function)
	}
}

func deriveScrypt(password, salt []byte, n, r, p, dklen int) ([]byte, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, errors.Wrapf(ErrInvalidScryptN, "n=%d", n)
	}
	key, err := scrypt.Key(password, salt, n, r, p, dklen)
	if err != nil {
		return nil, errors.Wrap(err, "scrypt derivation failed")
	}
	return key, nil
}

func derivePBKDF2(password, salt []byte, c int, prf string, dklen int) ([]byte, error) {
	if prf != prfHMACSHA256 {
		return nil, errors.Wrapf(ErrUnsupportedKDF, "pbkdf2 prf %q", prf)
	}
	return pbkdf2.Key(password, salt, c, dklen, sha256.New), nil
}
