package keystore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mahmudsudo/lambda-ethereum-consensus/crypto/bls"
	khex "github.com/mahmudsudo/lambda-ethereum-consensus/crypto/hex"
	"github.com/pkg/errors"
)

// EncryptOpts configures Encrypt. Zero-valued N/R/P select the defaults
// below, which match the ERC-2335 reference test vectors.
type EncryptOpts struct {
	N, R, P int
}

// DefaultEncryptOpts returns the scrypt parameters used by the ERC-2335
// reference implementation's test vectors.
func DefaultEncryptOpts() EncryptOpts {
	return EncryptOpts{N: 262144, R: 8, P: 1}
}

// Encrypt builds a version-4 ERC-2335 JSON document wrapping privkey under
// password, the inverse of Decode. It exists so tests and the CLI's
// "encrypt" verb can construct fixtures without a checked-in binary
// keystore.
func Encrypt(privkey []byte, password []byte, opts EncryptOpts) ([]byte, error) {
	if len(privkey) != secretKeyLength {
		return nil, errors.Errorf("keystore: privkey must be %d bytes, got %d", secretKeyLength, len(privkey))
	}
	secKey, err := bls.SecretKeyFromBytes(privkey)
	if err != nil {
		return nil, err
	}
	pubkey := secKey.PublicKey().Marshal()

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	defaults := DefaultEncryptOpts()
	if opts.N == 0 {
		opts.N = defaults.N
	}
	if opts.R == 0 {
		opts.R = defaults.R
	}
	if opts.P == 0 {
		opts.P = defaults.P
	}

	sanitized := sanitizePassword(string(password))
	params := kdfParams{DKLen: kdfDKLen, Salt: khex.Encode(salt), N: opts.N, R: opts.R, P: opts.P}
	derivedKey, err := deriveScrypt(sanitized, salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, err
	}
	defer zero(derivedKey)

	ciphertext, err := encryptAES128CTR(derivedKey[:aes128KeyHalfSize], iv, privkey)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	h.Write(derivedKey[aes128KeyHalfSize:])
	h.Write(ciphertext)
	checksum := h.Sum(nil)

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	cipherParamsJSON, err := json.Marshal(cipherParams{IV: khex.Encode(iv)})
	if err != nil {
		return nil, err
	}

	doc := documentJSON{
		Version: supportedVersion,
		UUID:    uuid.New().String(),
		Pubkey:  khex.Encode(pubkey),
		Crypto: cryptoJSON{
			KDF:      moduleJSON{Function: kdfScrypt, Params: paramsJSON},
			Checksum: moduleJSON{Function: checksumSHA256, Params: json.RawMessage("{}"), Message: khex.Encode(checksum)},
			Cipher:   moduleJSON{Function: cipherAES128CTR, Params: cipherParamsJSON, Message: khex.Encode(ciphertext)},
		},
	}
	return json.Marshal(doc)
}

func encryptAES128CTR(key, iv, plaintext []byte) ([]byte, error) {
	return decryptAES128CTR(key, iv, plaintext) // CTR mode is its own inverse.
}
