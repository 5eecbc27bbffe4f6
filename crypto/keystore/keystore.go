// Package keystore decodes ERC-2335 encrypted BLS12-381 validator keys.
// Decoding is the safety-critical path of the validator: a bug here either
// accepts a wrong password (key compromise) or hands back a corrupted
// secret scalar (permanent loss of signing ability), so every step of
// section 4.D of the design runs in a fixed order and every failure is
// reported through a typed sentinel rather than a bare string.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"

	"github.com/mahmudsudo/lambda-ethereum-consensus/crypto/bls"
	khex "github.com/mahmudsudo/lambda-ethereum-consensus/crypto/hex"
	"github.com/pkg/errors"
)

const (
	supportedVersion  = 4
	cipherAES128CTR   = "aes-128-ctr"
	checksumSHA256    = "sha256"
	pubkeyLength      = 48
	secretKeyLength   = 32
	ivLength          = 16
	checksumLength    = 32
	saltLength        = 32
	aes128KeyHalfSize = 16
)

// moduleJSON is one of the three crypto.{kdf,checksum,cipher} objects.
type moduleJSON struct {
	Function string          `json:"function"`
	Params   json.RawMessage `json:"params"`
	Message  string          `json:"message"`
}

type cryptoJSON struct {
	KDF      moduleJSON `json:"kdf"`
	Checksum moduleJSON `json:"checksum"`
	Cipher   moduleJSON `json:"cipher"`
}

type cipherParams struct {
	IV string `json:"iv"`
}

// documentJSON is the top-level ERC-2335 keystore document. Unknown fields
// are ignored by encoding/json's default unmarshal behavior.
type documentJSON struct {
	Version uint       `json:"version"`
	UUID    string     `json:"uuid"`
	Name    string     `json:"name"`
	Path    string     `json:"path"`
	Pubkey  string     `json:"pubkey"`
	Crypto  cryptoJSON `json:"crypto"`
}

// Record is a decoded ERC-2335 keystore. Its fields are not changed after
// construction except by Zero, which callers invoke explicitly to discard
// the secret; dropping the last reference does not zero it.
type Record struct {
	UUID     string
	Name     string
	Path     string
	Pubkey   [pubkeyLength]byte
	privkey  [secretKeyLength]byte
	Readonly bool
}

// PrivateKey returns a copy of the decoded 32-byte secret scalar. The
// caller owns the returned slice and should zero it when done.
func (r *Record) PrivateKey() []byte {
	out := make([]byte, secretKeyLength)
	copy(out, r.privkey[:])
	return out
}

// Zero overwrites the record's secret scalar in place. Call this once the
// holder is done signing; the record must not be used afterward.
func (r *Record) Zero() {
	for i := range r.privkey {
		r.privkey[i] = 0
	}
}

// Decode parses jsonBytes as an ERC-2335 version-4 keystore and unlocks it
// with password, returning the recovered Record. Every step below mirrors
// design section 4.D in order; reordering steps 7 and 8 would let an
// attacker probe decryption before the password has been verified.
func Decode(jsonBytes, password []byte) (*Record, error) {
	var doc documentJSON
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, errors.Wrap(ErrMalformedJSON, err.Error())
	}

	if doc.Version != supportedVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", doc.Version)
	}
	if doc.Path != "" {
		return nil, errors.Wrapf(ErrUnsupportedPath, "path %q", doc.Path)
	}

	sanitized := sanitizePassword(string(password))

	var kdfParamsDecoded kdfParams
	if err := json.Unmarshal(doc.Crypto.KDF.Params, &kdfParamsDecoded); err != nil {
		return nil, errors.Wrap(ErrMalformedJSON, "crypto.kdf.params: "+err.Error())
	}
	derivedKey, err := deriveKey(doc.Crypto.KDF.Function, kdfParamsDecoded, sanitized)
	if err != nil {
		return nil, err
	}
	defer zero(derivedKey)

	if doc.Crypto.Cipher.Function != cipherAES128CTR {
		return nil, errors.Wrapf(ErrUnsupportedCipher, "function %q", doc.Crypto.Cipher.Function)
	}
	var cp cipherParams
	if err := json.Unmarshal(doc.Crypto.Cipher.Params, &cp); err != nil {
		return nil, errors.Wrap(ErrMalformedJSON, "crypto.cipher.params: "+err.Error())
	}
	iv, err := khex.DecodeFixed("crypto.cipher.params.iv", cp.IV, ivLength)
	if err != nil {
		return nil, err
	}
	ciphertext, err := khex.Decode(doc.Crypto.Cipher.Message)
	if err != nil {
		return nil, err
	}

	if doc.Crypto.Checksum.Function != checksumSHA256 {
		return nil, errors.Wrapf(ErrUnsupportedChecksumFn, "function %q", doc.Crypto.Checksum.Function)
	}
	wantChecksum, err := khex.DecodeFixed("crypto.checksum.message", doc.Crypto.Checksum.Message, checksumLength)
	if err != nil {
		return nil, err
	}

	// Password verification MUST precede any use of the decrypted
	// plaintext (design 4.D step 7).
	h := sha256.New()
	h.Write(derivedKey[aes128KeyHalfSize:])
	h.Write(ciphertext)
	gotChecksum := h.Sum(nil)
	if subtle.ConstantTimeCompare(gotChecksum, wantChecksum) != 1 {
		return nil, ErrBadPassword
	}

	privkey, err := decryptAES128CTR(derivedKey[:aes128KeyHalfSize], iv, ciphertext)
	if err != nil {
		return nil, err
	}
	defer zero(privkey)
	if len(privkey) != secretKeyLength {
		return nil, &khex.FieldSizeError{Field: "privkey", Expected: secretKeyLength, Got: len(privkey)}
	}

	secKey, err := bls.SecretKeyFromBytes(privkey)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: recovered secret key is invalid")
	}
	derivedPubkey := secKey.PublicKey().Marshal()

	record := &Record{
		UUID:     doc.UUID,
		Name:     doc.Name,
		Path:     doc.Path,
		Readonly: false,
	}
	copy(record.privkey[:], privkey)

	if doc.Pubkey != "" {
		declaredPubkey, err := khex.DecodeFixed("pubkey", doc.Pubkey, pubkeyLength)
		if err != nil {
			return nil, err
		}
		if subtle.ConstantTimeCompare(declaredPubkey, derivedPubkey) != 1 {
			return nil, ErrKeyPairMismatch
		}
		copy(record.Pubkey[:], declaredPubkey)
	} else {
		copy(record.Pubkey[:], derivedPubkey)
	}

	return record, nil
}

func decryptAES128CTR(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: could not create aes cipher")
	}
	plaintext := make([]byte, len(ciphertext))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
