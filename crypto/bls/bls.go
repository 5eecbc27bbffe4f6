// Package bls wraps the BLS12-381 bindings needed to bind a keystore's
// decrypted secret scalar to its declared public key. It intentionally
// exposes only the surface the keystore decoder needs: constructing a
// secret key from raw bytes and deriving its compressed public key.
package bls

import (
	"github.com/pkg/errors"
	blst "github.com/supranational/blst/bindings/go"
)

// SecretKeyLength is the byte length of a BLS12-381 secret scalar.
const SecretKeyLength = 32

// PublicKeyLength is the byte length of a compressed BLS12-381 G1 point.
const PublicKeyLength = 48

var errZeroSecretKey = errors.New("bls: secret key must not be zero")

type blstPublicKey = blst.P1Affine

// SecretKey is a BLS12-381 secret scalar.
type SecretKey struct {
	p *blst.SecretKey
}

// PublicKey is a compressed BLS12-381 G1 point.
type PublicKey struct {
	p *blstPublicKey
}

// SecretKeyFromBytes constructs a secret key from a big-endian 32-byte
// scalar, the encoding a decrypted ERC-2335 keystore yields.
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if len(b) != SecretKeyLength {
		return nil, errors.Errorf("bls: secret key must be %d bytes, got %d", SecretKeyLength, len(b))
	}
	isZero := true
	for _, v := range b {
		if v != 0 {
			isZero = false
			break
		}
	}
	if isZero {
		return nil, errZeroSecretKey
	}
	secKey := new(blst.SecretKey).Deserialize(b)
	if secKey == nil {
		return nil, errors.New("bls: could not unmarshal bytes into secret key")
	}
	return &SecretKey{p: secKey}, nil
}

// PublicKey derives the compressed public key corresponding to s.
func (s *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{p: new(blstPublicKey).From(s.p)}
}

// Marshal returns the big-endian 32-byte encoding of the secret scalar.
func (s *SecretKey) Marshal() []byte {
	keyBytes := s.p.Serialize()
	if len(keyBytes) < SecretKeyLength {
		padded := make([]byte, SecretKeyLength-len(keyBytes))
		keyBytes = append(padded, keyBytes...)
	}
	return keyBytes
}

// PublicKeyFromBytes decompresses a 48-byte compressed G1 point.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeyLength {
		return nil, errors.Errorf("bls: public key must be %d bytes, got %d", PublicKeyLength, len(b))
	}
	p := new(blstPublicKey).Uncompress(b)
	if p == nil {
		return nil, errors.New("bls: could not unmarshal bytes into public key")
	}
	return &PublicKey{p: p}, nil
}

// Marshal returns the compressed 48-byte encoding of the public key.
func (p *PublicKey) Marshal() []byte {
	return p.p.Compress()
}

// Equal reports whether p and other encode the same point.
func (p *PublicKey) Equal(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.p.Equals(other.p)
}
