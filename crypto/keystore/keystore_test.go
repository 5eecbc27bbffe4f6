package keystore

import (
	"crypto/sha256"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	khex "github.com/mahmudsudo/lambda-ethereum-consensus/crypto/hex"
	"github.com/stretchr/testify/require"
)

func validPrivkey(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, secretKeyLength)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

func TestDecode_RoundTrip(t *testing.T) {
	privkey := validPrivkey(t)
	password := []byte("correct horse battery staple")

	doc, err := Encrypt(privkey, password, EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)

	record, err := Decode(doc, password)
	require.NoError(t, err)
	require.Equal(t, privkey, record.PrivateKey())
	require.False(t, record.Readonly)
	require.Equal(t, "", record.Path)
}

func TestDecode_RoundTrip_PBKDF2(t *testing.T) {
	privkey := validPrivkey(t)

	// Exercises the pbkdf2 branch of deriveKey directly, since Encrypt
	// only produces scrypt documents.
	salt := make([]byte, 32)
	for i := range salt {
		salt[i] = byte(i)
	}
	password2 := []byte("pbkdf2-password")
	pbDoc := buildPBKDF2Keystore(t, privkey, password2, salt, 2048)

	record, err := Decode(pbDoc, password2)
	require.NoError(t, err)
	require.Equal(t, privkey, record.PrivateKey())
}

func buildPBKDF2Keystore(t *testing.T, privkey, password, salt []byte, c int) []byte {
	t.Helper()
	sanitized := sanitizePassword(string(password))
	dk, err := derivePBKDF2(sanitized, salt, c, prfHMACSHA256, kdfDKLen)
	require.NoError(t, err)

	iv := make([]byte, ivLength)
	for i := range iv {
		iv[i] = byte(i + 100)
	}
	ciphertext, err := encryptAES128CTR(dk[:aes128KeyHalfSize], iv, privkey)
	require.NoError(t, err)

	h := sha256.New()
	h.Write(dk[aes128KeyHalfSize:])
	h.Write(ciphertext)
	checksum := h.Sum(nil)

	params := kdfParams{DKLen: kdfDKLen, Salt: khex.Encode(salt), C: c, PRF: prfHMACSHA256}
	paramsJSON, err := json.Marshal(params)
	require.NoError(t, err)
	cipherParamsJSON, err := json.Marshal(cipherParams{IV: khex.Encode(iv)})
	require.NoError(t, err)

	doc := documentJSON{
		Version: supportedVersion,
		Crypto: cryptoJSON{
			KDF:      moduleJSON{Function: kdfPBKDF2, Params: paramsJSON},
			Checksum: moduleJSON{Function: checksumSHA256, Params: json.RawMessage("{}"), Message: khex.Encode(checksum)},
			Cipher:   moduleJSON{Function: cipherAES128CTR, Params: cipherParamsJSON, Message: khex.Encode(ciphertext)},
		},
	}
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}

func TestDecode_WrongPassword(t *testing.T) {
	privkey := validPrivkey(t)
	doc, err := Encrypt(privkey, []byte("right password"), EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)

	_, err = Decode(doc, []byte("wrong"))
	require.ErrorIs(t, err, ErrBadPassword)
}

func TestDecode_PasswordSensitivity(t *testing.T) {
	privkey := validPrivkey(t)
	password := []byte("sensitive-password")
	doc, err := Encrypt(privkey, password, EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)

	flipped := append([]byte(nil), password...)
	flipped[0] ^= 0x01
	_, err = Decode(doc, flipped)
	require.ErrorIs(t, err, ErrBadPassword)
}

func TestDecode_TamperCiphertext(t *testing.T) {
	privkey := validPrivkey(t)
	password := []byte("tamper-me")
	doc, err := Encrypt(privkey, password, EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &raw))
	crypto := raw["crypto"].(map[string]interface{})
	cipherObj := crypto["cipher"].(map[string]interface{})
	msg := cipherObj["message"].(string)
	tampered := tamperHexByte(msg)
	cipherObj["message"] = tampered

	tamperedDoc, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Decode(tamperedDoc, password)
	require.ErrorIs(t, err, ErrBadPassword)
}

func TestDecode_KeyPairMismatch(t *testing.T) {
	privkey := validPrivkey(t)
	password := []byte("binding-test")
	doc, err := Encrypt(privkey, password, EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)

	otherPrivkey := make([]byte, secretKeyLength)
	for i := range otherPrivkey {
		otherPrivkey[i] = byte(64 - i)
	}
	otherDoc, err := Encrypt(otherPrivkey, password, EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)

	var raw, otherRaw map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &raw))
	require.NoError(t, json.Unmarshal(otherDoc, &otherRaw))
	raw["pubkey"] = otherRaw["pubkey"]

	mismatchedDoc, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Decode(mismatchedDoc, password)
	require.ErrorIs(t, err, ErrKeyPairMismatch)
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	doc := []byte(`{"version":3,"crypto":{}}`)
	_, err := Decode(doc, []byte("x"))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_UnsupportedPath(t *testing.T) {
	privkey := validPrivkey(t)
	doc, err := Encrypt(privkey, []byte("p"), EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &raw))
	raw["path"] = "m/12381/3600/0/0"
	pathDoc, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Decode(pathDoc, []byte("p"))
	require.ErrorIs(t, err, ErrUnsupportedPath)
}

func TestScanDirectory_Resilience(t *testing.T) {
	keystoreDir := t.TempDir()
	passwordDir := t.TempDir()

	writePair(t, keystoreDir, passwordDir, "good1", validPrivkey(t), []byte("pw1"))
	writePair(t, keystoreDir, passwordDir, "good2", validPrivkey(t), []byte("pw2"))

	require.NoError(t, os.WriteFile(filepath.Join(keystoreDir, "bad.json"), []byte("{not json"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(passwordDir, "bad.txt"), []byte("pw"), 0o600))

	require.NoError(t, os.WriteFile(filepath.Join(keystoreDir, "ignored.txt"), []byte("nope"), 0o600))

	records, err := ScanDirectory(keystoreDir, passwordDir)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func writePair(t *testing.T, keystoreDir, passwordDir, name string, privkey, password []byte) {
	t.Helper()
	doc, err := Encrypt(privkey, password, EncryptOpts{N: 16, R: 8, P: 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(keystoreDir, name+".json"), doc, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(passwordDir, name+".txt"), password, 0o600))
}

func tamperHexByte(s string) string {
	b := []byte(s)
	if len(b) == 0 {
		return s
	}
	if b[0] == 'f' {
		b[0] = 'e'
	} else {
		b[0] = 'f'
	}
	return string(b)
}
