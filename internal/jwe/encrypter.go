// Package jwe produces compact JWE envelopes (RFC 7516) in direct key
// agreement mode: ECDH-ES on P-256 with a single-round SHA-256 Concat KDF
// deriving the AES-256-GCM content encryption key. The key segment of the
// envelope stays empty because the derived key is used directly.
package jwe

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"
	"strings"

	_ "crypto/sha256" // registers SHA-256 for the Concat KDF

	josecipher "github.com/go-jose/go-jose/v3/cipher"

	"github.com/jhendriks/photoregister/internal/model"
)

const (
	// KeyAgreementAlg is the JWE "alg" header value.
	KeyAgreementAlg = "ECDH-ES"
	// ContentEncryptionAlg is the JWE "enc" header value.
	ContentEncryptionAlg = "A256GCM"

	cekBits         = 256
	ivSize          = 12
	coordinateSize  = 32
	compactSegments = 5
)

// EphemeralKey is the "epk" header member.
type EphemeralKey struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// ProtectedHeader is the JWE protected header for one envelope.
type ProtectedHeader struct {
	Alg string       `json:"alg"`
	Enc string       `json:"enc"`
	Epk EphemeralKey `json:"epk"`
}

// Encrypter encrypts payloads for a recipient public key. It holds no state
// between calls; every call consumes a fresh ephemeral key pair, so it is
// safe for concurrent use.
type Encrypter struct {
	random io.Reader
}

// NewEncrypter creates an Encrypter backed by crypto/rand.
func NewEncrypter() *Encrypter {
	return &Encrypter{random: rand.Reader}
}

// Encrypt seals the plaintext for the recipient and returns the compact
// serialization: protected header, empty key segment, IV, ciphertext, tag.
// The ephemeral private scalar is used for exactly one key agreement; the
// shared secret and the derived key are zeroed before return on every path.
func (e *Encrypter) Encrypt(plaintext []byte, recipient *ecdh.PublicKey) (string, error) {
	ephemeral, err := ecdh.P256().GenerateKey(e.random)
	if err != nil {
		return "", &model.EncryptionError{Stage: "ephemeral key generation", Err: err}
	}

	z, err := ephemeral.ECDH(recipient)
	if err != nil {
		return "", &model.EncryptionError{Stage: "key agreement", Err: err}
	}
	defer wipe(z)

	cek := deriveContentKey(z)
	defer wipe(cek)

	headerJSON, err := json.Marshal(newProtectedHeader(ephemeral.PublicKey()))
	if err != nil {
		return "", &model.EncryptionError{Stage: "header encoding", Err: err}
	}
	protected := base64.RawURLEncoding.EncodeToString(headerJSON)

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(e.random, iv); err != nil {
		return "", &model.EncryptionError{Stage: "iv generation", Err: err}
	}

	block, err := aes.NewCipher(cek)
	if err != nil {
		return "", &model.EncryptionError{Stage: "cipher setup", Err: err}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", &model.EncryptionError{Stage: "cipher setup", Err: err}
	}

	// The ASCII protected header is the additional authenticated data, so
	// the watermarked payload and the header share one integrity guarantee.
	sealed := aead.Seal(nil, iv, plaintext, []byte(protected))
	ciphertext := sealed[:len(sealed)-aead.Overhead()]
	tag := sealed[len(sealed)-aead.Overhead():]

	return strings.Join([]string{
		protected,
		"",
		base64.RawURLEncoding.EncodeToString(iv),
		base64.RawURLEncoding.EncodeToString(ciphertext),
		base64.RawURLEncoding.EncodeToString(tag),
	}, "."), nil
}

// deriveContentKey runs the single-round Concat KDF over the shared secret.
// AlgorithmID is the content encryption algorithm because the derived key is
// used directly; no party info is available in this protocol, so PartyUInfo
// and PartyVInfo are encoded as empty, and SuppPubInfo is the key bit length.
func deriveContentKey(z []byte) []byte {
	algID := lengthPrefixed([]byte(ContentEncryptionAlg))
	partyUInfo := lengthPrefixed(nil)
	partyVInfo := lengthPrefixed(nil)

	suppPubInfo := make([]byte, 4)
	binary.BigEndian.PutUint32(suppPubInfo, cekBits)

	reader := josecipher.NewConcatKDF(crypto.SHA256, z, algID, partyUInfo, partyVInfo, suppPubInfo, []byte{})

	cek := make([]byte, cekBits/8)
	_, _ = reader.Read(cek) // ConcatKDF's Read never returns an error

	return cek
}

func newProtectedHeader(pub *ecdh.PublicKey) ProtectedHeader {
	raw := pub.Bytes() // uncompressed SEC1: 0x04 || X || Y

	return ProtectedHeader{
		Alg: KeyAgreementAlg,
		Enc: ContentEncryptionAlg,
		Epk: EphemeralKey{
			Kty: "EC",
			Crv: "P-256",
			X:   base64.RawURLEncoding.EncodeToString(raw[1 : 1+coordinateSize]),
			Y:   base64.RawURLEncoding.EncodeToString(raw[1+coordinateSize:]),
		},
	}
}

func lengthPrefixed(data []byte) []byte {
	out := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], data)
	return out
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
