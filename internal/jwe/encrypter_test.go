package jwe

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"testing"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecipientKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestEncrypter_CompactShape(t *testing.T) {
	recipient := newRecipientKey(t)
	recipientECDH, err := recipient.PublicKey.ECDH()
	require.NoError(t, err)

	token, err := NewEncrypter().Encrypt([]byte(`{"photo":"ZGF0YQ==","format":"jpg","encoding":"base64"}`), recipientECDH)
	require.NoError(t, err)

	envelope, err := ParseCompact(token)
	require.NoError(t, err)

	assert.Empty(t, envelope.EncryptedKey, "direct key agreement carries no wrapped key")

	iv, err := base64.RawURLEncoding.DecodeString(envelope.IV)
	require.NoError(t, err)
	assert.Len(t, iv, 12)

	tag, err := base64.RawURLEncoding.DecodeString(envelope.Tag)
	require.NoError(t, err)
	assert.Len(t, tag, 16)

	header, err := envelope.Header()
	require.NoError(t, err)
	assert.Equal(t, "ECDH-ES", header.Alg)
	assert.Equal(t, "A256GCM", header.Enc)
	assert.Equal(t, "EC", header.Epk.Kty)
	assert.Equal(t, "P-256", header.Epk.Crv)

	x, err := base64.RawURLEncoding.DecodeString(header.Epk.X)
	require.NoError(t, err)
	assert.Len(t, x, 32)
	y, err := base64.RawURLEncoding.DecodeString(header.Epk.Y)
	require.NoError(t, err)
	assert.Len(t, y, 32)
}

func TestEncrypter_RoundTripWithExternalDecrypter(t *testing.T) {
	recipient := newRecipientKey(t)
	recipientECDH, err := recipient.PublicKey.ECDH()
	require.NoError(t, err)

	plaintext := []byte(`{"photo":"dGVzdC1ieXRlcw==","format":"jpg","encoding":"base64"}`)

	token, err := NewEncrypter().Encrypt(plaintext, recipientECDH)
	require.NoError(t, err)

	// The recipient side uses a standard JOSE implementation; envelopes must
	// be bit-for-bit compliant with it.
	parsed, err := jose.ParseEncrypted(token)
	require.NoError(t, err)

	decrypted, err := parsed.Decrypt(recipient)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypter_FreshKeyAndIVPerRequest(t *testing.T) {
	recipient := newRecipientKey(t)
	recipientECDH, err := recipient.PublicKey.ECDH()
	require.NoError(t, err)

	encrypter := NewEncrypter()

	const n = 16
	tokens := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := encrypter.Encrypt([]byte("payload"), recipientECDH)
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	ephemeralKeys := make(map[string]struct{}, n)
	ivs := make(map[string]struct{}, n)
	for _, token := range tokens {
		envelope, err := ParseCompact(token)
		require.NoError(t, err)
		header, err := envelope.Header()
		require.NoError(t, err)
		ephemeralKeys[header.Epk.X+"."+header.Epk.Y] = struct{}{}
		ivs[envelope.IV] = struct{}{}
	}

	assert.Len(t, ephemeralKeys, n, "ephemeral key pairs must be pairwise distinct")
	assert.Len(t, ivs, n, "initialization vectors must be pairwise distinct")
}

func TestParseCompact_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "too few segments", token: "a.b.c"},
		{name: "too many segments", token: "a..b.c.d.e"},
		{name: "not base64url", token: "a..!!.c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCompact(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestDeriveContentKey_Deterministic(t *testing.T) {
	z := []byte("0123456789abcdef0123456789abcdef")

	first := deriveContentKey(z)
	second := deriveContentKey(z)

	assert.Len(t, first, 32)
	assert.Equal(t, first, second, "same shared secret must derive the same key")
}
