package jwe

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is a parsed compact JWE. Parsing does not decrypt; it exists so
// callers can inspect the header and verify envelope shape.
type Envelope struct {
	Protected    string
	EncryptedKey string
	IV           string
	Ciphertext   string
	Tag          string
}

// ParseCompact splits a compact serialization into its five segments and
// checks that each is valid base64url.
func ParseCompact(token string) (*Envelope, error) {
	parts := strings.Split(token, ".")
	if len(parts) != compactSegments {
		return nil, fmt.Errorf("invalid envelope: expected %d segments, got %d", compactSegments, len(parts))
	}

	for i, part := range parts {
		if _, err := base64.RawURLEncoding.DecodeString(part); err != nil {
			return nil, fmt.Errorf("invalid envelope: segment %d is not base64url: %w", i+1, err)
		}
	}

	return &Envelope{
		Protected:    parts[0],
		EncryptedKey: parts[1],
		IV:           parts[2],
		Ciphertext:   parts[3],
		Tag:          parts[4],
	}, nil
}

// Header decodes the protected header.
func (e *Envelope) Header() (ProtectedHeader, error) {
	raw, err := base64.RawURLEncoding.DecodeString(e.Protected)
	if err != nil {
		return ProtectedHeader{}, fmt.Errorf("failed to decode protected header: %w", err)
	}

	var header ProtectedHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return ProtectedHeader{}, fmt.Errorf("failed to unmarshal protected header: %w", err)
	}

	return header, nil
}
