package model

// PublicKeyJWK is the recipient's public key in JWK form as it appears on
// the wire. Only EC P-256 keys are accepted.
type PublicKeyJWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// PhotoRequest is a single photo retrieval request. Immutable once received.
type PhotoRequest struct {
	Identifier         string       `json:"identifier"`
	BirthDate          string       `json:"birth_date"`
	RecipientPublicKey PublicKeyJWK `json:"recipient_public_key"`
}

// PhotoResponse is the success response: the envelope is the compact JWE
// string carrying the watermarked photo payload.
type PhotoResponse struct {
	TransactionID  string `json:"transaction_id"`
	PhotoID        int64  `json:"photo_id"`
	EncryptedPhoto string `json:"encrypted_photo"`
}
