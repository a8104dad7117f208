// Package validation holds the pure input checks that gate the photo
// pipeline: the 11-proef identifier checksum, the birth date grammar and the
// recipient public key shape. All checks run before any sensitive work.
package validation

import (
	"crypto/ecdh"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/jhendriks/photoregister/internal/model"
)

const (
	identifierLength = 9
	coordinateLength = 32
	minBirthYear     = 1900

	keyTypeEC  = "EC"
	curveP256  = "P-256"
	dateLayout = "2006-01-02"
)

// checksum weights for the first eight digits; the ninth is weighted -1.
var checksumWeights = [8]int{9, 8, 7, 6, 5, 4, 3, 2}

// ValidateIdentifier checks that the identifier is exactly nine ASCII digits
// whose 11-proef weighted sum is divisible by eleven. Wrong length,
// non-numeric input and a failing checksum all report the same error kind.
func ValidateIdentifier(identifier string) error {
	invalid := model.NewValidationError("identifier", "must be 9 digits with a valid checksum")

	if len(identifier) != identifierLength {
		return invalid
	}

	sum := 0
	for i, c := range []byte(identifier) {
		if c < '0' || c > '9' {
			return invalid
		}
		digit := int(c - '0')
		if i < identifierLength-1 {
			sum += digit * checksumWeights[i]
		} else {
			sum -= digit
		}
	}

	if sum%11 != 0 {
		return invalid
	}
	return nil
}

// ValidateBirthDate accepts YYYY-MM-DD for a real calendar date not after
// now, or the year-only form YYYY-00-00 when the exact date is unknown.
func ValidateBirthDate(birthDate string, now time.Time) error {
	if len(birthDate) != len(dateLayout) || birthDate[4] != '-' || birthDate[7] != '-' {
		return model.NewValidationError("birth_date", "must be YYYY-MM-DD or YYYY-00-00")
	}

	if birthDate[5:7] == "00" && birthDate[8:10] == "00" {
		year := 0
		for _, c := range []byte(birthDate[:4]) {
			if c < '0' || c > '9' {
				return model.NewValidationError("birth_date", "must be YYYY-MM-DD or YYYY-00-00")
			}
			year = year*10 + int(c-'0')
		}
		if year < minBirthYear || year > now.Year() {
			return model.NewValidationError("birth_date", fmt.Sprintf("year must be between %d and %d", minBirthYear, now.Year()))
		}
		return nil
	}

	parsed, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return model.NewValidationError("birth_date", "not a valid calendar date")
	}
	if parsed.After(now) {
		return model.NewValidationError("birth_date", "birth date cannot be in the future")
	}
	return nil
}

// ValidatePublicKey checks the recipient key and returns the decoded curve
// point. A wrong key type or curve is the caller's fault (ValidationError);
// a key of the right category whose coordinates do not decode to exactly 32
// bytes or do not lie on P-256 is a KeyStructureError instead.
func ValidatePublicKey(key model.PublicKeyJWK) (*ecdh.PublicKey, error) {
	if key.Kty == "" || key.Crv == "" || key.X == "" || key.Y == "" {
		return nil, model.NewValidationError("recipient_public_key", "missing required field")
	}
	if key.Kty != keyTypeEC {
		return nil, model.NewValidationError("recipient_public_key", fmt.Sprintf("key type must be %q", keyTypeEC))
	}
	if key.Crv != curveP256 {
		return nil, model.NewValidationError("recipient_public_key", fmt.Sprintf("curve must be %q", curveP256))
	}

	x, err := base64.RawURLEncoding.DecodeString(key.X)
	if err != nil {
		return nil, &model.KeyStructureError{Reason: "x coordinate is not valid base64url"}
	}
	y, err := base64.RawURLEncoding.DecodeString(key.Y)
	if err != nil {
		return nil, &model.KeyStructureError{Reason: "y coordinate is not valid base64url"}
	}
	if len(x) != coordinateLength || len(y) != coordinateLength {
		return nil, &model.KeyStructureError{Reason: fmt.Sprintf("coordinates must decode to %d bytes", coordinateLength)}
	}

	// Uncompressed SEC1 point; NewPublicKey rejects points off the curve.
	point := make([]byte, 1+2*coordinateLength)
	point[0] = 0x04
	copy(point[1:1+coordinateLength], x)
	copy(point[1+coordinateLength:], y)

	pub, err := ecdh.P256().NewPublicKey(point)
	if err != nil {
		return nil, &model.KeyStructureError{Reason: "coordinates are not a point on the curve"}
	}
	return pub, nil
}
