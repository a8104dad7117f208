package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no row matches.
var ErrNotFound = errors.New("not found")

// ValidationError is a client-caused input error. It maps to HTTP 422 and
// names the offending field without leaking internal state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// KeyStructureError marks a public key that declares the right type and
// curve but carries malformed or out-of-range coordinates. Unlike a wrong
// key category, this is treated as an internal error (HTTP 500).
type KeyStructureError struct {
	Reason string
}

func (e *KeyStructureError) Error() string {
	return fmt.Sprintf("public key structure error: %s", e.Reason)
}

// EncryptionError marks a failure inside the key agreement or encryption
// pipeline. The stage is for logs only; detail never reaches the caller.
type EncryptionError struct {
	Stage string
	Err   error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("encryption failed at %s: %v", e.Stage, e.Err)
}

func (e *EncryptionError) Unwrap() error { return e.Err }

// ProcessingError marks a failure while transforming photo bytes, such as
// watermark embedding on an undecodable image.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("photo processing failed at %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// UpstreamError marks a photo store failure or timeout.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("photo store failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
