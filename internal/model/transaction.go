package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a request ended. Every request produces exactly one
// transaction record, whatever the outcome.
type Outcome string

const (
	// OutcomeResponded means an encrypted photo was returned to the caller.
	OutcomeResponded Outcome = "responded"
	// OutcomeRejected means the request failed input validation.
	OutcomeRejected Outcome = "rejected"
	// OutcomeNotFound means no photo matched the identifier and birth date.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeFailed means an internal cryptographic or processing failure.
	OutcomeFailed Outcome = "failed"
)

// TransactionRecord is the audit entry for one request. It never carries
// photo bytes or key material.
type TransactionRecord struct {
	ID        uuid.UUID
	Outcome   Outcome
	CreatedAt time.Time
}

// TransactionLog is an append-only audit sink. Implementations must tolerate
// concurrent writers without losing or interleaving records.
type TransactionLog interface {
	Record(ctx context.Context, rec TransactionRecord) error
}
