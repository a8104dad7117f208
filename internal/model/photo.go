package model

import (
	"context"
)

// PhotoStore looks up registered portrait photos by national identifier and
// birth date. Implementations return ErrNotFound when no photo matches.
type PhotoStore interface {
	Lookup(ctx context.Context, identifier, birthDate string) (PhotoAsset, error)
}

// PhotoAsset is a photo as retrieved from the register. It lives for the
// duration of a single request and is never cached beyond it.
type PhotoAsset struct {
	Bytes    []byte
	Format   string
	Encoding string
	PhotoID  int64
}

// PhotoMetadata is the register row describing where a photo is stored.
type PhotoMetadata struct {
	PhotoID    int64
	Identifier string
	BirthDate  string
	ObjectKey  string
	Format     string
}

// PhotoMetadataStore defines persistence operations for photo metadata.
type PhotoMetadataStore interface {
	GetByCriteria(ctx context.Context, identifier, birthDate string) (PhotoMetadata, error)
}
