// Package photostore provides PhotoStore implementations: a register backed
// by postgres metadata and object storage, and an in-memory seeded register
// for development and tests.
package photostore

import (
	"context"
	"fmt"
	"io"

	"github.com/jhendriks/photoregister/internal/model"
)

var _ model.PhotoStore = (*Store)(nil)

// Store resolves photos in two steps: a metadata row keyed by identifier and
// birth date, then the photo bytes from object storage under the row's key.
type Store struct {
	metadata model.PhotoMetadataStore
	objects  model.Storage
}

// New creates a Store over the given metadata store and object storage.
func New(metadata model.PhotoMetadataStore, objects model.Storage) *Store {
	return &Store{metadata: metadata, objects: objects}
}

// Lookup returns the photo registered for the identifier and birth date, or
// ErrNotFound when no row matches. A storage failure for an existing row is
// an upstream error, not a missing photo.
func (s *Store) Lookup(ctx context.Context, identifier, birthDate string) (model.PhotoAsset, error) {
	meta, err := s.metadata.GetByCriteria(ctx, identifier, birthDate)
	if err != nil {
		return model.PhotoAsset{}, err
	}

	reader, err := s.objects.Download(ctx, meta.ObjectKey)
	if err != nil {
		return model.PhotoAsset{}, fmt.Errorf("failed to download photo object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return model.PhotoAsset{}, fmt.Errorf("failed to read photo object: %w", err)
	}

	return model.PhotoAsset{
		Bytes:    data,
		Format:   meta.Format,
		Encoding: "base64",
		PhotoID:  meta.PhotoID,
	}, nil
}
