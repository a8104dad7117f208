package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhendriks/photoregister/internal/model"
)

var _ model.PhotoMetadataStore = (*PhotoRepository)(nil)

type PhotoRepository struct {
	db *Connection
}

func NewPhotoRepository(db *Connection) *PhotoRepository {
	return &PhotoRepository{
		db: db,
	}
}

func (r *PhotoRepository) GetByCriteria(ctx context.Context, identifier, birthDate string) (model.PhotoMetadata, error) {
	query := `
		SELECT photo_id, identifier, birth_date, object_key, format
		FROM photos
		WHERE identifier = $1 AND birth_date = $2`

	var meta model.PhotoMetadata
	err := r.db.QueryRow(ctx, query, identifier, birthDate).Scan(
		&meta.PhotoID, &meta.Identifier, &meta.BirthDate, &meta.ObjectKey, &meta.Format,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PhotoMetadata{}, model.ErrNotFound
		}
		return model.PhotoMetadata{}, err
	}

	return meta, nil
}

// Create registers a photo object under an identifier and birth date.
// Re-registering the same pair replaces the stored object key.
func (r *PhotoRepository) Create(ctx context.Context, meta model.PhotoMetadata) (model.PhotoMetadata, error) {
	query := `
		INSERT INTO photos (identifier, birth_date, object_key, format)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identifier, birth_date) DO UPDATE
		SET object_key = EXCLUDED.object_key, format = EXCLUDED.format
		RETURNING photo_id`

	saved := meta
	err := r.db.QueryRow(ctx, query,
		meta.Identifier, meta.BirthDate, meta.ObjectKey, meta.Format,
	).Scan(&saved.PhotoID)
	if err != nil {
		return model.PhotoMetadata{}, err
	}

	return saved, nil
}
