package model

import (
	"context"
	"io"
)

// Storage is the object store holding raw photo bytes, addressed by the
// object key recorded in the photo metadata row.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
