package storage

import (
	"context"
	"fmt"
	"io"

	"party-invites/core/config"
)

// Storage keeps uploaded blobs under slash-separated object keys.
type Storage interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	URL(ctx context.Context, key string) (string, error)
	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return NewS3Storage(cfg.Storage)
	case "local":
		return NewLocalStorage(cfg.Storage.LocalDir, cfg.App.BaseURL+"/uploads")
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
