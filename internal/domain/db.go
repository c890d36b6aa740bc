package domain

import "context"

// Database defines lifecycle operations for the underlying record store.
// Each implementation owns its own migration files and strategy.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// FileStore stores opaque blobs (resumes, answer videos) by generated key.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
