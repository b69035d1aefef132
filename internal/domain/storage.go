package domain

import "context"

// Database is the lifecycle of whichever backend persists token slots.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// TokenStore is the durable slot holding one browser's bearer token.
// Load returns "" when the slot is empty.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenRepository persists opaque token blobs keyed by browser id.
// Get returns ErrNotFound for an unknown or expired key.
type TokenRepository interface {
	Get(ctx context.Context, browserID string) ([]byte, error)
	Put(ctx context.Context, browserID string, blob []byte) error
	Delete(ctx context.Context, browserID string) error
}
