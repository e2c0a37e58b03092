package interfaces

import "context"

// KVStore persists one serialized blob per key.
// Get returns storage.ErrNotFound when the key has never been written.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
