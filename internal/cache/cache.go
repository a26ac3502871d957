package cache

import (
	"context"
	"errors"
)

// Cache stores opaque payloads under string keys with a short TTL. Used to
// shield the public menu read path from the database.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
