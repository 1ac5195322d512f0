package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache used for profile and inquiry reads.
// Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	Close() error
}
