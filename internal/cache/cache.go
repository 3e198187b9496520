// Package cache provides the optional cache capability used by the content
// aggregator. Cache loss is never an error: every failure degrades to a miss.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for ttl. Best effort.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Noop is the null-object cache used when no backend is configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
