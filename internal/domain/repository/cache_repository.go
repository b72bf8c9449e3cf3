package repository

import (
	"context"
	"time"
)

// CacheRepository is the byte-level cache used for search responses.
type CacheRepository interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// InvalidateSearch drops every cached search response; called after
	// writes that change what searches may return.
	InvalidateSearch(ctx context.Context) error
}
