package storage

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate moq -out cache_mock.go . CacheStorage

// CacheEntry represents one cached GET response keyed by request path
type CacheEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	TTL       time.Duration   `json:"ttl,omitempty"` // 0 = хранить вечно
}

// Expired reports whether the entry is past its TTL at the given moment
func (e *CacheEntry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.Sub(e.Timestamp) > e.TTL
}

// CacheStorage defines interface for the read-through response cache.
// Get must never propagate a backing-store failure: a missing, expired or
// corrupted entry is reported as ErrCacheMiss and the read path goes on.
type CacheStorage interface {
	// GetCache returns the cached payload for the key.
	// An expired entry is deleted as a side effect and reported as a miss.
	GetCache(ctx context.Context, key string) (json.RawMessage, error)

	// SetCache stores the payload for the key with an optional TTL (0 = forever)
	SetCache(ctx context.Context, key string, data json.RawMessage, ttl time.Duration) error

	// DeleteCache removes the entry for the key, missing keys are not an error
	DeleteCache(ctx context.Context, key string) error

	// ClearCache drops every cached response (logout: кэш принадлежит
	// пользователю, следующий не должен видеть чужие ответы)
	ClearCache(ctx context.Context) error
}
