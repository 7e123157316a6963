package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/webtga/superstrong/internal/client/storage"
)

// GetCache returns the cached payload for the key.
// Просроченная или битая запись удаляется и считается промахом:
// read path никогда не видит ошибку хранилища.
func (s *Storage) GetCache(ctx context.Context, key string) (json.RawMessage, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var data json.RawMessage

	// Update, а не View: находка просроченной записи удаляет её
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return storage.ErrCacheMiss
		}

		raw := bucket.Get([]byte(key))
		if raw == nil {
			return storage.ErrCacheMiss
		}

		entry := &storage.CacheEntry{}
		if err := json.Unmarshal(raw, entry); err != nil {
			// Битый JSON — удаляем и считаем промахом
			_ = bucket.Delete([]byte(key))
			return storage.ErrCacheMiss
		}

		if entry.Expired(time.Now()) {
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to drop expired cache entry: %w", err)
			}
			return storage.ErrCacheMiss
		}

		data = entry.Data
		return nil
	})

	if err != nil {
		return nil, err
	}

	return data, nil
}

// SetCache stores the payload for the key with an optional TTL
func (s *Storage) SetCache(ctx context.Context, key string, data json.RawMessage, ttl time.Duration) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	entry := &storage.CacheEntry{
		Data:      data,
		Timestamp: time.Now(),
		TTL:       ttl,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		if err := bucket.Put([]byte(key), raw); err != nil {
			return fmt.Errorf("failed to save cache entry: %w", err)
		}

		return nil
	})
}

// DeleteCache removes the entry for the key
func (s *Storage) DeleteCache(ctx context.Context, key string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}
		return bucket.Delete([]byte(key))
	})
}

// ClearCache drops every cached response
func (s *Storage) ClearCache(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketCache); err != nil {
			return fmt.Errorf("failed to drop cache bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketCache); err != nil {
			return fmt.Errorf("failed to recreate cache bucket: %w", err)
		}
		return nil
	})
}
