package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/models"
)

// SaveSummary stores or replaces the summary for the date key
func (s *Storage) SaveSummary(ctx context.Context, dateKey string, summary *models.WorkoutSummary) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSummaries)
		if bucket == nil {
			return fmt.Errorf("summaries bucket not found")
		}

		data, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}

		if err := bucket.Put([]byte(dateKey), data); err != nil {
			return fmt.Errorf("failed to save summary: %w", err)
		}

		return nil
	})
}

// GetSummary returns the summary for the date key
func (s *Storage) GetSummary(ctx context.Context, dateKey string) (*models.WorkoutSummary, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var summary *models.WorkoutSummary

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSummaries)
		if bucket == nil {
			return fmt.Errorf("summaries bucket not found")
		}

		data := bucket.Get([]byte(dateKey))
		if data == nil {
			return storage.ErrSummaryNotFound
		}

		summary = &models.WorkoutSummary{}
		if err := json.Unmarshal(data, summary); err != nil {
			return storage.ErrSummaryNotFound
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return summary, nil
}

// DeleteSummary removes the summary for the date key
func (s *Storage) DeleteSummary(ctx context.Context, dateKey string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSummaries)
		if bucket == nil {
			return fmt.Errorf("summaries bucket not found")
		}
		return bucket.Delete([]byte(dateKey))
	})
}

// ListSummaries returns the whole log keyed by date
func (s *Storage) ListSummaries(ctx context.Context) (map[string]*models.WorkoutSummary, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	summaries := make(map[string]*models.WorkoutSummary)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSummaries)
		if bucket == nil {
			return fmt.Errorf("summaries bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			summary := &models.WorkoutSummary{}
			if err := json.Unmarshal(v, summary); err != nil {
				// Битое значение пропускаем вместо падения
				return nil
			}
			summaries[string(k)] = summary
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// ReplaceSummaries destructively rewrites the whole log in one transaction
func (s *Storage) ReplaceSummaries(ctx context.Context, summaries map[string]*models.WorkoutSummary) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSummaries); err != nil {
			return fmt.Errorf("failed to drop summaries bucket: %w", err)
		}

		bucket, err := tx.CreateBucket(bucketSummaries)
		if err != nil {
			return fmt.Errorf("failed to recreate summaries bucket: %w", err)
		}

		for dateKey, summary := range summaries {
			data, err := json.Marshal(summary)
			if err != nil {
				return fmt.Errorf("failed to marshal summary for %s: %w", dateKey, err)
			}
			if err := bucket.Put([]byte(dateKey), data); err != nil {
				return fmt.Errorf("failed to save summary for %s: %w", dateKey, err)
			}
		}

		return nil
	})
}
