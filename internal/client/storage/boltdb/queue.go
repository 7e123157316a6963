package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/webtga/superstrong/internal/client/storage"
)

// seqKey кодирует порядковый номер в ключ bucket'а.
// Big-endian даёт байтовую сортировку в порядке добавления (FIFO).
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// Enqueue appends a request to the tail of the queue
func (s *Storage) Enqueue(ctx context.Context, req *storage.PendingRequest) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)
		if bucket == nil {
			return fmt.Errorf("pending bucket not found")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		req.Seq = seq

		data, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal pending request: %w", err)
		}

		if err := bucket.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("failed to save pending request: %w", err)
		}

		return nil
	})
}

// ListPending returns all queued requests in FIFO order
func (s *Storage) ListPending(ctx context.Context) ([]*storage.PendingRequest, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var requests []*storage.PendingRequest

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)
		if bucket == nil {
			return fmt.Errorf("pending bucket not found")
		}

		// ForEach идет в байтовом порядке ключей = порядок enqueue
		return bucket.ForEach(func(k, v []byte) error {
			req := &storage.PendingRequest{}
			if err := json.Unmarshal(v, req); err != nil {
				// Битую запись пропускаем, очередь продолжает жить
				return nil
			}
			req.Seq = binary.BigEndian.Uint64(k)
			requests = append(requests, req)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return requests, nil
}

// DeletePending removes a single replayed request by its sequence number
func (s *Storage) DeletePending(ctx context.Context, seq uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)
		if bucket == nil {
			return fmt.Errorf("pending bucket not found")
		}
		return bucket.Delete(seqKey(seq))
	})
}

// ClearPending removes the whole queue
func (s *Storage) ClearPending(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketPending); err != nil {
			return fmt.Errorf("failed to drop pending bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketPending); err != nil {
			return fmt.Errorf("failed to recreate pending bucket: %w", err)
		}
		return nil
	})
}
