package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/webtga/superstrong/internal/client/storage"
)

// maxLogRecords ограничивает буфер логов последними записями,
// как localStorage-логгер оригинала
const maxLogRecords = 100

// AppendLog appends a record, pruning the buffer to the retention limit
func (s *Storage) AppendLog(ctx context.Context, record *storage.LogRecord) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLogs)
		if bucket == nil {
			return fmt.Errorf("logs bucket not found")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal log record: %w", err)
		}

		if err := bucket.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("failed to append log record: %w", err)
		}

		// Подрезаем хвост: оставляем только последние maxLogRecords
		count := 0
		c := bucket.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			count++
		}
		for count > maxLogRecords {
			k, _ := bucket.Cursor().First()
			if k == nil {
				break
			}
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to prune log record: %w", err)
			}
			count--
		}

		return nil
	})
}

// ListLogs returns all retained records, oldest first
func (s *Storage) ListLogs(ctx context.Context) ([]*storage.LogRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []*storage.LogRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLogs)
		if bucket == nil {
			return fmt.Errorf("logs bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			record := &storage.LogRecord{}
			if err := json.Unmarshal(v, record); err != nil {
				return nil
			}
			records = append(records, record)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return records, nil
}

// ClearLogs removes all retained records
func (s *Storage) ClearLogs(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketLogs); err != nil {
			return fmt.Errorf("failed to drop logs bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketLogs); err != nil {
			return fmt.Errorf("failed to recreate logs bucket: %w", err)
		}
		return nil
	})
}
