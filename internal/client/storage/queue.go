package storage

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate moq -out queue_mock.go . QueueStorage

// PendingRequest represents one mutating request that could not be sent
// and waits for replay. Seq is assigned by the storage and defines FIFO order.
type PendingRequest struct {
	Timestamp time.Time       `json:"timestamp"`
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Body      json.RawMessage `json:"body,omitempty"`
	Seq       uint64          `json:"-"`
}

// QueueStorage defines interface for the durable pending-write queue.
// Requests are returned by ListPending in the order they were enqueued:
// later mutations may depend on earlier ones (create-then-update).
type QueueStorage interface {
	// Enqueue appends a request to the tail of the queue
	Enqueue(ctx context.Context, req *PendingRequest) error

	// ListPending returns all queued requests in FIFO order.
	// Corrupted entries are skipped, not fatal.
	ListPending(ctx context.Context) ([]*PendingRequest, error)

	// DeletePending removes a single replayed request by its sequence number
	DeletePending(ctx context.Context, seq uint64) error

	// ClearPending removes the whole queue
	ClearPending(ctx context.Context) error
}
