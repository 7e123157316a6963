package storage

import (
	"context"
	"time"
)

// LogRecord represents one persisted log entry
type LogRecord struct {
	Timestamp time.Time         `json:"timestamp"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Level     string            `json:"level"`
	Message   string            `json:"message"`
}

// LogStorage defines interface for the bounded durable log buffer
type LogStorage interface {
	// AppendLog appends a record, pruning the buffer to the configured limit
	AppendLog(ctx context.Context, record *LogRecord) error

	// ListLogs returns all retained records, oldest first
	ListLogs(ctx context.Context) ([]*LogRecord, error)

	// ClearLogs removes all retained records
	ClearLogs(ctx context.Context) error
}
