package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no saved user session exists
	ErrSessionNotFound = errors.New("user session not found")

	// ErrCacheMiss indicates that cache entry is absent, expired or corrupted
	ErrCacheMiss = errors.New("cache entry not found")

	// ErrSummaryNotFound indicates that no workout summary exists for the day
	ErrSummaryNotFound = errors.New("workout summary not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
