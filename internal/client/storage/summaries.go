package storage

import (
	"context"

	"github.com/webtga/superstrong/internal/models"
)

//go:generate moq -out summaries_mock.go . SummaryStorage

// SummaryStorage defines interface for the per-day workout summary log.
// Keys are ISO dates (YYYY-MM-DD). A day with zero sets is never stored:
// "no workout that day" is the absence of the key.
type SummaryStorage interface {
	// SaveSummary stores or replaces the summary for the date key
	SaveSummary(ctx context.Context, dateKey string, summary *models.WorkoutSummary) error

	// GetSummary returns the summary for the date key.
	// Returns ErrSummaryNotFound if the day has no workout.
	GetSummary(ctx context.Context, dateKey string) (*models.WorkoutSummary, error)

	// DeleteSummary removes the summary for the date key, missing keys are fine
	DeleteSummary(ctx context.Context, dateKey string) error

	// ListSummaries returns the whole log keyed by date.
	// Corrupted values are skipped, not fatal.
	ListSummaries(ctx context.Context) (map[string]*models.WorkoutSummary, error)

	// ReplaceSummaries destructively rewrites the whole log in one transaction
	ReplaceSummaries(ctx context.Context, summaries map[string]*models.WorkoutSummary) error
}
