package stats

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/client/storage/boltdb"
	"github.com/webtga/superstrong/internal/models"
)

func newTestAggregator(t *testing.T) (Aggregator, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return NewAggregator(store, slog.New(slog.DiscardHandler)), store
}

func benchPress(sets ...models.Set) []models.ExerciseSets {
	return []models.ExerciseSets{{ExerciseID: "1", Name: "Жим", Sets: sets}}
}

func TestAggregator_RecordComputesTotals(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	stats, err := agg.Record(ctx, "2025-03-14", benchPress(
		models.Set{Reps: 10, Weight: 50},
		models.Set{Reps: 8, Weight: 55},
	))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalSets)
	assert.InDelta(t, 940.0, stats.TotalWeight, 0.001) // 10*50 + 8*55
	assert.Equal(t, 1, stats.WorkoutsCompleted)
	assert.Equal(t, "2025-03-14", stats.FirstWorkoutDate)

	summary, err := store.GetSummary(ctx, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalSets)
}

func TestAggregator_RecordRoundsWeight(t *testing.T) {
	agg, _ := newTestAggregator(t)

	stats, err := agg.Record(context.Background(), "2025-03-14", benchPress(
		models.Set{Reps: 3, Weight: 33.333},
	))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, stats.TotalWeight, 0.001)
}

func TestAggregator_ZeroSetsDeletesDay(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	_, err := agg.Record(ctx, "2025-03-14", benchPress(models.Set{Reps: 5, Weight: 100}))
	require.NoError(t, err)

	// Повторная запись дня без подходов удаляет ключ
	stats, err := agg.Record(ctx, "2025-03-14", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.WorkoutsCompleted)
	assert.Empty(t, stats.FirstWorkoutDate)

	_, err = store.GetSummary(ctx, "2025-03-14")
	assert.ErrorIs(t, err, storage.ErrSummaryNotFound)
}

func TestAggregator_SummaryAcrossDays(t *testing.T) {
	agg, _ := newTestAggregator(t)
	ctx := context.Background()

	_, err := agg.Record(ctx, "2025-03-10", benchPress(models.Set{Reps: 10, Weight: 40}))
	require.NoError(t, err)
	_, err = agg.Record(ctx, "2025-03-12", benchPress(models.Set{Reps: 5, Weight: 60}))
	require.NoError(t, err)

	ref := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	stats, err := agg.Summary(ctx, "", ref)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.WorkoutsCompleted)
	assert.Equal(t, 2, stats.TotalSets)
	assert.InDelta(t, 700.0, stats.TotalWeight, 0.001)
	assert.Equal(t, "2025-03-10", stats.FirstWorkoutDate)
	// 10 марта — первый день, 14 марта — пятый
	assert.Equal(t, 5, stats.DaysSinceFirstWorkout)
}

func TestAggregator_DaysSinceUserCreation(t *testing.T) {
	agg, _ := newTestAggregator(t)
	ref := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	stats, err := agg.Summary(context.Background(), "2025-03-14T08:00:00Z", ref)
	require.NoError(t, err)
	// День регистрации считается первым днем
	assert.Equal(t, 1, stats.DaysSinceUserCreation)

	stats, err = agg.Summary(context.Background(), "2025-03-01", ref)
	require.NoError(t, err)
	assert.Equal(t, 14, stats.DaysSinceUserCreation)
}

func TestAggregator_DayCountingEastOfUTC(t *testing.T) {
	agg, _ := newTestAggregator(t)
	ctx := context.Background()

	// Раннее утро восточнее UTC: в UTC этот день еще не наступил.
	// День регистрации все равно считается первым, а не будущим.
	ref := time.Date(2025, 1, 1, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))

	stats, err := agg.Summary(ctx, "2025-01-01", ref)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DaysSinceUserCreation)

	// Тот же день недели спустя
	later := time.Date(2025, 1, 8, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))
	stats, err = agg.Summary(ctx, "2025-01-01", later)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.DaysSinceUserCreation)

	// И первая тренировка в тот же локальный день
	_, err = agg.Record(ctx, "2025-01-01", benchPress(models.Set{Reps: 5, Weight: 20}))
	require.NoError(t, err)
	stats, err = agg.Summary(ctx, "", ref)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DaysSinceFirstWorkout)
}

func TestAggregator_CreatedAtTimestampWestOfUTC(t *testing.T) {
	agg, _ := newTestAggregator(t)

	// Полночь UTC западнее нуля — еще предыдущий локальный день
	ref := time.Date(2025, 3, 14, 20, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60))
	stats, err := agg.Summary(context.Background(), "2025-03-15T02:00:00Z", ref)
	require.NoError(t, err)
	// 02:00 UTC 15 марта = 18:00 14 марта в UTC-8, тот же локальный день
	assert.Equal(t, 1, stats.DaysSinceUserCreation)
}

func TestAggregator_FutureDateGivesZero(t *testing.T) {
	agg, _ := newTestAggregator(t)
	ref := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	stats, err := agg.Summary(context.Background(), "2025-04-01", ref)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DaysSinceUserCreation)
}

func TestAggregator_MalformedCreatedAtIgnored(t *testing.T) {
	agg, _ := newTestAggregator(t)

	stats, err := agg.Summary(context.Background(), "not-a-date", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DaysSinceUserCreation)
}

func TestAggregator_RecomputeRewritesLog(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	// Дрейфовавший локальный журнал
	_, err := agg.Record(ctx, "2025-01-01", benchPress(models.Set{Reps: 100, Weight: 100}))
	require.NoError(t, err)

	snapshot := map[string][]models.ExerciseSets{
		"2025-03-10": benchPress(models.Set{Reps: 10, Weight: 40}),
		"2025-03-12": nil, // день без подходов не попадает в журнал
	}

	stats, err := agg.Recompute(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WorkoutsCompleted)
	assert.Equal(t, "2025-03-10", stats.FirstWorkoutDate)

	all, err := store.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	_, ok := all["2025-03-10"]
	assert.True(t, ok)
}

func TestAggregator_RemoveAndClear(t *testing.T) {
	agg, _ := newTestAggregator(t)
	ctx := context.Background()

	_, err := agg.Record(ctx, "2025-03-10", benchPress(models.Set{Reps: 1, Weight: 10}))
	require.NoError(t, err)
	_, err = agg.Record(ctx, "2025-03-11", benchPress(models.Set{Reps: 1, Weight: 10}))
	require.NoError(t, err)

	require.NoError(t, agg.Remove(ctx, "2025-03-10"))
	stats, err := agg.Summary(ctx, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WorkoutsCompleted)

	require.NoError(t, agg.Clear(ctx))
	stats, err = agg.Summary(ctx, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.WorkoutsCompleted)
}
