// Package stats считает статистику профиля по локальному журналу
// дневных сводок и умеет восстанавливать его из серверной правды.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/models"
)

//go:generate moq -out aggregator_mock.go . Aggregator

// Aggregator определяет интерфейс агрегатора статистики профиля
type Aggregator interface {
	// Record заменяет сводку дня по списку упражнений с подходами.
	// День без подходов удаляется из журнала, а не хранится нулем.
	Record(ctx context.Context, dateKey string, exercises []models.ExerciseSets) (*models.ProfileStats, error)

	// Recompute уничтожающе переписывает журнал из авторитетного снимка
	// (починка дрейфа после загрузки свежей серверной правды)
	Recompute(ctx context.Context, snapshot map[string][]models.ExerciseSets) (*models.ProfileStats, error)

	// Remove удаляет сводку дня
	Remove(ctx context.Context, dateKey string) error

	// Summary возвращает производную статистику на момент ref
	Summary(ctx context.Context, userCreatedAt string, ref time.Time) (*models.ProfileStats, error)

	// Clear очищает журнал целиком (logout)
	Clear(ctx context.Context) error
}

type aggregator struct {
	store  storage.SummaryStorage
	logger *slog.Logger
}

// NewAggregator создает агрегатор поверх журнала сводок
func NewAggregator(store storage.SummaryStorage, logger *slog.Logger) Aggregator {
	return &aggregator{
		store:  store,
		logger: logger,
	}
}

// Record заменяет сводку дня по списку упражнений с подходами
func (a *aggregator) Record(ctx context.Context, dateKey string, exercises []models.ExerciseSets) (*models.ProfileStats, error) {
	if dateKey == "" {
		return a.Summary(ctx, "", time.Now())
	}

	totalSets, totalWeight := parseSets(exercises)

	if totalSets == 0 {
		// "Нет тренировки в этот день" — отсутствие ключа
		if err := a.store.DeleteSummary(ctx, dateKey); err != nil {
			return nil, fmt.Errorf("failed to delete empty summary: %w", err)
		}
	} else {
		summary := &models.WorkoutSummary{
			TotalSets:   totalSets,
			TotalWeight: totalWeight,
			UpdatedAt:   time.Now(),
		}
		if err := a.store.SaveSummary(ctx, dateKey, summary); err != nil {
			return nil, fmt.Errorf("failed to save summary: %w", err)
		}
	}

	a.logger.Debug("day summary recorded",
		"date", dateKey, "total_sets", totalSets, "total_weight", totalWeight)

	return a.Summary(ctx, "", time.Now())
}

// Recompute уничтожающе переписывает журнал из авторитетного снимка.
// Результат не зависит от порядка обхода снимка.
func (a *aggregator) Recompute(ctx context.Context, snapshot map[string][]models.ExerciseSets) (*models.ProfileStats, error) {
	rebuilt := make(map[string]*models.WorkoutSummary, len(snapshot))
	now := time.Now()

	for dateKey, exercises := range snapshot {
		totalSets, totalWeight := parseSets(exercises)
		if totalSets == 0 {
			continue
		}
		rebuilt[dateKey] = &models.WorkoutSummary{
			TotalSets:   totalSets,
			TotalWeight: totalWeight,
			UpdatedAt:   now,
		}
	}

	if err := a.store.ReplaceSummaries(ctx, rebuilt); err != nil {
		return nil, fmt.Errorf("failed to rewrite summaries: %w", err)
	}

	a.logger.Info("profile stats recomputed from snapshot", "days", len(rebuilt))

	return a.Summary(ctx, "", now)
}

// Remove удаляет сводку дня
func (a *aggregator) Remove(ctx context.Context, dateKey string) error {
	return a.store.DeleteSummary(ctx, dateKey)
}

// Summary возвращает производную статистику на момент ref.
// Никогда не персистится, поэтому не может разойтись со своим журналом.
func (a *aggregator) Summary(ctx context.Context, userCreatedAt string, ref time.Time) (*models.ProfileStats, error) {
	summaries, err := a.store.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	stats := &models.ProfileStats{}

	if userCreatedAt != "" {
		stats.DaysSinceUserCreation = daysSince(userCreatedAt, ref)
	}

	var earliest string
	var totalWeight float64

	for date, summary := range summaries {
		if summary.TotalSets > 0 {
			stats.WorkoutsCompleted++
		}
		stats.TotalSets += summary.TotalSets
		totalWeight += summary.TotalWeight

		if earliest == "" || date < earliest {
			earliest = date
		}
	}

	stats.TotalWeight = round2(totalWeight)
	if earliest != "" {
		stats.FirstWorkoutDate = earliest
		stats.DaysSinceFirstWorkout = daysSince(earliest, ref)
	}

	return stats, nil
}

// Clear очищает журнал целиком
func (a *aggregator) Clear(ctx context.Context) error {
	return a.store.ReplaceSummaries(ctx, map[string]*models.WorkoutSummary{})
}

// parseSets суммирует подходы: каждый подход добавляет reps*weight
func parseSets(exercises []models.ExerciseSets) (int, float64) {
	totalSets := 0
	totalWeight := 0.0

	for _, exercise := range exercises {
		for _, set := range exercise.Sets {
			totalSets++
			totalWeight += float64(set.Reps) * set.Weight
		}
	}

	return totalSets, round2(totalWeight)
}

// round2 округляет вес до двух знаков
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// daysSince считает "дней с даты X" по соглашению "+1":
// сам день X считается первым днем, а не нулевым.
// Дата в будущем дает 0. Обе границы берутся в зоне ref, иначе
// восточнее UTC стартовый день уходил бы в минус и давал 0.
func daysSince(fromISO string, ref time.Time) int {
	from, err := parseDay(fromISO, ref.Location())
	if err != nil {
		return 0
	}

	start := startOfDay(from)
	end := startOfDay(ref)

	diff := int(math.Floor(end.Sub(start).Hours() / 24))
	if diff < 0 {
		return 0
	}
	return diff + 1
}

// parseDay принимает ISO дату и полные timestamp'ы (created_at с сервера),
// приводя результат к зоне loc
func parseDay(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
