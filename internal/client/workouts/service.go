// Package workouts работает с сохраненными тренировками: чтение по дням,
// создание сессий и оптимистичное удаление с откатом при неудаче.
package workouts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	httpClient "github.com/webtga/superstrong/internal/client/api"
	"github.com/webtga/superstrong/internal/client/optimistic"
	"github.com/webtga/superstrong/internal/client/stats"
	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/models"
	"github.com/webtga/superstrong/internal/telegram"
	"github.com/webtga/superstrong/internal/validation"
	pkgapi "github.com/webtga/superstrong/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс работы с тренировками
type Service interface {
	// SessionsForDate возвращает сессии за день и делает их базовым
	// состоянием для последующих оптимистичных мутаций
	SessionsForDate(ctx context.Context, dateKey string) ([]models.WorkoutSession, error)

	// AllDays возвращает даты, за которые есть тренировки
	AllDays(ctx context.Context) ([]string, error)

	// SessionExercises возвращает упражнения сохраненной сессии
	SessionExercises(ctx context.Context, sessionID string) ([]models.ExerciseSets, error)

	// CreateSession сохраняет новую сессию. При недоступном сервере запись
	// откладывается в очередь, а локальная сводка дня обновляется сразу
	CreateSession(ctx context.Context, dateKey string, exercises []models.ExerciseSets) (*CreateResult, error)

	// DeleteSession оптимистично удаляет сессию: она исчезает из видимого
	// состояния немедленно и возвращается обратно, если сервер отказал
	DeleteSession(ctx context.Context, dateKey, sessionID string) error

	// Snapshot собирает все тренировки по дням для пересчета статистики
	Snapshot(ctx context.Context) (map[string][]models.ExerciseSets, error)
}

type service struct {
	apiClient  httpClient.ClientAPI
	cache      storage.CacheStorage
	stats      stats.Aggregator
	bridge     telegram.Bridge
	logger     *slog.Logger
	controller *optimistic.Controller[[]models.WorkoutSession]
}

// NewService создает новый сервис тренировок
func NewService(apiClient httpClient.ClientAPI, cache storage.CacheStorage, aggregator stats.Aggregator, bridge telegram.Bridge, logger *slog.Logger) Service {
	return &service{
		apiClient:  apiClient,
		cache:      cache,
		stats:      aggregator,
		bridge:     bridge,
		logger:     logger,
		controller: optimistic.NewController[[]models.WorkoutSession](nil, logger),
	}
}

func datePath(dateKey string) string {
	return "/workouts?date=" + url.QueryEscape(dateKey)
}

// SessionsForDate возвращает сессии за день.
// Свежий ответ сервера становится базовым снимком контроллера,
// поэтому неподтвержденные удаления остаются видимыми поверх него.
func (s *service) SessionsForDate(ctx context.Context, dateKey string) ([]models.WorkoutSession, error) {
	if err := validation.ValidateDateKey(dateKey); err != nil {
		return nil, err
	}

	var sessions []pkgapi.WorkoutSession
	if err := s.apiClient.Get(ctx, datePath(dateKey), &sessions); err != nil {
		return nil, fmt.Errorf("failed to get workouts for %s: %w", dateKey, err)
	}

	base := make([]models.WorkoutSession, 0, len(sessions))
	for _, session := range sessions {
		base = append(base, models.WorkoutSession{
			ID:            session.ID,
			Date:          session.Date,
			StartedAt:     session.StartedAt,
			ExerciseCount: session.ExerciseCount,
		})
	}

	s.controller.Reset(base)
	return s.controller.View(), nil
}

// AllDays возвращает даты, за которые есть тренировки
func (s *service) AllDays(ctx context.Context) ([]string, error) {
	var days []string
	if err := s.apiClient.Get(ctx, "/workouts/days", &days); err != nil {
		return nil, fmt.Errorf("failed to get workout days: %w", err)
	}
	return days, nil
}

// SessionExercises возвращает упражнения сохраненной сессии
func (s *service) SessionExercises(ctx context.Context, sessionID string) ([]models.ExerciseSets, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id cannot be empty")
	}

	var exercises []pkgapi.WorkoutExercise
	path := "/workouts/" + url.PathEscape(sessionID) + "/exercises"
	if err := s.apiClient.Get(ctx, path, &exercises); err != nil {
		return nil, fmt.Errorf("failed to get session exercises: %w", err)
	}

	result := make([]models.ExerciseSets, 0, len(exercises))
	for _, exercise := range exercises {
		sets := make([]models.Set, 0, len(exercise.Sets))
		for _, set := range exercise.Sets {
			sets = append(sets, models.Set{Reps: set.Reps, Weight: set.Weight})
		}
		result = append(result, models.ExerciseSets{
			ExerciseID: exercise.ExerciseID,
			Name:       exercise.Name,
			Sets:       sets,
		})
	}

	return result, nil
}

// CreateResult содержит результат создания сессии
type CreateResult struct {
	SessionID string
	Queued    bool // запись отложена в очередь, сервер ее еще не видел
}

// CreateSession сохраняет новую сессию одной операцией.
// Локальная сводка дня обновляется и при успехе, и при отложенной
// записи: владелец данных — клиент, сервер догонит при sync
func (s *service) CreateSession(ctx context.Context, dateKey string, exercises []models.ExerciseSets) (*CreateResult, error) {
	if err := validation.ValidateDateKey(dateKey); err != nil {
		return nil, err
	}
	if err := validation.ValidateWorkout(exercises); err != nil {
		return nil, err
	}

	req := pkgapi.CreateWorkoutRequest{
		Date:      dateKey,
		StartedAt: time.Now(),
		Exercises: toPayload(exercises),
	}

	var resp pkgapi.CreateWorkoutResponse
	err := s.apiClient.Post(ctx, "/workouts", req, &resp)
	if err != nil {
		var srvErr *httpClient.ServerError
		if errors.As(err, &srvErr) {
			// Сервер отверг запрос: данные невалидны, локально не записываем
			return nil, fmt.Errorf("failed to create workout: %w", err)
		}

		// Сеть недоступна: запись уже в очереди повтора
		s.logger.Warn("workout queued for later sync", "date", dateKey, "error", err)
		if recordErr := s.recordDayLocal(ctx, dateKey, exercises); recordErr != nil {
			s.logger.Warn("failed to record day summary", "date", dateKey, "error", recordErr)
		}
		return &CreateResult{Queued: true}, nil
	}

	s.invalidateDay(ctx, dateKey)
	if err := s.refreshDaySummary(ctx, dateKey, exercises); err != nil {
		s.logger.Warn("failed to refresh day summary", "date", dateKey, "error", err)
	}

	return &CreateResult{SessionID: resp.ID}, nil
}

// DeleteSession оптимистично удаляет сессию
func (s *service) DeleteSession(ctx context.Context, dateKey, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	mutation := optimistic.Mutation[[]models.WorkoutSession]{
		Apply: func(sessions []models.WorkoutSession) []models.WorkoutSession {
			kept := make([]models.WorkoutSession, 0, len(sessions))
			for _, session := range sessions {
				if session.ID != sessionID {
					kept = append(kept, session)
				}
			}
			return kept
		},
		Commit: func(ctx context.Context) error {
			path := "/workouts/" + url.PathEscape(sessionID)
			var resp pkgapi.StatusResponse
			return s.apiClient.Delete(ctx, path, &resp)
		},
		Reconcile: func(ctx context.Context) error {
			s.invalidateDay(ctx, dateKey)
			return s.refreshDaySummary(ctx, dateKey, nil)
		},
		OnError: func(err error) {
			s.bridge.Alert("Не удалось удалить тренировку, изменение отменено")
		},
	}

	if err := s.controller.Run(ctx, mutation); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil
}

// Snapshot собирает все тренировки по дням для пересчета статистики
func (s *service) Snapshot(ctx context.Context) (map[string][]models.ExerciseSets, error) {
	days, err := s.AllDays(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string][]models.ExerciseSets, len(days))
	for _, day := range days {
		exercises, err := s.dayExercises(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to collect day %s: %w", day, err)
		}
		snapshot[day] = exercises
	}

	return snapshot, nil
}

// dayExercises собирает упражнения всех сессий дня в один список
func (s *service) dayExercises(ctx context.Context, dateKey string) ([]models.ExerciseSets, error) {
	var sessions []pkgapi.WorkoutSession
	if err := s.apiClient.Get(ctx, datePath(dateKey), &sessions); err != nil {
		return nil, err
	}

	var all []models.ExerciseSets
	for _, session := range sessions {
		exercises, err := s.SessionExercises(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, exercises...)
	}

	return all, nil
}

// refreshDaySummary пересчитывает сводку дня из серверной правды.
// Если день недоступен, а локальный fallback передан — записывает его.
func (s *service) refreshDaySummary(ctx context.Context, dateKey string, fallback []models.ExerciseSets) error {
	exercises, err := s.dayExercises(ctx, dateKey)
	if err != nil {
		if fallback == nil {
			return err
		}
		s.logger.Warn("day unavailable, recording local view", "date", dateKey, "error", err)
		exercises = fallback
	}

	_, err = s.stats.Record(ctx, dateKey, exercises)
	return err
}

// recordDayLocal записывает сводку дня только из локальных данных
func (s *service) recordDayLocal(ctx context.Context, dateKey string, exercises []models.ExerciseSets) error {
	_, err := s.stats.Record(ctx, dateKey, exercises)
	return err
}

// invalidateDay сбрасывает кэши чтения, которые устаревают после мутации
func (s *service) invalidateDay(ctx context.Context, dateKey string) {
	for _, path := range []string{datePath(dateKey), "/workouts/days"} {
		if err := s.cache.DeleteCache(ctx, path); err != nil {
			s.logger.Debug("failed to invalidate cache", "path", path, "error", err)
		}
	}
}

func toPayload(exercises []models.ExerciseSets) []pkgapi.ExercisePayload {
	payload := make([]pkgapi.ExercisePayload, 0, len(exercises))
	for _, exercise := range exercises {
		sets := make([]pkgapi.SetPayload, 0, len(exercise.Sets))
		for _, set := range exercise.Sets {
			sets = append(sets, pkgapi.SetPayload{Reps: set.Reps, Weight: set.Weight})
		}
		payload = append(payload, pkgapi.ExercisePayload{
			ExerciseID: exercise.ExerciseID,
			Sets:       sets,
		})
	}
	return payload
}
