// Package sync воспроизводит отложенные офлайн-записи на сервер
// в порядке их постановки в очередь.
package sync

import (
	"context"
	"fmt"
	"log/slog"

	httpClient "github.com/webtga/superstrong/internal/client/api"
	"github.com/webtga/superstrong/internal/client/storage"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для sync.Service
type Service interface {
	// Drain воспроизводит все отложенные записи в порядке FIFO.
	// Успешные удаляются из очереди по одной, неудачные остаются
	// на следующую попытку.
	Drain(ctx context.Context) (*Result, error)

	// PendingCount возвращает количество записей, ожидающих отправки
	PendingCount(ctx context.Context) (int, error)
}

type service struct {
	apiClient httpClient.ClientAPI
	queue     storage.QueueStorage
	logger    *slog.Logger
}

// NewService creates a new sync service
func NewService(apiClient httpClient.ClientAPI, queue storage.QueueStorage, logger *slog.Logger) Service {
	return &service{
		apiClient: apiClient,
		queue:     queue,
		logger:    logger,
	}
}

// Result contains replay results
type Result struct {
	Synced int // количество успешно отправленных записей
	Failed int // количество записей, оставшихся в очереди
}

// Drain воспроизводит отложенные записи строго в порядке постановки.
// Каждая запись удаляется из очереди сразу после успешной отправки,
// поэтому сбой на середине не теряет и не дублирует оставшиеся.
func (s *service) Drain(ctx context.Context) (*Result, error) {
	pending, err := s.queue.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	result := &Result{}

	if len(pending) == 0 {
		s.logger.Debug("No pending requests to replay")
		return result, nil
	}

	s.logger.Info("Replaying pending requests", "count", len(pending))

	for _, req := range pending {
		if err := s.apiClient.Replay(ctx, req); err != nil {
			s.logger.Warn("Failed to replay pending request",
				"method", req.Method,
				"path", req.Path,
				"error", err)
			result.Failed++
			continue
		}

		if err := s.queue.DeletePending(ctx, req.Seq); err != nil {
			// Запись ушла на сервер, но осталась в очереди: повтор
			// при следующем drain. Сервер должен переживать дубликаты.
			s.logger.Warn("Failed to dequeue replayed request",
				"seq", req.Seq,
				"error", err)
		}

		result.Synced++
	}

	s.logger.Info("Replay completed",
		"synced", result.Synced,
		"failed", result.Failed)

	return result, nil
}

// PendingCount возвращает количество записей, ожидающих отправки
func (s *service) PendingCount(ctx context.Context) (int, error) {
	pending, err := s.queue.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return len(pending), nil
}
