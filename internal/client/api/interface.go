package api

import (
	"context"

	"github.com/webtga/superstrong/internal/client/storage"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет интерфейс HTTP клиента для сервисов приложения
type ClientAPI interface {
	// SetBearerToken устанавливает токен авторизации для последующих запросов
	SetBearerToken(token string)

	// SetInitData устанавливает сырую строку Telegram init data,
	// передаваемую в заголовке X-Telegram-Init-Data
	SetInitData(raw string)

	// Get выполняет GET запрос с read-through кэшированием
	Get(ctx context.Context, path string, result any) error

	// Post выполняет POST запрос; при сетевом сбое запрос откладывается
	Post(ctx context.Context, path string, body, result any) error

	// Patch выполняет PATCH запрос; при сетевом сбое запрос откладывается
	Patch(ctx context.Context, path string, body, result any) error

	// Delete выполняет DELETE запрос; при сетевом сбое запрос откладывается
	Delete(ctx context.Context, path string, result any) error

	// Replay отправляет отложенный запрос без повторной постановки в очередь
	Replay(ctx context.Context, req *storage.PendingRequest) error
}
