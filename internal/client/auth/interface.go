package auth

import (
	"context"

	"github.com/webtga/superstrong/internal/client/storage"
)

//go:generate moq -out service_mock.go . Service

// Service defines the main interface for identity operations.
// Идентичность разрешается в порядке: сохраненная сессия →
// Telegram init data → ручной ввод имени пользователя.
type Service interface {
	// Resolve возвращает текущую идентичность, пробуя источники по порядку.
	// Возвращает ErrNoIdentity, если ни один источник не сработал
	Resolve(ctx context.Context) (*storage.UserSession, error)

	// LoginTelegram обменивает init data на токен доступа и сохраняет сессию
	LoginTelegram(ctx context.Context, rawInitData string) (*storage.UserSession, error)

	// LoginUsername находит или создает пользователя по имени (браузерный
	// режим без Telegram) и сохраняет сессию без токена
	LoginUsername(ctx context.Context, username string) (*storage.UserSession, error)

	// Status возвращает состояние сохраненной сессии
	Status(ctx context.Context) (*Status, error)

	// Logout удаляет сохраненную сессию
	Logout(ctx context.Context) error
}
