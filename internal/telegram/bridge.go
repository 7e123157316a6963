package telegram

import (
	"log/slog"
	"strings"

	"github.com/webtga/superstrong/internal/client/iocli"
	"github.com/webtga/superstrong/internal/models"
)

//go:generate moq -out bridge_mock.go . Bridge

// Bridge определяет интерфейс среды Telegram:
// данные пользователя и диалоги подтверждения.
// Вне Telegram используется консольная замена.
type Bridge interface {
	// User возвращает пользователя из init data, если он есть
	User() *models.TelegramUser

	// InitData возвращает сырую строку init data ("" вне Telegram)
	InitData() string

	// Alert показывает уведомление пользователю
	Alert(message string)

	// Confirm запрашивает подтверждение действия
	Confirm(message string) (bool, error)
}

type consoleBridge struct {
	data   *InitData
	io     iocli.IO
	logger *slog.Logger
}

// NewConsoleBridge создает мост поверх терминала. Строка init data
// необязательна: без нее User и InitData возвращают пустые значения,
// а диалоги работают через stdin/stdout.
func NewConsoleBridge(rawInitData string, io iocli.IO, logger *slog.Logger) Bridge {
	bridge := &consoleBridge{
		io:     io,
		logger: logger,
	}

	if rawInitData != "" {
		data, err := ParseInitData(rawInitData)
		if err != nil {
			logger.Warn("ignoring malformed init data", "error", err)
		} else {
			bridge.data = data
		}
	}

	return bridge
}

func (b *consoleBridge) User() *models.TelegramUser {
	if b.data == nil {
		return nil
	}
	return b.data.User
}

func (b *consoleBridge) InitData() string {
	if b.data == nil {
		return ""
	}
	return b.data.Raw
}

func (b *consoleBridge) Alert(message string) {
	b.io.Printf("⚠ %s\n", message)
}

func (b *consoleBridge) Confirm(message string) (bool, error) {
	answer, err := b.io.ReadInput(message + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
