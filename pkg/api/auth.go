package api

import "time"

// TelegramAuthRequest представляет запрос обмена Telegram init data на токен доступа
type TelegramAuthRequest struct {
	InitData string `json:"init_data"` // сырая строка initData из Telegram WebApp
}

// TokenResponse представляет ответ сервера с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	TokenType   string `json:"token_type"`   // обычно "bearer"
	ExpiresIn   int64  `json:"expires_in"`   // время жизни токена в секундах
	User        *User  `json:"user"`         // данные пользователя
}

// User представляет пользователя так, как его отдаёт workout-backend
type User struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	TelegramID *int64    `json:"telegram_id,omitempty"`
	ID         int64     `json:"id"`
}

// CreateUserRequest представляет запрос на создание пользователя
// при ручном вводе имени (браузерный режим без Telegram)
type CreateUserRequest struct {
	Username   string `json:"username"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	TelegramID *int64 `json:"telegram_id,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
// Backend отдаёт либо {error, message}, либо FastAPI-стиль {detail}
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Text возвращает наиболее информативное описание ошибки из ответа
func (e *ErrorResponse) Text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Detail != "":
		return e.Detail
	default:
		return e.Error
	}
}
