package storage

import (
	"context"
	"time"
)

//go:generate moq -out session_mock.go . SessionStorage

// UserSession represents the resolved user identity persisted between runs.
// Created at first successful identity resolution, destroyed at logout.
type UserSession struct {
	CreatedAt   time.Time `json:"created_at"`
	SavedAt     time.Time `json:"saved_at"`
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token,omitempty"`
	InitData    string    `json:"init_data,omitempty"`
	TelegramID  *int64    `json:"telegram_id,omitempty"`
	UserID      int64     `json:"user_id"`
}

// SessionStorage defines interface for the saved user session
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one
	SaveSession(ctx context.Context, session *UserSession) error

	// GetSession returns the saved session.
	// Returns ErrSessionNotFound if none exists or the value is corrupted.
	GetSession(ctx context.Context) (*UserSession, error)

	// DeleteSession removes the saved session (logout)
	DeleteSession(ctx context.Context) error
}
