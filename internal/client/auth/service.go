// Package auth разрешает идентичность пользователя: сохраненная сессия,
// обмен Telegram init data на токен или ручной ввод имени.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	httpClient "github.com/webtga/superstrong/internal/client/api"
	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/telegram"
	"github.com/webtga/superstrong/internal/validation"
	pkgapi "github.com/webtga/superstrong/pkg/api"
)

// ErrNoIdentity возвращается, когда нет ни сессии, ни init data:
// пользователь должен представиться вручную
var ErrNoIdentity = errors.New("no identity available, login required")

type service struct {
	apiClient httpClient.ClientAPI
	sessions  storage.SessionStorage
	cache     storage.CacheStorage
	bridge    telegram.Bridge
	logger    *slog.Logger
}

// NewService создает новый сервис идентичности
func NewService(apiClient httpClient.ClientAPI, sessions storage.SessionStorage, cache storage.CacheStorage, bridge telegram.Bridge, logger *slog.Logger) Service {
	return &service{
		apiClient: apiClient,
		sessions:  sessions,
		cache:     cache,
		bridge:    bridge,
		logger:    logger,
	}
}

// Resolve возвращает текущую идентичность, пробуя источники по порядку:
// 1. Сохраненная сессия
// 2. Telegram init data из среды хоста
// 3. ErrNoIdentity (нужен ручной login)
func (s *service) Resolve(ctx context.Context) (*storage.UserSession, error) {
	session, err := s.sessions.GetSession(ctx)
	if err == nil {
		s.applySession(session)
		return session, nil
	}
	if !errors.Is(err, storage.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to read saved session: %w", err)
	}

	if raw := s.bridge.InitData(); raw != "" {
		return s.LoginTelegram(ctx, raw)
	}

	return nil, ErrNoIdentity
}

// LoginTelegram обменивает init data на токен доступа и сохраняет сессию
func (s *service) LoginTelegram(ctx context.Context, rawInitData string) (*storage.UserSession, error) {
	if _, err := telegram.ParseInitData(rawInitData); err != nil {
		return nil, fmt.Errorf("invalid init data: %w", err)
	}

	req := pkgapi.TelegramAuthRequest{InitData: rawInitData}

	var resp pkgapi.TokenResponse
	if err := s.apiClient.Post(ctx, "/auth/telegram", req, &resp); err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("telegram auth response has no user")
	}

	session := &storage.UserSession{
		UserID:      resp.User.ID,
		Username:    resp.User.Username,
		TelegramID:  resp.User.TelegramID,
		AccessToken: resp.AccessToken,
		InitData:    rawInitData,
		CreatedAt:   resp.User.CreatedAt,
		SavedAt:     time.Now(),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.applySession(session)
	s.logger.Info("logged in via telegram", "user_id", session.UserID, "username", session.Username)

	return session, nil
}

// LoginUsername находит или создает пользователя по имени.
// Сессия сохраняется без токена: запросы идут от имени пользователя
// без авторизационного заголовка (браузерный режим)
func (s *service) LoginUsername(ctx context.Context, username string) (*storage.UserSession, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	user, err := s.findOrCreateUser(ctx, username)
	if err != nil {
		return nil, err
	}

	session := &storage.UserSession{
		UserID:     user.ID,
		Username:   user.Username,
		TelegramID: user.TelegramID,
		CreatedAt:  user.CreatedAt,
		SavedAt:    time.Now(),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.applySession(session)
	s.logger.Info("logged in by username", "user_id", session.UserID, "username", session.Username)

	return session, nil
}

func (s *service) findOrCreateUser(ctx context.Context, username string) (*pkgapi.User, error) {
	var user pkgapi.User

	path := "/users?username=" + url.QueryEscape(username)
	err := s.apiClient.Get(ctx, path, &user)
	if err == nil {
		return &user, nil
	}

	var srvErr *httpClient.ServerError
	if !errors.As(err, &srvErr) || srvErr.Status != http.StatusNotFound {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	req := pkgapi.CreateUserRequest{Username: username}
	if err := s.apiClient.Post(ctx, "/users", req, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Status содержит состояние сохраненной сессии
type Status struct {
	TokenExpiresAt time.Time
	Username       string
	TelegramID     *int64
	UserID         int64
	Authenticated  bool
	TokenPresent   bool
	TokenExpired   bool
}

// Status возвращает состояние сохраненной сессии.
// Срок жизни токена читается из JWT claims без проверки подписи:
// ключ подписи есть только у сервера, клиенту хватает exp
func (s *service) Status(ctx context.Context) (*Status, error) {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return &Status{}, nil
		}
		return nil, fmt.Errorf("failed to read saved session: %w", err)
	}

	status := &Status{
		Authenticated: true,
		Username:      session.Username,
		UserID:        session.UserID,
		TelegramID:    session.TelegramID,
		TokenPresent:  session.AccessToken != "",
	}

	if status.TokenPresent {
		expiresAt, err := tokenExpiry(session.AccessToken)
		if err != nil {
			s.logger.Debug("cannot read token expiry", "error", err)
		} else {
			status.TokenExpiresAt = expiresAt
			status.TokenExpired = time.Now().After(expiresAt)
		}
	}

	return status, nil
}

// Logout удаляет сохраненную сессию и кэш ответов.
// Кэш ключуется путем запроса, без очистки следующий пользователь
// этой машины получил бы офлайн чужие тренировки.
func (s *service) Logout(ctx context.Context) error {
	if err := s.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := s.cache.ClearCache(ctx); err != nil {
		return fmt.Errorf("failed to clear response cache: %w", err)
	}
	s.apiClient.SetBearerToken("")
	s.apiClient.SetInitData("")
	return nil
}

// applySession прокидывает учетные данные сессии в HTTP клиент
func (s *service) applySession(session *storage.UserSession) {
	if session.AccessToken != "" {
		s.apiClient.SetBearerToken(session.AccessToken)
	}
	if session.InitData != "" {
		s.apiClient.SetInitData(session.InitData)
	}
}

func tokenExpiry(accessToken string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiration claim")
	}

	return exp.Time, nil
}
