package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/webtga/superstrong/internal/client/api"
	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/client/storage/boltdb"
	"github.com/webtga/superstrong/internal/models"
	pkgapi "github.com/webtga/superstrong/pkg/api"
)

// fakeBridge подменяет среду Telegram в тестах
type fakeBridge struct {
	initData string
}

func (f *fakeBridge) User() *models.TelegramUser   { return nil }
func (f *fakeBridge) InitData() string             { return f.initData }
func (f *fakeBridge) Alert(string)                 {}
func (f *fakeBridge) Confirm(string) (bool, error) { return true, nil }

func testInitData() string {
	values := url.Values{}
	values.Set("query_id", "AAA")
	values.Set("auth_date", "1741950000")
	values.Set("hash", "abc")
	return values.Encode()
}

func newTestAuth(t *testing.T, serverURL, initData string) (Service, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.DiscardHandler)
	client := httpClient.NewClient(serverURL, store, store, logger)
	svc := NewService(client, store, store, &fakeBridge{initData: initData}, logger)

	return svc, store
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestResolve_SavedSessionWins(t *testing.T) {
	svc, store := newTestAuth(t, "http://unused.local", testInitData())
	ctx := context.Background()

	saved := &storage.UserSession{UserID: 42, Username: "alice", SavedAt: time.Now()}
	require.NoError(t, store.SaveSession(ctx, saved))

	session, err := svc.Resolve(ctx)
	require.NoError(t, err)
	// Сессия из хранилища, сервер не опрашивался
	assert.Equal(t, int64(42), session.UserID)
	assert.Equal(t, "alice", session.Username)
}

func TestResolve_FallsBackToTelegram(t *testing.T) {
	token := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/auth/telegram", r.URL.Path)

		var req pkgapi.TelegramAuthRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testInitData(), req.InitData)

		_ = json.NewEncoder(w).Encode(pkgapi.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   3600,
			User: &pkgapi.User{
				ID:        42,
				Username:  "alice",
				CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		})
	}))
	defer server.Close()

	svc, store := newTestAuth(t, server.URL, testInitData())
	ctx := context.Background()
	token = signedToken(t, time.Now().Add(time.Hour))

	session, err := svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), session.UserID)
	assert.Equal(t, token, session.AccessToken)

	// Сессия сохранилась для следующих запусков
	saved, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", saved.Username)
}

func TestResolve_NoIdentity(t *testing.T) {
	svc, _ := newTestAuth(t, "http://unused.local", "")

	_, err := svc.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestLoginUsername_ExistingUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GET", r.Method)
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "bob", r.URL.Query().Get("username"))

		_ = json.NewEncoder(w).Encode(pkgapi.User{ID: 7, Username: "bob"})
	}))
	defer server.Close()

	svc, _ := newTestAuth(t, server.URL, "")

	session, err := svc.LoginUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.UserID)
	assert.Empty(t, session.AccessToken)
}

func TestLoginUsername_CreatesMissingUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail": "user not found"}`))
		case "POST":
			require.Equal(t, "/users", r.URL.Path)
			var req pkgapi.CreateUserRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "charlie", req.Username)
			_ = json.NewEncoder(w).Encode(pkgapi.User{ID: 9, Username: "charlie"})
		}
	}))
	defer server.Close()

	svc, _ := newTestAuth(t, server.URL, "")

	session, err := svc.LoginUsername(context.Background(), "charlie")
	require.NoError(t, err)
	assert.Equal(t, int64(9), session.UserID)
}

func TestLoginUsername_InvalidUsername(t *testing.T) {
	svc, _ := newTestAuth(t, "http://unused.local", "")

	_, err := svc.LoginUsername(context.Background(), "a b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid username")
}

func TestStatus_NotAuthenticated(t *testing.T) {
	svc, _ := newTestAuth(t, "http://unused.local", "")

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
}

func TestStatus_TokenExpiry(t *testing.T) {
	svc, store := newTestAuth(t, "http://unused.local", "")
	ctx := context.Background()

	expiresAt := time.Now().Add(-time.Minute)
	session := &storage.UserSession{
		UserID:      42,
		Username:    "alice",
		AccessToken: signedToken(t, expiresAt),
		SavedAt:     time.Now(),
	}
	require.NoError(t, store.SaveSession(ctx, session))

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.True(t, status.TokenPresent)
	assert.True(t, status.TokenExpired)
	assert.WithinDuration(t, expiresAt, status.TokenExpiresAt, time.Second)
}

func TestStatus_SessionWithoutToken(t *testing.T) {
	svc, store := newTestAuth(t, "http://unused.local", "")
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &storage.UserSession{UserID: 7, Username: "bob"}))

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.False(t, status.TokenPresent)
	assert.False(t, status.TokenExpired)
}

func TestLogout(t *testing.T) {
	svc, store := newTestAuth(t, "http://unused.local", "")
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &storage.UserSession{UserID: 42, Username: "alice"}))
	// Кэшированный ответ прежнего пользователя
	require.NoError(t, store.SetCache(ctx, "/workouts?date=2025-03-14", json.RawMessage(`[{"id":"s1"}]`), 0))

	require.NoError(t, svc.Logout(ctx))

	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Следующий пользователь не должен получить чужие тренировки из кэша
	_, err = store.GetCache(ctx, "/workouts?date=2025-03-14")
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}
