package workouts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/webtga/superstrong/internal/client/api"
	"github.com/webtga/superstrong/internal/client/stats"
	"github.com/webtga/superstrong/internal/client/storage"
	"github.com/webtga/superstrong/internal/client/storage/boltdb"
	"github.com/webtga/superstrong/internal/models"
	pkgapi "github.com/webtga/superstrong/pkg/api"
)

type fakeBridge struct {
	alerts []string
}

func (f *fakeBridge) User() *models.TelegramUser { return nil }

func (f *fakeBridge) InitData() string { return "" }

func (f *fakeBridge) Alert(message string) { f.alerts = append(f.alerts, message) }

func (f *fakeBridge) Confirm(string) (bool, error) { return true, nil }

type testEnv struct {
	svc    Service
	store  *boltdb.Storage
	bridge *fakeBridge
	agg    stats.Aggregator
}

func newTestEnv(t *testing.T, handler http.Handler) (*testEnv, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.DiscardHandler)
	client := httpClient.NewClient(server.URL, store, store, logger)
	aggregator := stats.NewAggregator(store, logger)
	bridge := &fakeBridge{}

	return &testEnv{
		svc:    NewService(client, store, aggregator, bridge, logger),
		store:  store,
		bridge: bridge,
		agg:    aggregator,
	}, server
}

func sampleSessions() []pkgapi.WorkoutSession {
	return []pkgapi.WorkoutSession{
		{ID: "s1", Date: "2025-03-14", StartedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC), ExerciseCount: 2},
		{ID: "s2", Date: "2025-03-14", StartedAt: time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC), ExerciseCount: 1},
	}
}

func TestSessionsForDate(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/workouts", r.URL.Path)
		require.Equal(t, "2025-03-14", r.URL.Query().Get("date"))
		_ = json.NewEncoder(w).Encode(sampleSessions())
	}))

	sessions, err := env.svc.SessionsForDate(context.Background(), "2025-03-14")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, 2, sessions[0].ExerciseCount)
}

func TestSessionsForDate_InvalidDate(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	}))

	_, err := env.svc.SessionsForDate(context.Background(), "14.03.2025")
	assert.Error(t, err)
}

func TestSessionExercises(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/workouts/s1/exercises", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutExercise{
			{ID: "we1", ExerciseID: "10", Name: "Жим", Sets: []pkgapi.SetPayload{{Reps: 10, Weight: 50}}},
		})
	}))

	exercises, err := env.svc.SessionExercises(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "10", exercises[0].ExerciseID)
	assert.Equal(t, []models.Set{{Reps: 10, Weight: 50}}, exercises[0].Sets)
}

func TestCreateSession_RecordsDaySummary(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/workouts":
			var req pkgapi.CreateWorkoutRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "2025-03-14", req.Date)
			require.Len(t, req.Exercises, 1)
			_ = json.NewEncoder(w).Encode(pkgapi.CreateWorkoutResponse{ID: "s-new", Success: true})
		case r.Method == "GET" && r.URL.Path == "/workouts":
			_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutSession{{ID: "s-new", Date: "2025-03-14"}})
		case r.Method == "GET" && r.URL.Path == "/workouts/s-new/exercises":
			_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutExercise{
				{ExerciseID: "10", Sets: []pkgapi.SetPayload{{Reps: 10, Weight: 50}, {Reps: 8, Weight: 55}}},
			})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	ctx := context.Background()

	exercises := []models.ExerciseSets{
		{ExerciseID: "10", Sets: []models.Set{{Reps: 10, Weight: 50}, {Reps: 8, Weight: 55}}},
	}

	result, err := env.svc.CreateSession(ctx, "2025-03-14", exercises)
	require.NoError(t, err)
	assert.Equal(t, "s-new", result.SessionID)
	assert.False(t, result.Queued)

	// Сводка дня пересчитана из серверной правды
	summary, err := env.store.GetSummary(ctx, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalSets)
	assert.InDelta(t, 940.0, summary.TotalWeight, 0.001)
}

func TestCreateSession_OfflineQueuesAndRecordsLocally(t *testing.T) {
	env, server := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	ctx := context.Background()

	exercises := []models.ExerciseSets{
		{ExerciseID: "10", Sets: []models.Set{{Reps: 5, Weight: 100}}},
	}

	result, err := env.svc.CreateSession(ctx, "2025-03-14", exercises)
	require.NoError(t, err)
	assert.True(t, result.Queued)

	// Запись в очереди повтора
	pending, err := env.store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "POST", pending[0].Method)
	assert.Equal(t, "/workouts", pending[0].Path)

	// Локальная сводка записана без сервера
	summary, err := env.store.GetSummary(ctx, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalSets)
}

func TestCreateSession_ServerRejectionNotRecorded(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "bad workout"}`))
	}))
	ctx := context.Background()

	exercises := []models.ExerciseSets{
		{ExerciseID: "10", Sets: []models.Set{{Reps: 5, Weight: 100}}},
	}

	_, err := env.svc.CreateSession(ctx, "2025-03-14", exercises)
	require.Error(t, err)

	// Отказ сервера не оставляет следов ни в очереди, ни в журнале
	pending, err := env.store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = env.store.GetSummary(ctx, "2025-03-14")
	assert.ErrorIs(t, err, storage.ErrSummaryNotFound)
}

func TestCreateSession_ValidationFailsFast(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	}))

	_, err := env.svc.CreateSession(context.Background(), "2025-03-14", nil)
	require.Error(t, err)

	_, err = env.svc.CreateSession(context.Background(), "2025-03-14", []models.ExerciseSets{
		{ExerciseID: "10", Sets: []models.Set{{Reps: 0, Weight: 10}}},
	})
	require.Error(t, err)
}

func TestDeleteSession_Optimistic(t *testing.T) {
	deleted := false
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/workouts":
			if deleted {
				_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutSession{sampleSessions()[1]})
			} else {
				_ = json.NewEncoder(w).Encode(sampleSessions())
			}
		case r.Method == "DELETE" && r.URL.Path == "/workouts/s1":
			deleted = true
			_ = json.NewEncoder(w).Encode(pkgapi.StatusResponse{Success: true})
		case r.Method == "GET" && r.URL.Path == "/workouts/s2/exercises":
			_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutExercise{
				{ExerciseID: "11", Sets: []pkgapi.SetPayload{{Reps: 12, Weight: 30}}},
			})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	ctx := context.Background()

	_, err := env.svc.SessionsForDate(ctx, "2025-03-14")
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteSession(ctx, "2025-03-14", "s1"))
	assert.Empty(t, env.bridge.alerts)

	// Сводка дня пересчитана по оставшейся сессии
	summary, err := env.store.GetSummary(ctx, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalSets)
	assert.InDelta(t, 360.0, summary.TotalWeight, 0.001)
}

func TestDeleteSession_FailureRollsBackAndAlerts(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/workouts":
			_ = json.NewEncoder(w).Encode(sampleSessions())
		case r.Method == "DELETE":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "boom"}`))
		}
	}))
	ctx := context.Background()

	sessions, err := env.svc.SessionsForDate(ctx, "2025-03-14")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	err = env.svc.DeleteSession(ctx, "2025-03-14", "s1")
	require.Error(t, err)
	require.Len(t, env.bridge.alerts, 1)
	assert.Contains(t, env.bridge.alerts[0], "Не удалось удалить")
}

func TestSnapshot(t *testing.T) {
	env, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/workouts/days":
			_ = json.NewEncoder(w).Encode([]string{"2025-03-10", "2025-03-14"})
		case r.URL.Path == "/workouts" && r.URL.Query().Get("date") == "2025-03-10":
			_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutSession{{ID: "a", Date: "2025-03-10"}})
		case r.URL.Path == "/workouts" && r.URL.Query().Get("date") == "2025-03-14":
			_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutSession{{ID: "b", Date: "2025-03-14"}})
		case r.URL.Path == "/workouts/a/exercises":
			_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutExercise{
				{ExerciseID: "1", Sets: []pkgapi.SetPayload{{Reps: 10, Weight: 40}}},
			})
		case r.URL.Path == "/workouts/b/exercises":
			_ = json.NewEncoder(w).Encode([]pkgapi.WorkoutExercise{
				{ExerciseID: "2", Sets: []pkgapi.SetPayload{{Reps: 5, Weight: 80}}},
			})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	snapshot, err := env.svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "1", snapshot["2025-03-10"][0].ExerciseID)
	assert.Equal(t, "2", snapshot["2025-03-14"][0].ExerciseID)
}
