package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapterHTTP "github.com/comitanigiacomo/kanso-dashboard/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
)

type queueSpy struct{ users []string }

func (q *queueSpy) Enqueue(userID string) { q.users = append(q.users, userID) }

type testServer struct {
	router *gin.Engine
	users  *repository.InMemoryUserRepository
	models *repository.InMemoryModelStore
	queue  *queueSpy
}

// newTestServer wires the full router over in-memory storage. Today is
// 2024-03-15.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }

	completions := repository.NewInMemoryCompletionRepository()
	habits := repository.NewInMemoryHabitRepository(completions)
	users := repository.NewInMemoryUserRepository()
	notes := repository.NewInMemoryNotificationRepository()
	models := repository.NewInMemoryModelStore()
	queue := &queueSpy{}

	tokens := services.NewTokenService("handler-test-secret", "kanso-test", time.Hour, users)
	notifier := services.NewNotificationService(notes, now)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(services.NewAuthService(users, tokens)),
		HabitHandler:        adapterHTTP.NewHabitHandler(services.NewHabitService(habits)),
		CompletionHandler:   adapterHTTP.NewCompletionHandler(services.NewCompletionService(completions, habits, queue)),
		StatsHandler:        adapterHTTP.NewStatsHandler(services.NewStatsService(habits, completions, notifier, now)),
		NotificationHandler: adapterHTTP.NewNotificationHandler(notifier),
		PredictionHandler:   adapterHTTP.NewPredictionHandler(services.NewPredictionService(habits, completions, models, now)),
		TokenService:        tokens,
		Logger:              zap.NewNop(),
		StartTime:           now(),
	})

	return &testServer{router: router, users: users, models: models, queue: queue}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login registers email and returns a bearer token for it.
func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "correct-horse"}

	w := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	decode(t, w, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *testServer) createHabit(t *testing.T, token, name string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/habits", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Success bool   `json:"success"`
		HabitID string `json:"habit_id"`
	}
	decode(t, w, &out)
	require.True(t, out.Success)
	return out.HabitID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func monthOf(t *testing.T, s *testServer, token, path string) domain.MonthData {
	t.Helper()
	w := s.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data domain.MonthData
	decode(t, w, &data)
	return data
}
