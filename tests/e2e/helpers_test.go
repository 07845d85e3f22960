//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/baloria-app/baloria-backend/internal/adapter/postgres"
	answerrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/answer"
	badgerepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/badge"
	challengerepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/challenge"
	notificationrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/notification"
	questionrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/question"
	statsrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/stats"
	"github.com/baloria-app/baloria-backend/internal/adapter/postgres/testhelper"
	userrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/user"
	authpkg "github.com/baloria-app/baloria-backend/internal/auth"
	"github.com/baloria-app/baloria-backend/internal/config"
	answersvc "github.com/baloria-app/baloria-backend/internal/service/answer"
	authsvc "github.com/baloria-app/baloria-backend/internal/service/auth"
	gamificationsvc "github.com/baloria-app/baloria-backend/internal/service/gamification"
	leaderboardsvc "github.com/baloria-app/baloria-backend/internal/service/leaderboard"
	notificationsvc "github.com/baloria-app/baloria-backend/internal/service/notification"
	questionsvc "github.com/baloria-app/baloria-backend/internal/service/question"
	quotasvc "github.com/baloria-app/baloria-backend/internal/service/quota"
	trendingsvc "github.com/baloria-app/baloria-backend/internal/service/trending"
	usersvc "github.com/baloria-app/baloria-backend/internal/service/user"
	"github.com/baloria-app/baloria-backend/internal/transport/middleware"
	"github.com/baloria-app/baloria-backend/internal/transport/rest"
	"github.com/baloria-app/baloria-backend/internal/transport/ws"
)

// Quota limits are kept small so exhaustion tests stay cheap. Every other
// knob mirrors the production defaults.
const (
	testQuestionsPerDay = 3
	testAnswersPerDay   = 5
	testQuestionPoints  = 5
	testAnswerPoints    = 10
	testHeartPoints     = 2
)

// testServer wraps the full REST stack for E2E tests. The services are
// exposed so tests can seed state that has no write endpoint (badge catalog,
// daily challenges).
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool

	jwt          *authpkg.JWTManager
	badges       *badgerepo.Repo
	gamification *gamificationsvc.Service
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txManager := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	questions := questionrepo.New(pool)
	answers := answerrepo.New(pool)
	stats := statsrepo.New(pool)
	badges := badgerepo.New(pool)
	challenges := challengerepo.New(pool)
	notifications := notificationrepo.New(pool)

	hub := ws.NewHub(logger)

	jwtManager := authpkg.NewJWTManager("test-secret-at-least-32-chars-long!!", "test-issuer", 15*time.Minute)

	authService := authsvc.NewService(logger, users, stats, jwtManager, txManager, authsvc.Config{
		PasswordHashCost: 4,
	})
	userService := usersvc.NewService(logger, users)
	quotaService := quotasvc.NewService(logger, users, questions, answers, badges, quotasvc.Config{
		QuestionsPerDay: testQuestionsPerDay,
		AnswersPerDay:   testAnswersPerDay,
		DefaultTimezone: "Europe/Amsterdam",
	})
	gamificationService := gamificationsvc.NewService(
		logger, stats, badges, challenges, notifications, users, txManager,
		gamificationsvc.Config{
			QuestionPoints:  testQuestionPoints,
			AnswerPoints:    testAnswerPoints,
			HeartPoints:     testHeartPoints,
			DefaultTimezone: "Europe/Amsterdam",
		},
	)
	questionService := questionsvc.NewService(
		logger, questions, answers, quotaService, gamificationService,
		notifications, users, txManager,
	)
	answerService := answersvc.NewService(
		logger, answers, questions, quotaService, gamificationService,
		notifications, users, txManager,
	)
	leaderboardService := leaderboardsvc.NewService(logger, stats, 25)
	trendingService := trendingsvc.NewService(logger, questions, trendingsvc.Config{
		Threshold: 0.1,
		Limit:     10,
		Window:    168 * time.Hour,
	})
	notificationService := notificationsvc.NewService(logger, notifications, users, hub)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rateLimiter.Stop)

	router := rest.NewRouter(rest.RouterConfig{
		Auth:         rest.NewAuthHandler(authService, logger),
		User:         rest.NewUserHandler(userService, logger),
		Question:     rest.NewQuestionHandler(questionService, logger),
		Answer:       rest.NewAnswerHandler(answerService, logger),
		Engagement:   rest.NewEngagementHandler(gamificationService, leaderboardService, quotaService, trendingService, badges, logger),
		Notification: rest.NewNotificationHandler(notificationService, logger),
		Health:       rest.NewHealthHandler(pool, "test-version"),
		WebSocket:    ws.NewHandler(hub, logger),
		Middleware: []middleware.Middleware{
			middleware.RequestID,
			middleware.Recovery(logger),
			middleware.CORS(config.CORSConfig{
				AllowedOrigins:   "*",
				AllowedMethods:   "GET,POST,PUT,PATCH,DELETE,OPTIONS",
				AllowedHeaders:   "Authorization,Content-Type",
				AllowCredentials: false,
				MaxAge:           86400,
			}),
			rateLimiter.Limit(10000),
			middleware.Auth(jwtValidator{jwt: jwtManager}),
		},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:          srv.URL,
		Client:       srv.Client(),
		Pool:         pool,
		jwt:          jwtManager,
		badges:       badges,
		gamification: gamificationService,
	}
}

// jwtValidator adapts the JWT manager to the middleware's token validator.
type jwtValidator struct {
	jwt *authpkg.JWTManager
}

func (v jwtValidator) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	return v.jwt.ValidateAccessToken(token)
}

// ---------------------------------------------------------------------------
// HTTP helpers
// ---------------------------------------------------------------------------

// doJSON sends a request with an optional JSON body and bearer token and
// returns the status code plus the decoded response body.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Middleware rejections (auth, rate limit) write plain text, so a
	// non-JSON body is not an error.
	var result map[string]any
	if resp.StatusCode != http.StatusNoContent {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &result)
		}
	}
	return resp.StatusCode, result
}

// registerUser creates a fresh user through the public API and returns its
// access token plus ID.
func registerUser(t *testing.T, ts *testServer) (token string, userID uuid.UUID) {
	t.Helper()

	suffix := uuid.New().String()[:8]
	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    fmt.Sprintf("e2e-%s@example.com", suffix),
		"username": "e2e-" + suffix,
		"password": "correct horse battery",
	}, "")
	require.Equal(t, http.StatusCreated, status, "register: %v", body)

	token, ok := body["accessToken"].(string)
	require.True(t, ok, "expected accessToken in register response")

	user := body["user"].(map[string]any)
	userID, err := uuid.Parse(user["id"].(string))
	require.NoError(t, err)

	return token, userID
}

// adminToken seeds an admin user directly and returns a token for it.
func adminToken(t *testing.T, ts *testServer) (string, uuid.UUID) {
	t.Helper()

	admin := testhelper.SeedAdmin(t, ts.Pool)
	tok, err := ts.jwt.GenerateAccessToken(admin.ID, string(admin.Role))
	require.NoError(t, err)
	return tok, admin.ID
}

// askQuestion creates a question via the API and returns its ID.
func askQuestion(t *testing.T, ts *testServer, token, theme, text string) string {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/questions", map[string]any{
		"theme": theme,
		"text":  text,
	}, token)
	require.Equal(t, http.StatusCreated, status, "ask: %v", body)

	question := body["question"].(map[string]any)
	return question["id"].(string)
}
