// Package app wires configuration, storage, services, transports and
// background jobs into a running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	authpkg "github.com/baloria-app/baloria-backend/internal/auth"
	"github.com/baloria-app/baloria-backend/internal/config"

	"github.com/baloria-app/baloria-backend/internal/adapter/postgres"
	answerrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/answer"
	badgerepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/badge"
	challengerepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/challenge"
	notificationrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/notification"
	questionrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/question"
	statsrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/stats"
	userrepo "github.com/baloria-app/baloria-backend/internal/adapter/postgres/user"

	answersvc "github.com/baloria-app/baloria-backend/internal/service/answer"
	authsvc "github.com/baloria-app/baloria-backend/internal/service/auth"
	gamificationsvc "github.com/baloria-app/baloria-backend/internal/service/gamification"
	leaderboardsvc "github.com/baloria-app/baloria-backend/internal/service/leaderboard"
	notificationsvc "github.com/baloria-app/baloria-backend/internal/service/notification"
	questionsvc "github.com/baloria-app/baloria-backend/internal/service/question"
	quotasvc "github.com/baloria-app/baloria-backend/internal/service/quota"
	trendingsvc "github.com/baloria-app/baloria-backend/internal/service/trending"
	usersvc "github.com/baloria-app/baloria-backend/internal/service/user"

	"github.com/baloria-app/baloria-backend/internal/jobs"
	"github.com/baloria-app/baloria-backend/internal/transport/middleware"
	"github.com/baloria-app/baloria-backend/internal/transport/rest"
	"github.com/baloria-app/baloria-backend/internal/transport/ws"
)

// Run is the application entry point. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := applyMigrations(ctx, logger, cfg.Database.DSN); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	// Repositories
	users := userrepo.New(pool)
	questions := questionrepo.New(pool)
	answers := answerrepo.New(pool)
	stats := statsrepo.New(pool)
	badges := badgerepo.New(pool)
	challenges := challengerepo.New(pool)
	notifications := notificationrepo.New(pool)

	// Websocket hub; the notification store pushes through it.
	hub := ws.NewHub(logger)
	pushingNotifications := newPushingNotificationStore(notifications, hub)

	jwtManager := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	// Services
	authService := authsvc.NewService(logger, users, stats, jwtManager, txManager, authsvc.Config{
		PasswordHashCost: cfg.Auth.BcryptCost,
	})
	userService := usersvc.NewService(logger, users)
	quotaService := quotasvc.NewService(logger, users, questions, answers, badges, quotasvc.Config{
		QuestionsPerDay: cfg.Engagement.QuestionsPerDay,
		AnswersPerDay:   cfg.Engagement.AnswersPerDay,
		DefaultTimezone: cfg.Engagement.DefaultTimezone,
	})
	gamificationService := gamificationsvc.NewService(
		logger, stats, badges, challenges, pushingNotifications, users, txManager,
		gamificationsvc.Config{
			QuestionPoints:  cfg.Engagement.PointsPerQuestion,
			AnswerPoints:    cfg.Engagement.PointsPerAnswer,
			HeartPoints:     cfg.Engagement.PointsPerHeart,
			DefaultTimezone: cfg.Engagement.DefaultTimezone,
		},
	)
	questionService := questionsvc.NewService(
		logger, questions, answers, quotaService, gamificationService,
		pushingNotifications, users, txManager,
	)
	answerService := answersvc.NewService(
		logger, answers, questions, quotaService, gamificationService,
		pushingNotifications, users, txManager,
	)
	leaderboardService := leaderboardsvc.NewService(logger, stats, cfg.Engagement.LeaderboardSize)
	trendingService := trendingsvc.NewService(logger, questions, trendingsvc.Config{
		Threshold: cfg.Engagement.TrendingThreshold,
		Limit:     cfg.Engagement.TrendingLimit,
		Window:    cfg.Engagement.TrendingWindow,
	})
	notificationService := notificationsvc.NewService(logger, notifications, users, hub)

	// Background jobs
	runner, err := jobs.NewRunner(logger, gamificationService, trendingService, jobs.Config{
		TrendingRefresh: cfg.Engagement.TrendingRefresh,
	})
	if err != nil {
		return err
	}

	// HTTP transport
	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	router := rest.NewRouter(rest.RouterConfig{
		Auth:         rest.NewAuthHandler(authService, logger),
		User:         rest.NewUserHandler(userService, logger),
		Question:     rest.NewQuestionHandler(questionService, logger),
		Answer:       rest.NewAnswerHandler(answerService, logger),
		Engagement:   rest.NewEngagementHandler(gamificationService, leaderboardService, quotaService, trendingService, badges, logger),
		Notification: rest.NewNotificationHandler(notificationService, logger),
		Health:       rest.NewHealthHandler(pool, BuildVersion()),
		WebSocket:    ws.NewHandler(hub, logger),
		Middleware: []middleware.Middleware{
			middleware.RequestID,
			middleware.Logger(logger),
			middleware.Recovery(logger),
			middleware.CORS(cfg.CORS),
			rateLimiter.Limit(cfg.Server.RateLimitPerMin),
			middleware.Auth(jwtValidator{jwt: jwtManager}),
		},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	runner.Start(ctx)
	defer runner.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

// jwtValidator adapts the JWT manager to the middleware's token validator.
type jwtValidator struct {
	jwt *authpkg.JWTManager
}

func (v jwtValidator) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	return v.jwt.ValidateAccessToken(token)
}
