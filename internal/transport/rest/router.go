package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/baloria-app/baloria-backend/internal/transport/middleware"
)

// RouterConfig bundles the handlers mounted by NewRouter.
type RouterConfig struct {
	Auth         *AuthHandler
	User         *UserHandler
	Question     *QuestionHandler
	Answer       *AnswerHandler
	Engagement   *EngagementHandler
	Notification *NotificationHandler
	Health       *HealthHandler

	// WebSocket serves GET /ws when non-nil.
	WebSocket http.Handler

	// Middleware is applied to every route, outermost first.
	Middleware []middleware.Middleware
}

// NewRouter builds the HTTP routing table. Authentication is resolved by
// middleware into the request context; authorization decisions live in the
// services, so most routes are registered flat.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Probes stay outside /api so infra config never depends on the API prefix.
	r.HandleFunc("/health", cfg.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/live", cfg.Health.Live).Methods(http.MethodGet)
	r.HandleFunc("/ready", cfg.Health.Ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/auth/register", cfg.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", cfg.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/me", cfg.Auth.Me).Methods(http.MethodGet)

	// Profile
	api.HandleFunc("/me/profile", cfg.User.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/me/profile", cfg.User.UpdateProfile).Methods(http.MethodPatch)

	// Questions. The catch route must precede the {id} routes so "catch" is
	// not parsed as a question id.
	api.HandleFunc("/questions/catch", cfg.Question.Catch).Methods(http.MethodGet)
	api.HandleFunc("/questions", cfg.Question.Ask).Methods(http.MethodPost)
	api.HandleFunc("/questions", cfg.Question.List).Methods(http.MethodGet)
	api.HandleFunc("/questions/{id}", cfg.Question.Get).Methods(http.MethodGet)
	api.HandleFunc("/questions/{id}", cfg.Question.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/questions/{id}/heart", cfg.Question.Heart).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id}/close", cfg.Question.Close).Methods(http.MethodPost)

	// Answers
	api.HandleFunc("/questions/{id}/answers", cfg.Answer.Create).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id}/answers", cfg.Answer.ListByQuestion).Methods(http.MethodGet)
	api.HandleFunc("/answers/{id}", cfg.Answer.Delete).Methods(http.MethodDelete)

	// Question chat
	api.HandleFunc("/questions/{id}/chat", cfg.Notification.PostChat).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id}/chat", cfg.Notification.ListChat).Methods(http.MethodGet)

	// Engagement
	api.HandleFunc("/me/stats", cfg.Engagement.MyStats).Methods(http.MethodGet)
	api.HandleFunc("/me/challenges", cfg.Engagement.DailyChallenges).Methods(http.MethodGet)
	api.HandleFunc("/me/quota", cfg.Engagement.MyQuota).Methods(http.MethodGet)
	api.HandleFunc("/me/leaderboard", cfg.Engagement.MyStanding).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/stats", cfg.Engagement.UserStats).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", cfg.Engagement.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/trending", cfg.Engagement.Trending).Methods(http.MethodGet)
	api.HandleFunc("/badges", cfg.Engagement.BadgeCatalog).Methods(http.MethodGet)

	// Notifications
	api.HandleFunc("/me/notifications", cfg.Notification.List).Methods(http.MethodGet)
	api.HandleFunc("/me/notifications/read-all", cfg.Notification.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/me/notifications/{id}/read", cfg.Notification.MarkRead).Methods(http.MethodPost)

	// Admin
	api.HandleFunc("/admin/users", cfg.User.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/admin/users/{id}/role", cfg.User.SetUserRole).Methods(http.MethodPut)
	api.HandleFunc("/admin/users/{id}", cfg.User.DeleteUser).Methods(http.MethodDelete)

	if cfg.WebSocket != nil {
		r.Handle("/ws", cfg.WebSocket).Methods(http.MethodGet)
	}

	return middleware.Chain(cfg.Middleware...)(r)
}
