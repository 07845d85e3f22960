package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/gamification"
	"github.com/baloria-app/baloria-backend/internal/service/leaderboard"
)

// gamificationService defines the minimal interface needed by EngagementHandler.
type gamificationService interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*gamification.StatsView, error)
	GetDailyChallenges(ctx context.Context, userID uuid.UUID) ([]gamification.ChallengeView, error)
}

// leaderboardService defines the leaderboard operations used by EngagementHandler.
type leaderboardService interface {
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	StandingFor(ctx context.Context, userID uuid.UUID) (*leaderboard.Standing, error)
}

// quotaService reports the caller's remaining daily allowances.
type quotaService interface {
	CheckQuestions(ctx context.Context, userID uuid.UUID) (domain.Quota, error)
	CheckAnswers(ctx context.Context, userID uuid.UUID) (domain.Quota, error)
}

// trendingService serves the cached trending snapshot.
type trendingService interface {
	GetTrending(ctx context.Context) ([]*domain.Question, error)
}

// badgeCatalog lists the static badge catalog.
type badgeCatalog interface {
	ListAll(ctx context.Context) ([]domain.Badge, error)
}

// EngagementHandler serves stats, challenges, badges, quota, leaderboard and
// trending endpoints.
type EngagementHandler struct {
	gamification gamificationService
	leaderboard  leaderboardService
	quota        quotaService
	trending     trendingService
	badges       badgeCatalog
	log          *slog.Logger
}

// NewEngagementHandler creates an EngagementHandler.
func NewEngagementHandler(
	gamificationSvc gamificationService,
	leaderboardSvc leaderboardService,
	quotaSvc quotaService,
	trendingSvc trendingService,
	badges badgeCatalog,
	logger *slog.Logger,
) *EngagementHandler {
	return &EngagementHandler{
		gamification: gamificationSvc,
		leaderboard:  leaderboardSvc,
		quota:        quotaSvc,
		trending:     trendingSvc,
		badges:       badges,
		log:          logger.With("handler", "engagement"),
	}
}

// MyStats handles GET /me/stats.
func (h *EngagementHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.writeStats(w, r, userID)
}

// UserStats handles GET /users/{id}/stats.
func (h *EngagementHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	h.writeStats(w, r, userID)
}

func (h *EngagementHandler) writeStats(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	view, err := h.gamification.GetStats(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(view))
}

// DailyChallenges handles GET /me/challenges.
func (h *EngagementHandler) DailyChallenges(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	views, err := h.gamification.GetDailyChallenges(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]challengeResponse{
		"challenges": toChallengeResponses(views),
	})
}

// BadgeCatalog handles GET /badges.
func (h *EngagementHandler) BadgeCatalog(w http.ResponseWriter, r *http.Request) {
	badges, err := h.badges.ListAll(r.Context())
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	out := make([]badgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, toBadgeResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string][]badgeResponse{"badges": out})
}

type myQuotaResponse struct {
	Questions quotaResponse `json:"questions"`
	Answers   quotaResponse `json:"answers"`
}

// MyQuota handles GET /me/quota.
func (h *EngagementHandler) MyQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	questions, err := h.quota.CheckQuestions(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}
	answers, err := h.quota.CheckAnswers(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, myQuotaResponse{
		Questions: toQuotaResponse(questions),
		Answers:   toQuotaResponse(answers),
	})
}

type leaderboardResponse struct {
	Entries []leaderboardEntryResponse `json:"entries"`
}

// Leaderboard handles GET /leaderboard.
func (h *EngagementHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.Top(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{Entries: toLeaderboardResponse(entries)})
}

type standingResponse struct {
	Rank      int    `json:"rank"`
	Points    int    `json:"points"`
	Level     int    `json:"level"`
	LevelName string `json:"levelName"`
}

// MyStanding handles GET /me/leaderboard.
func (h *EngagementHandler) MyStanding(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	standing, err := h.leaderboard.StandingFor(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, standingResponse{
		Rank:      standing.Rank,
		Points:    standing.Points,
		Level:     standing.Level,
		LevelName: standing.LevelName,
	})
}

// Trending handles GET /trending.
func (h *EngagementHandler) Trending(w http.ResponseWriter, r *http.Request) {
	questions, err := h.trending.GetTrending(r.Context())
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]questionResponse{
		"questions": toQuestionResponses(questions),
	})
}
