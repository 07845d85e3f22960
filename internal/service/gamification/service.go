package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type statsRepo interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
	AddPoints(ctx context.Context, userID uuid.UUID, points int, now time.Time) (*domain.UserStats, error)
	Increment(ctx context.Context, userID uuid.UUID, counter string, now time.Time) error
	SetStreak(ctx context.Context, userID uuid.UUID, days int, now time.Time) error
}

type badgeRepo interface {
	ListByCategory(ctx context.Context, category domain.ActionType) ([]domain.Badge, error)
	ListEarnedBadges(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error)
	Award(ctx context.Context, userID, badgeID uuid.UUID, earnedAt time.Time) (bool, error)
}

type challengeRepo interface {
	CreateForDate(ctx context.Context, c domain.DailyChallenge) (bool, error)
	ListForDate(ctx context.Context, date time.Time) ([]domain.DailyChallenge, error)
	IncrementProgress(ctx context.Context, userID, challengeID uuid.UUID, target int, now time.Time) (*domain.UserChallengeProgress, bool, error)
	ListProgress(ctx context.Context, userID uuid.UUID, date time.Time) (map[uuid.UUID]domain.UserChallengeProgress, error)
}

type notificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the reward tuning for the gamification service.
type Config struct {
	// Points awarded to the actor per rewarded action.
	QuestionPoints int
	AnswerPoints   int
	// Points awarded to a question's owner when someone hearts it.
	HeartPoints int
	// DefaultTimezone is used for streak day boundaries when a user has no
	// timezone set.
	DefaultTimezone string
}

// Service awards karma, badges, daily challenge progress and streaks for
// rewarded user actions.
type Service struct {
	stats         statsRepo
	badges        badgeRepo
	challenges    challengeRepo
	notifications notificationRepo
	users         userRepo
	tx            txManager
	log           *slog.Logger
	cfg           Config
	now           func() time.Time
}

// NewService creates a new Gamification service.
func NewService(
	log *slog.Logger,
	stats statsRepo,
	badges badgeRepo,
	challenges challengeRepo,
	notifications notificationRepo,
	users userRepo,
	tx txManager,
	cfg Config,
) *Service {
	return &Service{
		stats:         stats,
		badges:        badges,
		challenges:    challenges,
		notifications: notifications,
		users:         users,
		tx:            tx,
		log:           log.With("service", "gamification"),
		cfg:           cfg,
		now:           time.Now,
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// StatsView is the stats row enriched with derived karma display values. The
// derived fields are computed from points, never from the cached level column.
type StatsView struct {
	Stats          domain.UserStats
	Level          int
	LevelName      string
	ProgressToNext float64
	PointsToNext   int
	Badges         []domain.Badge
}

// GetStats returns a user's stats with level naming and progress derived from
// the points total. A user who has never acted gets zero-valued stats.
func (s *Service) GetStats(ctx context.Context, userID uuid.UUID) (*StatsView, error) {
	stats, err := s.stats.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("gamification.GetStats: %w", err)
		}
		stats = &domain.UserStats{UserID: userID}
	}

	earned, err := s.badges.ListEarnedBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("gamification.GetStats: %w", err)
	}

	level := domain.LevelFor(stats.Points)
	return &StatsView{
		Stats:          *stats,
		Level:          level,
		LevelName:      domain.LevelName(level),
		ProgressToNext: domain.ProgressToNext(stats.Points, level),
		PointsToNext:   domain.PointsToNext(stats.Points, level),
		Badges:         earned,
	}, nil
}

// ChallengeView pairs a daily challenge with the user's progress on it.
type ChallengeView struct {
	Challenge domain.DailyChallenge
	Progress  int
	Completed bool
}

// GetDailyChallenges returns today's challenge set with the user's progress.
// Challenges the user has not touched yet show zero progress.
func (s *Service) GetDailyChallenges(ctx context.Context, userID uuid.UUID) ([]ChallengeView, error) {
	today := utcDate(s.now())

	challenges, err := s.challenges.ListForDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("gamification.GetDailyChallenges: %w", err)
	}

	progress, err := s.challenges.ListProgress(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("gamification.GetDailyChallenges: %w", err)
	}

	views := make([]ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		v := ChallengeView{Challenge: c}
		if p, ok := progress[c.ID]; ok {
			v.Progress = p.Progress
			v.Completed = p.Completed
		}
		views = append(views, v)
	}

	return views, nil
}
