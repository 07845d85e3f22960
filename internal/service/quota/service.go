// Package quota gates daily content creation. Limits reset at local-clock
// midnight in the user's timezone; admins are effectively unlimited.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type questionCounter interface {
	CountByAuthorSince(ctx context.Context, authorID uuid.UUID, since time.Time) (int, error)
}

type answerCounter interface {
	CountByAuthorSince(ctx context.Context, authorID uuid.UUID, since time.Time) (int, error)
}

type badgeRepo interface {
	ListEarnedBadges(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error)
}

// Config holds the per-action base limits.
type Config struct {
	QuestionsPerDay int
	AnswersPerDay   int
	// DefaultTimezone is used when a user has no timezone set.
	DefaultTimezone string
}

// Service implements the quota business logic.
type Service struct {
	users     userRepo
	questions questionCounter
	answers   answerCounter
	badges    badgeRepo
	log       *slog.Logger
	cfg       Config
	now       func() time.Time
}

// NewService creates a new Quota service.
func NewService(
	log *slog.Logger,
	users userRepo,
	questions questionCounter,
	answers answerCounter,
	badges badgeRepo,
	cfg Config,
) *Service {
	return &Service{
		users:     users,
		questions: questions,
		answers:   answers,
		badges:    badges,
		log:       log.With("service", "quota"),
		cfg:       cfg,
		now:       time.Now,
	}
}

// CheckQuestions returns the user's remaining question quota for their
// current local day. Any counting failure denies the action: the error is
// returned alongside a zeroed, disallowed quota so callers fail closed.
func (s *Service) CheckQuestions(ctx context.Context, userID uuid.UUID) (domain.Quota, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return deniedQuota(), fmt.Errorf("quota.CheckQuestions: %w", err)
	}

	used, err := s.questions.CountByAuthorSince(ctx, userID, s.dayStart(user))
	if err != nil {
		s.log.Error("question count failed, denying quota", "user_id", userID, "error", err)
		return deniedQuota(), fmt.Errorf("quota.CheckQuestions: %w", err)
	}

	bonus, err := s.questionBonus(ctx, userID)
	if err != nil {
		// A missing bonus only shrinks the allowance; no reason to deny.
		s.log.Warn("badge bonus lookup failed, using base limit", "user_id", userID, "error", err)
		bonus = 0
	}

	return Evaluate(used, s.cfg.QuestionsPerDay, bonus, user.Role.IsAdmin()), nil
}

// CheckAnswers returns the user's remaining answer quota for their current
// local day. Fails closed on count errors like CheckQuestions.
func (s *Service) CheckAnswers(ctx context.Context, userID uuid.UUID) (domain.Quota, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return deniedQuota(), fmt.Errorf("quota.CheckAnswers: %w", err)
	}

	used, err := s.answers.CountByAuthorSince(ctx, userID, s.dayStart(user))
	if err != nil {
		s.log.Error("answer count failed, denying quota", "user_id", userID, "error", err)
		return deniedQuota(), fmt.Errorf("quota.CheckAnswers: %w", err)
	}

	return Evaluate(used, s.cfg.AnswersPerDay, 0, user.Role.IsAdmin()), nil
}

// dayStart resolves the start of the user's current local day in UTC.
func (s *Service) dayStart(user *domain.User) time.Time {
	tz := user.Timezone
	if tz == "" {
		tz = s.cfg.DefaultTimezone
	}
	return DayStart(s.now(), ParseTimezone(tz))
}

// questionBonus sums the quota bonuses of the user's earned badges.
func (s *Service) questionBonus(ctx context.Context, userID uuid.UUID) (int, error) {
	earned, err := s.badges.ListEarnedBadges(ctx, userID)
	if err != nil {
		return 0, err
	}

	names := make([]string, len(earned))
	for i, b := range earned {
		names[i] = b.Name
	}

	return BonusForBadges(names), nil
}

func deniedQuota() domain.Quota {
	return domain.Quota{Max: 0, Remaining: 0, Allowed: false}
}
