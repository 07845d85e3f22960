package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// ActionResult reports everything one rewarded action changed, so transports
// can surface toasts and websocket pushes without re-reading state.
type ActionResult struct {
	Stats               *domain.UserStats
	NewBadges           []domain.Badge
	CompletedChallenges []domain.DailyChallenge
	LeveledUp           bool
}

// RecordAction applies all gamification side effects of one rewarded action:
// counter increment, karma points, streak, badge awards, daily challenge
// progress and the notifications for each. Everything runs in one
// transaction; either the whole reward lands or none of it does.
func (s *Service) RecordAction(ctx context.Context, userID uuid.UUID, action domain.ActionType) (*ActionResult, error) {
	switch action {
	case domain.ActionAskQuestion, domain.ActionAnswerQuestion, domain.ActionGiveHeart:
	default:
		return nil, fmt.Errorf("gamification.RecordAction: %w: action %q", domain.ErrValidation, action)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("gamification.RecordAction: %w", err)
	}

	result := &ActionResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.recordAction(txCtx, user, action, result)
	})
	if err != nil {
		return nil, fmt.Errorf("gamification.RecordAction: %w", err)
	}

	s.logRecorded(userID, action, result)
	return result, nil
}

// RecordActionInTx is RecordAction for callers that already hold an open
// transaction (the question and answer creation flows, which insert content
// and reward it atomically). The context must carry the caller's transaction.
func (s *Service) RecordActionInTx(ctx context.Context, userID uuid.UUID, action domain.ActionType) (*ActionResult, error) {
	switch action {
	case domain.ActionAskQuestion, domain.ActionAnswerQuestion, domain.ActionGiveHeart:
	default:
		return nil, fmt.Errorf("gamification.RecordActionInTx: %w: action %q", domain.ErrValidation, action)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("gamification.RecordActionInTx: %w", err)
	}

	result := &ActionResult{}
	if err := s.recordAction(ctx, user, action, result); err != nil {
		return nil, fmt.Errorf("gamification.RecordActionInTx: %w", err)
	}

	s.logRecorded(userID, action, result)
	return result, nil
}

// recordAction is the shared body of RecordAction and RecordActionInTx; ctx
// must already carry the transaction.
func (s *Service) recordAction(ctx context.Context, user *domain.User, action domain.ActionType, result *ActionResult) error {
	userID := user.ID
	now := s.now()

	prev, err := s.stats.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load stats: %w", err)
		}
		prev = &domain.UserStats{UserID: userID}
	}
	prevLevel := domain.LevelFor(prev.Points)

	// Streak first: it depends on the pre-action last_active_at.
	loc := parseTimezone(s.timezoneFor(user))
	streak, streakChanged := NextStreak(prev.StreakDays, prev.LastActiveAt, now, loc)
	if streakChanged {
		if err := s.stats.SetStreak(ctx, userID, streak, now); err != nil {
			return fmt.Errorf("set streak: %w", err)
		}
	}

	if err := s.stats.Increment(ctx, userID, counterFor(action), now); err != nil {
		return fmt.Errorf("increment counter: %w", err)
	}

	stats, err := s.stats.AddPoints(ctx, userID, s.pointsFor(action), now)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	stats, err = s.progressChallenge(ctx, userID, action, stats, now, result)
	if err != nil {
		return err
	}

	newBadges, err := s.awardNewBadges(ctx, userID, action, counterValue(stats, action), now)
	if err != nil {
		return err
	}
	if streakChanged && streak > prev.StreakDays {
		streakBadges, err := s.awardNewBadges(ctx, userID, domain.ActionStreak, streak, now)
		if err != nil {
			return err
		}
		newBadges = append(newBadges, streakBadges...)
	}
	result.NewBadges = newBadges

	if stats.Level > prevLevel {
		result.LeveledUp = true
		if err := s.notifyLevelUp(ctx, userID, stats.Level); err != nil {
			return err
		}
	}

	result.Stats = stats
	return nil
}

func (s *Service) logRecorded(userID uuid.UUID, action domain.ActionType, result *ActionResult) {
	s.log.Debug("action recorded",
		"user_id", userID,
		"action", action.String(),
		"points", result.Stats.Points,
		"new_badges", len(result.NewBadges))
}

// RecordHeartReceived credits a question owner for a received heart. Runs in
// the caller's transaction when one is active.
func (s *Service) RecordHeartReceived(ctx context.Context, ownerID uuid.UUID) (*domain.UserStats, error) {
	now := s.now()

	prev, err := s.stats.GetByUser(ctx, ownerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("gamification.RecordHeartReceived: %w", err)
	}
	prevPoints := 0
	if prev != nil {
		prevPoints = prev.Points
	}

	if err := s.stats.Increment(ctx, ownerID, "hearts_received", now); err != nil {
		return nil, fmt.Errorf("gamification.RecordHeartReceived: %w", err)
	}

	stats, err := s.stats.AddPoints(ctx, ownerID, s.cfg.HeartPoints, now)
	if err != nil {
		return nil, fmt.Errorf("gamification.RecordHeartReceived: %w", err)
	}

	if stats.Level > domain.LevelFor(prevPoints) {
		if err := s.notifyLevelUp(ctx, ownerID, stats.Level); err != nil {
			return nil, fmt.Errorf("gamification.RecordHeartReceived: %w", err)
		}
	}

	return stats, nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// progressChallenge bumps today's matching challenge and pays its karma
// reward exactly once, on the increment that reaches the target. Returns the
// stats row updated with any reward points.
func (s *Service) progressChallenge(
	ctx context.Context,
	userID uuid.UUID,
	action domain.ActionType,
	stats *domain.UserStats,
	now time.Time,
	result *ActionResult,
) (*domain.UserStats, error) {
	challenges, err := s.challenges.ListForDate(ctx, utcDate(now))
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	for _, c := range challenges {
		if c.ChallengeType != action {
			continue
		}

		_, justCompleted, err := s.challenges.IncrementProgress(ctx, userID, c.ID, c.TargetValue, now)
		if err != nil {
			return nil, fmt.Errorf("challenge progress: %w", err)
		}
		if !justCompleted {
			continue
		}

		stats, err = s.stats.AddPoints(ctx, userID, c.KarmaReward, now)
		if err != nil {
			return nil, fmt.Errorf("challenge reward: %w", err)
		}
		result.CompletedChallenges = append(result.CompletedChallenges, c)

		_, err = s.notifications.Create(ctx, &domain.Notification{
			UserID:  userID,
			Type:    domain.NotificationChallengeCompleted,
			Message: fmt.Sprintf("Uitdaging voltooid: %s (+%d karma)", c.Description, c.KarmaReward),
		})
		if err != nil {
			return nil, fmt.Errorf("challenge notification: %w", err)
		}
	}

	return stats, nil
}

// awardNewBadges evaluates one badge category against the current counter
// value and awards everything newly qualifying. The unique constraint on
// (user_id, badge_id) absorbs concurrent qualifying actions; a lost award
// race is a silent no-op.
func (s *Service) awardNewBadges(
	ctx context.Context,
	userID uuid.UUID,
	category domain.ActionType,
	current int,
	now time.Time,
) ([]domain.Badge, error) {
	catalog, err := s.badges.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("badge catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	earnedBadges, err := s.badges.ListEarnedBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("earned badges: %w", err)
	}
	earned := make(map[string]bool, len(earnedBadges))
	for _, b := range earnedBadges {
		earned[b.Name] = true
	}

	candidates := make([]Candidate, 0, len(catalog))
	byName := make(map[string]domain.Badge, len(catalog))
	for _, b := range catalog {
		candidates = append(candidates, Candidate{Name: b.Name, Threshold: b.Threshold})
		byName[b.Name] = b
	}

	var awarded []domain.Badge
	for _, name := range CheckThresholds(current, candidates, earned) {
		badge := byName[name]

		fresh, err := s.badges.Award(ctx, userID, badge.ID, now)
		if err != nil {
			return nil, fmt.Errorf("award badge: %w", err)
		}
		if !fresh {
			continue
		}
		awarded = append(awarded, badge)

		_, err = s.notifications.Create(ctx, &domain.Notification{
			UserID:  userID,
			Type:    domain.NotificationBadgeEarned,
			Message: fmt.Sprintf("Je hebt de badge '%s' verdiend!", badge.Name),
		})
		if err != nil {
			return nil, fmt.Errorf("badge notification: %w", err)
		}
	}

	return awarded, nil
}

func (s *Service) notifyLevelUp(ctx context.Context, userID uuid.UUID, level int) error {
	_, err := s.notifications.Create(ctx, &domain.Notification{
		UserID:  userID,
		Type:    domain.NotificationLevelUp,
		Message: fmt.Sprintf("Level omhoog! Je bent nu %s (level %d)", domain.LevelName(level), level),
	})
	if err != nil {
		return fmt.Errorf("level notification: %w", err)
	}
	return nil
}

func (s *Service) timezoneFor(user *domain.User) string {
	if user.Timezone != "" {
		return user.Timezone
	}
	return s.cfg.DefaultTimezone
}

func (s *Service) pointsFor(action domain.ActionType) int {
	switch action {
	case domain.ActionAskQuestion:
		return s.cfg.QuestionPoints
	case domain.ActionAnswerQuestion:
		return s.cfg.AnswerPoints
	default:
		return 0
	}
}

// counterFor maps a rewarded action to its user_stats counter column.
func counterFor(action domain.ActionType) string {
	switch action {
	case domain.ActionAskQuestion:
		return "questions_count"
	case domain.ActionAnswerQuestion:
		return "answers_count"
	default:
		return "hearts_given"
	}
}

// counterValue reads the counter that drives badge thresholds for an action.
func counterValue(stats *domain.UserStats, action domain.ActionType) int {
	switch action {
	case domain.ActionAskQuestion:
		return stats.QuestionsCount
	case domain.ActionAnswerQuestion:
		return stats.AnswersCount
	default:
		return stats.HeartsGiven
	}
}
