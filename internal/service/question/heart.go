package question

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/gamification"
)

// HeartResult reports the outcome of a heart attempt. Hearted is false when
// the user had already hearted the question; nothing else changes then.
type HeartResult struct {
	Question *domain.Question
	Hearted  bool
	Reward   *gamification.ActionResult
}

// Heart gives a heart to a question. Hearting is idempotent per (user,
// question): repeats are a no-op, not an error. A fresh heart bumps the
// question counter, rewards the hearter, credits the owner and notifies them,
// all in one transaction.
func (s *Service) Heart(ctx context.Context, userID, questionID uuid.UUID) (*HeartResult, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("question.Heart: %w", err)
	}
	if q.AuthorID == userID {
		return nil, fmt.Errorf("question.Heart: %w: own question", domain.ErrForbidden)
	}

	hearter, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("question.Heart: %w", err)
	}

	result := &HeartResult{Question: q}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		inserted, err := s.questions.AddHeart(txCtx, userID, questionID)
		if err != nil {
			return fmt.Errorf("add heart: %w", err)
		}
		if !inserted {
			return nil
		}
		result.Hearted = true
		result.Question.HeartsCount = q.HeartsCount + 1

		reward, err := s.rewards.RecordActionInTx(txCtx, userID, domain.ActionGiveHeart)
		if err != nil {
			return fmt.Errorf("record action: %w", err)
		}
		result.Reward = reward

		if _, err := s.rewards.RecordHeartReceived(txCtx, q.AuthorID); err != nil {
			return fmt.Errorf("credit owner: %w", err)
		}

		_, err = s.notifications.Create(txCtx, &domain.Notification{
			UserID:     q.AuthorID,
			Type:       domain.NotificationHeartReceived,
			Message:    fmt.Sprintf("%s vindt je vraag leuk", hearter.Username),
			QuestionID: &q.ID,
		})
		if err != nil {
			return fmt.Errorf("notify owner: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("question.Heart: %w", err)
	}

	if result.Hearted {
		s.log.Debug("question hearted", "question_id", questionID, "user_id", userID)
	}

	return result, nil
}

// HasHearted reports whether the user has hearted the question.
func (s *Service) HasHearted(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	hearted, err := s.questions.HasHeart(ctx, userID, questionID)
	if err != nil {
		return false, fmt.Errorf("question.HasHearted: %w", err)
	}
	return hearted, nil
}
