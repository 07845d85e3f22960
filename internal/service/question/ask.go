package question

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/gamification"
)

// AskResult is a created question plus everything its reward changed.
type AskResult struct {
	Question *domain.Question
	Quota    domain.Quota
	Reward   *gamification.ActionResult
}

// Ask posts a new question. The quota is checked twice: an advisory check
// before the transaction for a fast refusal, and a second count inside the
// transaction so two concurrent requests cannot both slip under the limit.
// A quota lookup failure denies the request.
func (s *Service) Ask(ctx context.Context, userID uuid.UUID, input AskInput) (*AskResult, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("question.Ask: %w", err)
	}

	quota, err := s.quota.CheckQuestions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("question.Ask: %w", err)
	}
	if !quota.Allowed {
		return nil, fmt.Errorf("question.Ask: %w", domain.ErrQuotaExceeded)
	}

	result := &AskResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		quota, err := s.quota.CheckQuestions(txCtx, userID)
		if err != nil {
			return fmt.Errorf("recheck quota: %w", err)
		}
		if !quota.Allowed {
			return domain.ErrQuotaExceeded
		}

		created, err := s.questions.Create(txCtx, &domain.Question{
			ID:       uuid.New(),
			AuthorID: userID,
			Theme:    input.Theme,
			Text:     input.Text,
			Status:   domain.QuestionStatusOpen,
		})
		if err != nil {
			return fmt.Errorf("create question: %w", err)
		}

		reward, err := s.rewards.RecordActionInTx(txCtx, userID, domain.ActionAskQuestion)
		if err != nil {
			return fmt.Errorf("record action: %w", err)
		}

		quota.Remaining--
		result.Question = created
		result.Quota = quota
		result.Reward = reward
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("question.Ask: %w", err)
	}

	s.log.Info("question asked",
		"question_id", result.Question.ID,
		"author_id", userID,
		"theme", result.Question.Theme)

	return result, nil
}
