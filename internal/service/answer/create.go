package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/gamification"
)

const textMaxLen = 2000

// CreateInput holds the parameters for answering a question.
type CreateInput struct {
	QuestionID uuid.UUID
	Text       string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.QuestionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "question_id", Message: "required"})
	}
	if strings.TrimSpace(i.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if len(i.Text) > textMaxLen {
		errs = append(errs, domain.FieldError{Field: "text", Message: "too long (max 2000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateResult is a created answer plus its reward outcome.
type CreateResult struct {
	Answer *domain.Answer
	Quota  domain.Quota
	Reward *gamification.ActionResult
}

// Create answers a question. The answer insert, the atomic answers_count
// bump on the question, the reward and the asker's notification commit
// together. Closed questions refuse new answers; quota failures deny.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*CreateResult, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("answer.Create: %w", err)
	}

	q, err := s.questions.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("answer.Create: %w", err)
	}
	if q.Status != domain.QuestionStatusOpen {
		return nil, fmt.Errorf("answer.Create: %w: question is closed", domain.ErrConflict)
	}

	quota, err := s.quota.CheckAnswers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("answer.Create: %w", err)
	}
	if !quota.Allowed {
		return nil, fmt.Errorf("answer.Create: %w", domain.ErrQuotaExceeded)
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("answer.Create: %w", err)
	}

	result := &CreateResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		quota, err := s.quota.CheckAnswers(txCtx, userID)
		if err != nil {
			return fmt.Errorf("recheck quota: %w", err)
		}
		if !quota.Allowed {
			return domain.ErrQuotaExceeded
		}

		created, err := s.answers.Create(txCtx, &domain.Answer{
			ID:         uuid.New(),
			QuestionID: q.ID,
			AuthorID:   userID,
			Text:       input.Text,
		})
		if err != nil {
			return fmt.Errorf("create answer: %w", err)
		}

		if err := s.questions.IncrementAnswers(txCtx, q.ID); err != nil {
			return fmt.Errorf("bump answers count: %w", err)
		}

		reward, err := s.rewards.RecordActionInTx(txCtx, userID, domain.ActionAnswerQuestion)
		if err != nil {
			return fmt.Errorf("record action: %w", err)
		}

		if q.AuthorID != userID {
			_, err = s.notifications.Create(txCtx, &domain.Notification{
				UserID:     q.AuthorID,
				Type:       domain.NotificationAnswerReceived,
				Message:    fmt.Sprintf("%s heeft je vraag beantwoord", author.Username),
				QuestionID: &q.ID,
			})
			if err != nil {
				return fmt.Errorf("notify asker: %w", err)
			}
		}

		quota.Remaining--
		result.Answer = created
		result.Quota = quota
		result.Reward = reward
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("answer.Create: %w", err)
	}

	s.log.Info("question answered",
		"question_id", q.ID,
		"answer_id", result.Answer.ID,
		"author_id", userID)

	return result, nil
}

// ListByQuestion returns a question's answers, oldest first.
func (s *Service) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("answer.ListByQuestion: %w", err)
	}
	return answers, nil
}

// Delete removes an answer. Only the author or an admin may delete it. The
// question's answers_count is deliberately left untouched; it is an
// engagement counter, not a live tally.
func (s *Service) Delete(ctx context.Context, actor *domain.User, answerID uuid.UUID) error {
	a, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		return fmt.Errorf("answer.Delete: %w", err)
	}

	if a.AuthorID != actor.ID && !actor.Role.IsAdmin() {
		return fmt.Errorf("answer.Delete: %w", domain.ErrForbidden)
	}

	if err := s.answers.Delete(ctx, answerID); err != nil {
		return fmt.Errorf("answer.Delete: %w", err)
	}

	s.log.Info("answer deleted",
		"answer_id", answerID,
		"actor_id", actor.ID,
		"as_admin", a.AuthorID != actor.ID)
	return nil
}
