package question

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// Close marks a question as closed. Only the author or an admin may close it.
// Closing an already closed question is a no-op.
func (s *Service) Close(ctx context.Context, actor *domain.User, questionID uuid.UUID) (*domain.Question, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("question.Close: %w", err)
	}

	if q.AuthorID != actor.ID && !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("question.Close: %w", domain.ErrForbidden)
	}

	if q.Status == domain.QuestionStatusClosed {
		return q, nil
	}

	if err := s.questions.SetStatus(ctx, questionID, domain.QuestionStatusClosed); err != nil {
		return nil, fmt.Errorf("question.Close: %w", err)
	}
	q.Status = domain.QuestionStatusClosed

	s.log.Info("question closed", "question_id", questionID, "actor_id", actor.ID)
	return q, nil
}

// Delete removes a question and everything hanging off it. Only the author or
// an admin may delete it. Earned karma and badges are not clawed back.
func (s *Service) Delete(ctx context.Context, actor *domain.User, questionID uuid.UUID) error {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("question.Delete: %w", err)
	}

	if q.AuthorID != actor.ID && !actor.Role.IsAdmin() {
		return fmt.Errorf("question.Delete: %w", domain.ErrForbidden)
	}

	if err := s.questions.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("question.Delete: %w", err)
	}

	s.log.Info("question deleted",
		"question_id", questionID,
		"actor_id", actor.ID,
		"as_admin", q.AuthorID != actor.ID)
	return nil
}
