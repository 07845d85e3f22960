package question

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// QuestionDetail is a question with its answers.
type QuestionDetail struct {
	Question *domain.Question
	Answers  []*domain.Answer
}

// Get returns a question with its answers, oldest answer first.
func (s *Service) Get(ctx context.Context, questionID uuid.UUID) (*QuestionDetail, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("question.Get: %w", err)
	}

	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("question.Get: %w", err)
	}

	return &QuestionDetail{Question: q, Answers: answers}, nil
}

// List returns questions matching the filter, newest first.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Question, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, fmt.Errorf("question.List: %w", err)
	}
	input = input.normalized()

	filter := domain.QuestionFilter{
		Theme:  input.Theme,
		Status: input.Status,
	}

	questions, total, err := s.questions.List(ctx, filter, input.Limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("question.List: %w", err)
	}

	return questions, total, nil
}

// ListByAuthor returns the user's own questions, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*domain.Question, int, error) {
	questions, total, err := s.questions.List(ctx, domain.QuestionFilter{AuthorID: authorID}, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("question.ListByAuthor: %w", err)
	}
	return questions, total, nil
}

// Catch picks a random open question for the user to answer, excluding their
// own. Theme narrows the pool when set. No catchable question surfaces as
// domain.ErrNotFound.
func (s *Service) Catch(ctx context.Context, userID uuid.UUID, theme string) (*domain.Question, error) {
	q, err := s.questions.RandomOpen(ctx, userID, theme)
	if err != nil {
		return nil, fmt.Errorf("question.Catch: %w", err)
	}

	s.log.Debug("question caught", "question_id", q.ID, "user_id", userID)
	return q, nil
}
