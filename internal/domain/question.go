package domain

import (
	"time"

	"github.com/google/uuid"
)

// Question is a ball: a user-submitted question floating in a themed category
// until somebody catches it.
type Question struct {
	ID       uuid.UUID
	AuthorID uuid.UUID
	Theme    string
	Text     string
	Status   QuestionStatus
	// HeartsCount and AnswersCount are denormalized counters maintained by
	// single-statement atomic increments; never decremented below zero.
	HeartsCount  int
	AnswersCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Answer is a response to a caught question.
type Answer struct {
	ID         uuid.UUID
	QuestionID uuid.UUID
	AuthorID   uuid.UUID
	Text       string
	CreatedAt  time.Time
}

// Heart records one user hearting one question. The (UserID, QuestionID)
// pair is unique; hearting twice is a no-op.
type Heart struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	CreatedAt  time.Time
}

// QuestionFilter narrows question listings. Zero values mean "no constraint".
type QuestionFilter struct {
	Theme    string
	Status   QuestionStatus
	AuthorID uuid.UUID
}

// TrendingCandidate is the minimal projection of a question needed by the
// trending scorer.
type TrendingCandidate struct {
	ID           uuid.UUID
	HeartsCount  int
	AnswersCount int
	CreatedAt    time.Time
}
