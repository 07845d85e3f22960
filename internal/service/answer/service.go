package answer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/gamification"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type answerRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error)
	Create(ctx context.Context, a *domain.Answer) (*domain.Answer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type questionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	IncrementAnswers(ctx context.Context, questionID uuid.UUID) error
}

type quotaChecker interface {
	CheckAnswers(ctx context.Context, userID uuid.UUID) (domain.Quota, error)
}

type rewarder interface {
	RecordActionInTx(ctx context.Context, userID uuid.UUID, action domain.ActionType) (*gamification.ActionResult, error)
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

// Service implements the answer business logic.
type Service struct {
	answers       answerRepo
	questions     questionRepo
	quota         quotaChecker
	rewards       rewarder
	notifications notificationRepo
	users         userRepo
	tx            txManager
	log           *slog.Logger
	now           func() time.Time
}

// NewService creates a new Answer service.
func NewService(
	log *slog.Logger,
	answers answerRepo,
	questions questionRepo,
	quota quotaChecker,
	rewards rewarder,
	notifications notificationRepo,
	users userRepo,
	tx txManager,
) *Service {
	return &Service{
		answers:       answers,
		questions:     questions,
		quota:         quota,
		rewards:       rewards,
		notifications: notifications,
		users:         users,
		tx:            tx,
		log:           log.With("service", "answer"),
		now:           time.Now,
	}
}
