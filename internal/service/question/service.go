package question

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

type questionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	List(ctx context.Context, filter domain.QuestionFilter, limit, offset int) ([]*domain.Question, int, error)
	RandomOpen(ctx context.Context, excludeAuthor uuid.UUID, theme string) (*domain.Question, error)
	Create(ctx context.Context, question *domain.Question) (*domain.Question, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.QuestionStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddHeart(ctx context.Context, userID, questionID uuid.UUID) (bool, error)
	HasHeart(ctx context.Context, userID, questionID uuid.UUID) (bool, error)
}

type answerRepo interface {
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error)
}

type quotaChecker interface {
	CheckQuestions(ctx context.Context, userID uuid.UUID) (domain.Quota, error)
}

type rewarder interface {
	RecordActionInTx(ctx context.Context, userID uuid.UUID, action domain.ActionType) (*gamification.ActionResult, error)
	RecordHeartReceived(ctx context.Context, ownerID uuid.UUID) (*domain.UserStats, error)
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

// Service implements the question business logic: asking, catching, hearting
// and moderation.
type Service struct {
	questions     questionRepo
	answers       answerRepo
	quota         quotaChecker
	rewards       rewarder
	notifications notificationRepo
	users         userRepo
	tx            txManager
	log           *slog.Logger
	now           func() time.Time
}

// NewService creates a new Question service.
func NewService(
	log *slog.Logger,
	questions questionRepo,
	answers answerRepo,
	quota quotaChecker,
	rewards rewarder,
	notifications notificationRepo,
	users userRepo,
	tx txManager,
) *Service {
	return &Service{
		questions:     questions,
		answers:       answers,
		quota:         quota,
		rewards:       rewards,
		notifications: notifications,
		users:         users,
		tx:            tx,
		log:           log.With("service", "question"),
		now:           time.Now,
	}
}
