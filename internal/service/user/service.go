// Package user implements profile management and user administration.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, int, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, avatarURL *string, timezone *string) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements user profile and admin operations.
type Service struct {
	log   *slog.Logger
	users userRepo
}

// NewService creates a new user service.
func NewService(log *slog.Logger, users userRepo) *Service {
	return &Service{
		log:   log.With("service", "user"),
		users: users,
	}
}
