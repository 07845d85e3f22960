// Package auth implements account registration and password login.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
}

type statsRepo interface {
	EnsureExists(ctx context.Context, userID uuid.UUID) error
}

type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds the tunables for the auth service.
type Config struct {
	PasswordHashCost int
}

// Service handles registration, login and current-user lookup.
type Service struct {
	log   *slog.Logger
	users userRepo
	stats statsRepo
	jwt   jwtManager
	tx    txManager
	cfg   Config

	now func() time.Time
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User        *domain.User
	AccessToken string
}

// NewService creates an auth service.
func NewService(
	log *slog.Logger,
	users userRepo,
	stats statsRepo,
	jwt jwtManager,
	tx txManager,
	cfg Config,
) *Service {
	return &Service{
		log:   log.With("service", "auth"),
		users: users,
		stats: stats,
		jwt:   jwt,
		tx:    tx,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Me returns the user for an authenticated id.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
