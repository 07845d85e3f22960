package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/auth"
	"github.com/baloria-app/baloria-backend/internal/domain"
)

// Register creates a new account and returns it with a fresh access token.
// The stats row is created in the same transaction so gamification never
// races a missing row on the user's first action.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Role:         domain.UserRoleUser,
		Timezone:     domain.DefaultTimezone,
	}

	var created *domain.User
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err = s.users.Create(txCtx, user)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := s.stats.EnsureExists(txCtx, created.ID); err != nil {
			return fmt.Errorf("ensure stats row: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	token, err := s.jwt.GenerateAccessToken(created.ID, created.Role.String())
	if err != nil {
		return nil, fmt.Errorf("auth.Register: issue token: %w", err)
	}

	s.log.Info("user registered",
		"user_id", created.ID,
		"username", created.Username,
	)

	return &AuthResult{User: created, AccessToken: token}, nil
}
