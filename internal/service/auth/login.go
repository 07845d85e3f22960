package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/baloria-app/baloria-backend/internal/auth"
	"github.com/baloria-app/baloria-backend/internal/domain"
)

// Login verifies email and password and issues an access token.
// Unknown email and wrong password return the same error so accounts
// cannot be enumerated.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("auth.Login: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("auth.Login: get user: %w", err)
	}

	ok, err := auth.CheckPassword(in.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: check password: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("auth.Login: %w", domain.ErrUnauthorized)
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("auth.Login: issue token: %w", err)
	}

	s.log.Info("user logged in", "user_id", user.ID)

	return &AuthResult{User: user, AccessToken: token}, nil
}
