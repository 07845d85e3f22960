package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/pkg/ctxutil"
)

const defaultListLimit = 50

// ListUsers returns a paginated list of all users (admin only).
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, int, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, 0, domain.ErrForbidden
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("user.ListUsers: %w", err)
	}

	return users, total, nil
}

// SetUserRole changes the role of a user (admin only). Admins cannot
// demote themselves, so there is always at least one admin left.
func (s *Service) SetUserRole(ctx context.Context, targetID uuid.UUID, role domain.UserRole) (*domain.User, error) {
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}

	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "must be 'user' or 'admin'")
	}

	callerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if callerID == targetID && role == domain.UserRoleUser {
		return nil, domain.NewValidationError("role", "cannot demote yourself")
	}

	u, err := s.users.UpdateRole(ctx, targetID, role.String())
	if err != nil {
		return nil, fmt.Errorf("user.SetUserRole: %w", err)
	}

	s.log.InfoContext(ctx, "user role updated",
		"target_user_id", targetID,
		"new_role", role.String(),
	)

	return u, nil
}

// DeleteUser removes a user and their content (admin only).
func (s *Service) DeleteUser(ctx context.Context, targetID uuid.UUID) error {
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.ErrForbidden
	}

	callerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if callerID == targetID {
		return domain.NewValidationError("user_id", "cannot delete yourself")
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("user.DeleteUser: %w", err)
	}

	s.log.InfoContext(ctx, "user deleted", "target_user_id", targetID)

	return nil
}
