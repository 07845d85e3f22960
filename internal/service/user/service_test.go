package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/pkg/ctxutil"
)

type mockUserRepo struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*domain.User, int, error)
	UpdateProfileFunc func(ctx context.Context, id uuid.UUID, avatarURL *string, timezone *string) (*domain.User, error)
	UpdateRoleFunc    func(ctx context.Context, id uuid.UUID, role string) (*domain.User, error)
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, int, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, avatarURL *string, timezone *string) (*domain.User, error) {
	return m.UpdateProfileFunc(ctx, id, avatarURL, timezone)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error) {
	return m.UpdateRoleFunc(ctx, id, role)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedCtx(id uuid.UUID, role string) context.Context {
	ctx := ctxutil.WithUserID(context.Background(), id)
	return ctxutil.WithRole(ctx, role)
}

func TestService_GetProfile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &mockUserRepo{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			if id != userID {
				return nil, domain.ErrNotFound
			}
			return &domain.User{ID: userID, Username: "anna_v"}, nil
		},
	}
	svc := NewService(testLogger(), repo)

	got, err := svc.GetProfile(authedCtx(userID, "user"))
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Username != "anna_v" {
		t.Errorf("username = %q, want %q", got.Username, "anna_v")
	}
}

func TestService_GetProfile_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := NewService(testLogger(), &mockUserRepo{})
	if _, err := svc.GetProfile(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("GetProfile() error = %v, want ErrUnauthorized", err)
	}
}

func TestService_UpdateProfile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	var gotAvatar, gotTZ *string
	repo := &mockUserRepo{
		UpdateProfileFunc: func(_ context.Context, id uuid.UUID, avatarURL *string, timezone *string) (*domain.User, error) {
			gotAvatar, gotTZ = avatarURL, timezone
			return &domain.User{ID: id}, nil
		},
	}
	svc := NewService(testLogger(), repo)

	avatar := "https://cdn.example.com/a.png"
	tz := "Asia/Tokyo"
	_, err := svc.UpdateProfile(authedCtx(userID, "user"), UpdateProfileInput{
		AvatarURL: &avatar,
		Timezone:  &tz,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if gotAvatar == nil || *gotAvatar != avatar {
		t.Errorf("avatarURL = %v, want %q", gotAvatar, avatar)
	}
	if gotTZ == nil || *gotTZ != tz {
		t.Errorf("timezone = %v, want %q", gotTZ, tz)
	}
}

func TestService_UpdateProfile_InvalidTimezone(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		UpdateProfileFunc: func(_ context.Context, _ uuid.UUID, _ *string, _ *string) (*domain.User, error) {
			t.Error("UpdateProfile should not be called for invalid input")
			return nil, nil
		},
	}
	svc := NewService(testLogger(), repo)

	bad := "Mars/Olympus_Mons"
	_, err := svc.UpdateProfile(authedCtx(uuid.New(), "user"), UpdateProfileInput{Timezone: &bad})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("UpdateProfile() error = %v, want ErrValidation", err)
	}
}

func TestService_ListUsers_AdminOnly(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		ListFunc: func(_ context.Context, limit, offset int) ([]*domain.User, int, error) {
			if limit != defaultListLimit || offset != 0 {
				t.Errorf("List(%d, %d), want defaults", limit, offset)
			}
			return []*domain.User{{Username: "anna_v"}}, 1, nil
		},
	}
	svc := NewService(testLogger(), repo)

	if _, _, err := svc.ListUsers(authedCtx(uuid.New(), "user"), 0, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("ListUsers() as user error = %v, want ErrForbidden", err)
	}

	users, total, err := svc.ListUsers(authedCtx(uuid.New(), "admin"), 0, -5)
	if err != nil {
		t.Fatalf("ListUsers() as admin error = %v", err)
	}
	if len(users) != 1 || total != 1 {
		t.Errorf("got %d users total %d, want 1 and 1", len(users), total)
	}
}

func TestService_SetUserRole(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	targetID := uuid.New()
	repo := &mockUserRepo{
		UpdateRoleFunc: func(_ context.Context, id uuid.UUID, role string) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.UserRole(role)}, nil
		},
	}
	svc := NewService(testLogger(), repo)

	got, err := svc.SetUserRole(authedCtx(adminID, "admin"), targetID, domain.UserRoleAdmin)
	if err != nil {
		t.Fatalf("SetUserRole() error = %v", err)
	}
	if got.Role != domain.UserRoleAdmin {
		t.Errorf("role = %q, want admin", got.Role)
	}
}

func TestService_SetUserRole_SelfDemotionRejected(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	svc := NewService(testLogger(), &mockUserRepo{})

	_, err := svc.SetUserRole(authedCtx(adminID, "admin"), adminID, domain.UserRoleUser)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("SetUserRole() error = %v, want ErrValidation", err)
	}
}

func TestService_DeleteUser(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	targetID := uuid.New()
	var deleted []uuid.UUID
	repo := &mockUserRepo{
		DeleteFunc: func(_ context.Context, id uuid.UUID) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	svc := NewService(testLogger(), repo)

	if err := svc.DeleteUser(authedCtx(uuid.New(), "user"), targetID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("DeleteUser() as user error = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteUser(authedCtx(adminID, "admin"), adminID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("DeleteUser() self error = %v, want ErrValidation", err)
	}
	if err := svc.DeleteUser(authedCtx(adminID, "admin"), targetID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if len(deleted) != 1 || deleted[0] != targetID {
		t.Errorf("deleted = %v, want only the target", deleted)
	}
}
