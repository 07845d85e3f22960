package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/user"
)

// userService defines the minimal interface needed by UserHandler.
type userService interface {
	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, input user.UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, int, error)
	SetUserRole(ctx context.Context, targetID uuid.UUID, role domain.UserRole) (*domain.User, error)
	DeleteUser(ctx context.Context, targetID uuid.UUID) error
}

// UserHandler serves profile and admin user-management endpoints.
type UserHandler struct {
	svc userService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

// GetProfile handles GET /me/profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

type updateProfileRequest struct {
	AvatarURL *string `json:"avatarUrl"`
	Timezone  *string `json:"timezone"`
}

// UpdateProfile handles PATCH /me/profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), user.UpdateProfileInput{
		AvatarURL: req.AvatarURL,
		Timezone:  req.Timezone,
	})
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

type userListResponse struct {
	Users []userResponse `json:"users"`
	Total int            `json:"total"`
}

// ListUsers handles GET /admin/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, total, err := h.svc.ListUsers(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, userListResponse{Users: out, Total: total})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetUserRole handles PUT /admin/users/{id}/role.
func (h *UserHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.SetUserRole(r.Context(), targetID, domain.UserRole(req.Role))
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// DeleteUser handles DELETE /admin/users/{id}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), targetID); err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
