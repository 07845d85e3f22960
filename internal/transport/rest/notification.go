package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/notification"
)

// notificationService defines the minimal interface needed by NotificationHandler.
type notificationService interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*notification.Feed, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	PostChat(ctx context.Context, userID, questionID uuid.UUID, text string) (*domain.ChatMessage, error)
	ListChat(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

// NotificationHandler serves the notification feed and question chat.
type NotificationHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: logger.With("handler", "notification")}
}

type feedResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// List handles GET /me/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	feed, err := h.svc.List(r.Context(), userID, queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, feedResponse{
		Notifications: toNotificationResponses(feed.Notifications),
		UnreadCount:   feed.UnreadCount,
	})
}

// MarkRead handles POST /me/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	notificationID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.MarkRead(r.Context(), userID, notificationID); err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /me/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.MarkAllRead(r.Context(), userID); err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type postChatRequest struct {
	Text string `json:"text"`
}

// PostChat handles POST /questions/{id}/chat.
func (h *NotificationHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req postChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.svc.PostChat(r.Context(), userID, questionID, req.Text)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toChatMessageResponse(msg))
}

// ListChat handles GET /questions/{id}/chat.
func (h *NotificationHandler) ListChat(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.svc.ListChat(r.Context(), questionID, queryInt(r, "limit", 0))
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]chatMessageResponse{
		"messages": toChatMessageResponses(messages),
	})
}
