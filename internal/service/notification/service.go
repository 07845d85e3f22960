package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

const chatTextMaxLen = 500

// defaultPageSize bounds notification feed pages.
const defaultPageSize = 20

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type notificationRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CreateChatMessage(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error)
	ListChatMessages(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Publisher pushes events to connected websocket clients. Pushes are
// best-effort; a user who is offline reads the persisted rows later.
type Publisher interface {
	PublishChat(questionID uuid.UUID, m *domain.ChatMessage)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service serves the notification feed and question-thread chat.
type Service struct {
	notifications notificationRepo
	users         userRepo
	publisher     Publisher
	log           *slog.Logger
}

// NewService creates a new Notification service. publisher may be nil; chat
// then persists without realtime fan-out.
func NewService(log *slog.Logger, notifications notificationRepo, users userRepo, publisher Publisher) *Service {
	return &Service{
		notifications: notifications,
		users:         users,
		publisher:     publisher,
		log:           log.With("service", "notification"),
	}
}

// ---------------------------------------------------------------------------
// Feed
// ---------------------------------------------------------------------------

// Feed is one page of a user's notification feed with the unread total.
type Feed struct {
	Notifications []*domain.Notification
	UnreadCount   int
}

// List returns a page of the user's notifications, newest first, with the
// unread count for the badge in the UI.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*Feed, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.notifications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("notification.List: %w", err)
	}

	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notification.List: %w", err)
	}

	return &Feed{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead marks one of the user's notifications as read. Another user's
// notification surfaces as domain.ErrNotFound, not a forbidden error, so ids
// cannot be probed.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.notifications.MarkRead(ctx, userID, notificationID); err != nil {
		return fmt.Errorf("notification.MarkRead: %w", err)
	}
	return nil
}

// MarkAllRead marks the user's whole feed as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("notification.MarkAllRead: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

// PostChat persists a chat message in a question's thread and fans it out to
// subscribed websocket clients.
func (s *Service) PostChat(ctx context.Context, userID, questionID uuid.UUID, text string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("notification.PostChat: %w", domain.NewValidationError("text", "required"))
	}
	if len(text) > chatTextMaxLen {
		return nil, fmt.Errorf("notification.PostChat: %w", domain.NewValidationError("text", "too long (max 500)"))
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notification.PostChat: %w", err)
	}

	message, err := s.notifications.CreateChatMessage(ctx, &domain.ChatMessage{
		ID:         uuid.New(),
		QuestionID: questionID,
		AuthorID:   userID,
		Username:   author.Username,
		Text:       text,
	})
	if err != nil {
		return nil, fmt.Errorf("notification.PostChat: %w", err)
	}

	if s.publisher != nil {
		s.publisher.PublishChat(questionID, message)
	}

	return message, nil
}

// ListChat returns a question thread's recent messages, oldest first.
func (s *Service) ListChat(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	messages, err := s.notifications.ListChatMessages(ctx, questionID, limit)
	if err != nil {
		return nil, fmt.Errorf("notification.ListChat: %w", err)
	}

	return messages, nil
}
