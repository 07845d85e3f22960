package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

type mockNotificationRepo struct {
	ListByUserFunc        func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	CountUnreadFunc       func(ctx context.Context, userID uuid.UUID) (int, error)
	MarkReadFunc          func(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllReadFunc       func(ctx context.Context, userID uuid.UUID) error
	CreateChatMessageFunc func(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error)
	ListChatMessagesFunc  func(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	return m.ListByUserFunc(ctx, userID, limit, offset)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.CountUnreadFunc(ctx, userID)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return m.MarkReadFunc(ctx, userID, notificationID)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return m.MarkAllReadFunc(ctx, userID)
}

func (m *mockNotificationRepo) CreateChatMessage(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	return m.CreateChatMessageFunc(ctx, msg)
}

func (m *mockNotificationRepo) ListChatMessages(ctx context.Context, questionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	return m.ListChatMessagesFunc(ctx, questionID, limit)
}

type mockUserRepo struct{}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return &domain.User{ID: id, Username: "tester"}, nil
}

type mockPublisher struct {
	published []uuid.UUID
}

func (m *mockPublisher) PublishChat(questionID uuid.UUID, msg *domain.ChatMessage) {
	m.published = append(m.published, questionID)
}

func newTestService(repo *mockNotificationRepo, pub Publisher) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, repo, &mockUserRepo{}, pub)
}

func TestService_List_ReturnsFeedWithUnreadCount(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &mockNotificationRepo{
		ListByUserFunc: func(ctx context.Context, id uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
			if limit != defaultPageSize {
				t.Errorf("limit: got %d, want default %d", limit, defaultPageSize)
			}
			return []*domain.Notification{
				{ID: uuid.New(), UserID: id, Type: domain.NotificationBadgeEarned},
				{ID: uuid.New(), UserID: id, Type: domain.NotificationHeartReceived, Read: true},
			}, nil
		},
		CountUnreadFunc: func(ctx context.Context, id uuid.UUID) (int, error) {
			return 1, nil
		},
	}

	feed, err := newTestService(repo, nil).List(context.Background(), userID, 0, -5)
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(feed.Notifications) != 2 {
		t.Errorf("notifications: got %d, want 2", len(feed.Notifications))
	}
	if feed.UnreadCount != 1 {
		t.Errorf("unread: got %d, want 1", feed.UnreadCount)
	}
}

func TestService_MarkRead_ForeignNotificationNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockNotificationRepo{
		MarkReadFunc: func(ctx context.Context, userID, notificationID uuid.UUID) error {
			return domain.ErrNotFound
		},
	}

	err := newTestService(repo, nil).MarkRead(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestService_PostChat_PersistsThenPublishes(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	repo := &mockNotificationRepo{
		CreateChatMessageFunc: func(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
			if m.Username != "tester" {
				t.Errorf("username: got %q, want tester", m.Username)
			}
			return m, nil
		},
	}
	pub := &mockPublisher{}

	msg, err := newTestService(repo, pub).PostChat(context.Background(), uuid.New(), questionID, "hallo allemaal")
	if err != nil {
		t.Fatalf("PostChat: unexpected error: %v", err)
	}
	if msg.QuestionID != questionID {
		t.Errorf("question id: got %s, want %s", msg.QuestionID, questionID)
	}
	if len(pub.published) != 1 || pub.published[0] != questionID {
		t.Errorf("published: got %v", pub.published)
	}
}

func TestService_PostChat_EmptyTextRejected(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	repo := &mockNotificationRepo{
		CreateChatMessageFunc: func(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
			t.Error("empty message must not persist")
			return m, nil
		},
	}

	_, err := newTestService(repo, pub).PostChat(context.Background(), uuid.New(), uuid.New(), "   ")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}
	if len(pub.published) != 0 {
		t.Error("nothing should be published for invalid input")
	}
}

func TestService_PostChat_RepoErrorSkipsPublish(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("insert failed")
	repo := &mockNotificationRepo{
		CreateChatMessageFunc: func(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
			return nil, repoErr
		},
	}
	pub := &mockPublisher{}

	_, err := newTestService(repo, pub).PostChat(context.Background(), uuid.New(), uuid.New(), "bericht")
	if !errors.Is(err, repoErr) {
		t.Errorf("expected repo error, got: %v", err)
	}
	if len(pub.published) != 0 {
		t.Error("failed persist must not publish")
	}
}
