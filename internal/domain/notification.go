package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one row in a user's notification feed. Delivered over the
// websocket hub when the user is connected, persisted regardless.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      NotificationType
	Message   string
	// QuestionID links the notification to a question when applicable.
	QuestionID *uuid.UUID
	Read       bool
	CreatedAt  time.Time
}

// ChatMessage is one message in a question's discussion thread.
type ChatMessage struct {
	ID         uuid.UUID
	QuestionID uuid.UUID
	AuthorID   uuid.UUID
	Username   string
	Text       string
	CreatedAt  time.Time
}
