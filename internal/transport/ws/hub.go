// Package ws pushes notifications and question chat over websockets.
// Delivery is best-effort: every event is persisted before it reaches the
// hub, so a dropped frame only delays what the next poll returns anyway.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

// event is the envelope for every frame the hub sends.
type event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub tracks connected clients and their question subscriptions.
type Hub struct {
	log *slog.Logger

	mu         sync.RWMutex
	byUser     map[uuid.UUID]map[*Client]struct{}
	byQuestion map[uuid.UUID]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log.With("component", "ws_hub"),
		byUser:     make(map[uuid.UUID]map[*Client]struct{}),
		byQuestion: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.byUser[c.userID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.byUser[c.userID] = clients
	}
	clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.byUser[c.userID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	for questionID := range c.subs {
		h.dropSubLocked(c, questionID)
	}
	close(c.send)
}

func (h *Hub) subscribe(c *Client, questionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.byQuestion[questionID]
	if !ok {
		subs = make(map[*Client]struct{})
		h.byQuestion[questionID] = subs
	}
	subs[c] = struct{}{}
	c.subs[questionID] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, questionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropSubLocked(c, questionID)
	delete(c.subs, questionID)
}

func (h *Hub) dropSubLocked(c *Client, questionID uuid.UUID) {
	if subs, ok := h.byQuestion[questionID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.byQuestion, questionID)
		}
	}
}

// PublishChat fans a chat message out to everyone subscribed to its question
// thread.
func (h *Hub) PublishChat(questionID uuid.UUID, m *domain.ChatMessage) {
	frame, err := marshalEvent("chat", chatPayload(m))
	if err != nil {
		h.log.Error("marshal chat event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.byQuestion[questionID] {
		h.deliver(c, frame)
	}
}

// PublishNotification pushes a notification to every connection the user has
// open.
func (h *Hub) PublishNotification(userID uuid.UUID, n *domain.Notification) {
	frame, err := marshalEvent("notification", notificationPayload(n))
	if err != nil {
		h.log.Error("marshal notification event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.byUser[userID] {
		h.deliver(c, frame)
	}
}

// deliver enqueues a frame without blocking. Slow consumers lose frames
// rather than stalling the publisher.
func (h *Hub) deliver(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.log.Debug("dropping frame for slow client", "user_id", c.userID)
	}
}

func marshalEvent(eventType string, payload any) ([]byte, error) {
	return json.Marshal(event{Type: eventType, Payload: payload})
}

type chatMessagePayload struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	AuthorID   string `json:"authorId"`
	Username   string `json:"username"`
	Text       string `json:"text"`
	CreatedAt  string `json:"createdAt"`
}

func chatPayload(m *domain.ChatMessage) chatMessagePayload {
	return chatMessagePayload{
		ID:         m.ID.String(),
		QuestionID: m.QuestionID.String(),
		AuthorID:   m.AuthorID.String(),
		Username:   m.Username,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type notificationEventPayload struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Message    string  `json:"message"`
	QuestionID *string `json:"questionId,omitempty"`
	Read       bool    `json:"read"`
	CreatedAt  string  `json:"createdAt"`
}

func notificationPayload(n *domain.Notification) notificationEventPayload {
	p := notificationEventPayload{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.QuestionID != nil {
		qid := n.QuestionID.String()
		p.QuestionID = &qid
	}
	return p
}
