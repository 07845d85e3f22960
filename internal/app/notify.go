package app

import (
	"context"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/transport/ws"
)

// notificationStore is the persistence half of notification delivery.
type notificationStore interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

// pushingNotificationStore persists a notification and then pushes it to the
// user's open websocket connections. When the create runs inside a
// transaction the push can precede the commit; a rollback leaves a phantom
// frame, which clients reconcile on their next feed fetch.
type pushingNotificationStore struct {
	store notificationStore
	hub   *ws.Hub
}

func newPushingNotificationStore(store notificationStore, hub *ws.Hub) *pushingNotificationStore {
	return &pushingNotificationStore{store: store, hub: hub}
}

func (p *pushingNotificationStore) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	created, err := p.store.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	p.hub.PublishNotification(created.UserID, created)
	return created, nil
}
