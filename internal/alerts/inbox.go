package alerts

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sudo-init-do/workhub/internal/domain"
)

// Inbox stores events as in-app notifications. It is the delivery end of
// the queue worker, and the direct notifier when no queue is configured.
type Inbox struct {
	store domain.Store
}

func NewInbox(store domain.Store) *Inbox {
	return &Inbox{store: store}
}

func (i *Inbox) Notify(ctx context.Context, ev Event) error {
	if ev.UserID == "" {
		return errors.New("notification without recipient")
	}
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    ev.UserID,
		Type:      ev.Type,
		Title:     ev.Title,
		Body:      ev.Body,
		Reference: ev.Reference,
		CreatedAt: ev.At,
	}
	return i.store.Tx(ctx, func(q domain.Queries) error {
		return q.CreateNotification(ctx, n)
	})
}

func (i *Inbox) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := i.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListNotifications(ctx, userID)
		return err
	})
	return out, err
}

func (i *Inbox) MarkRead(ctx context.Context, id, userID string) error {
	return i.store.Tx(ctx, func(q domain.Queries) error {
		return q.MarkNotificationRead(ctx, id, userID)
	})
}
