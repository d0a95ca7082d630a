package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/sudo-init-do/workhub/internal/domain"
)

// Task type constants
const (
	TaskResponseReceived = "notify:response_received"
	TaskResponseAccepted = "notify:response_accepted"
	TaskResponseRejected = "notify:response_rejected"
	TaskAdCompleted      = "notify:ad_completed"
	TaskReviewReceived   = "notify:review_received"
)

// Event is the payload of every notification task.
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Reference string    `json:"reference"`
	At        time.Time `json:"at"`
}

// Notifier delivers events to their recipient.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

func ResponseReceived(ad *domain.Ad, r *domain.Response) Event {
	return Event{
		Type:      TaskResponseReceived,
		UserID:    ad.EmployerID,
		Title:     "New response to your ad",
		Body:      fmt.Sprintf("Someone responded to %q.", ad.Name),
		Reference: r.ID,
		At:        time.Now(),
	}
}

func ResponseAccepted(ad *domain.Ad, r *domain.Response) Event {
	return Event{
		Type:      TaskResponseAccepted,
		UserID:    r.UserID,
		Title:     "Your response was accepted",
		Body:      fmt.Sprintf("You are now the worker on %q.", ad.Name),
		Reference: ad.ID,
		At:        time.Now(),
	}
}

func ResponseRejected(ad *domain.Ad, r *domain.Response) Event {
	return Event{
		Type:      TaskResponseRejected,
		UserID:    r.UserID,
		Title:     "Your response was rejected",
		Body:      fmt.Sprintf("The employer of %q chose someone else.", ad.Name),
		Reference: ad.ID,
		At:        time.Now(),
	}
}

func AdCompleted(ad *domain.Ad) Event {
	worker := ""
	if ad.WorkerID != nil {
		worker = *ad.WorkerID
	}
	return Event{
		Type:      TaskAdCompleted,
		UserID:    worker,
		Title:     "Ad completed and paid",
		Body:      fmt.Sprintf("%q is completed. %d has been released to your balance.", ad.Name, ad.Cost),
		Reference: ad.ID,
		At:        time.Now(),
	}
}

func ReviewReceived(ad *domain.Ad, rv *domain.Review) Event {
	return Event{
		Type:      TaskReviewReceived,
		UserID:    rv.ResponderID,
		Title:     "You received a review",
		Body:      fmt.Sprintf("Score %d for %q.", rv.Score, ad.Name),
		Reference: rv.ID,
		At:        time.Now(),
	}
}
