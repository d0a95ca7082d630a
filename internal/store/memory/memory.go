// Package memory is an in-process domain.Store. Transactions are serialised
// behind a write lock and rolled back by restoring a snapshot, so it behaves
// like the Postgres store under concurrent use. Views share a read lock and
// refuse writes. It backs tests and
// STORAGE=memory development runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sudo-init-do/workhub/internal/domain"
)

type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// WithClock replaces the time source; tests use it for ordering.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Tx(ctx context.Context, fn func(q domain.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&queries{st: s.st, now: s.now}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(q domain.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(readOnly{&queries{st: s.st, now: s.now}})
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

type state struct {
	users         map[string]domain.User
	ads           map[string]domain.Ad
	responses     map[string]domain.Response
	reviews       map[string]domain.Review
	tickets       map[string]domain.SupportTicket
	notifications map[string]domain.Notification
	entries       []domain.LedgerEntry

	// insertion order per table
	userIDs, adIDs, responseIDs, reviewIDs, ticketIDs, notificationIDs []string
}

func newState() *state {
	return &state{
		users:         map[string]domain.User{},
		ads:           map[string]domain.Ad{},
		responses:     map[string]domain.Response{},
		reviews:       map[string]domain.Review{},
		tickets:       map[string]domain.SupportTicket{},
		notifications: map[string]domain.Notification{},
	}
}

func (st *state) clone() *state {
	c := &state{
		users:           cloneMap(st.users),
		ads:             cloneMap(st.ads),
		responses:       cloneMap(st.responses),
		reviews:         cloneMap(st.reviews),
		tickets:         cloneMap(st.tickets),
		notifications:   cloneMap(st.notifications),
		entries:         append([]domain.LedgerEntry(nil), st.entries...),
		userIDs:         append([]string(nil), st.userIDs...),
		adIDs:           append([]string(nil), st.adIDs...),
		responseIDs:     append([]string(nil), st.responseIDs...),
		reviewIDs:       append([]string(nil), st.reviewIDs...),
		ticketIDs:       append([]string(nil), st.ticketIDs...),
		notificationIDs: append([]string(nil), st.notificationIDs...),
	}
	return c
}

func cloneMap[V any](m map[string]V) map[string]V {
	c := make(map[string]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
