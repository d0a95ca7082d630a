// Package admin is the operator surface: dashboard counts, the user list
// with suspension, and per-user balances.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/domain"
)

// Wallet is one row of the balances view.
type Wallet struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Balance   int64     `json:"balance"`
	Rating    *float64  `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	store domain.Store
	log   logrus.FieldLogger
}

func NewService(store domain.Store, log logrus.FieldLogger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	var st *domain.Stats
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		st, err = q.Stats(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListUsers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *Service) Wallets(ctx context.Context) ([]Wallet, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Wallet, 0, len(users))
	for _, u := range users {
		out = append(out, Wallet{UserID: u.ID, Email: u.Email, Balance: u.Balance, Rating: u.Rating, CreatedAt: u.CreatedAt})
	}
	return out, nil
}

// SetActive suspends or reactivates an account. Admins cannot suspend
// themselves.
func (s *Service) SetActive(ctx context.Context, adminID, userID string, active bool) error {
	if !active && adminID == userID {
		return fmt.Errorf("suspend self: %w", domain.ErrForbidden)
	}
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		return q.SetUserActive(ctx, userID, active)
	})
	if err != nil {
		return fmt.Errorf("set active %s: %w", userID, err)
	}
	s.log.WithFields(logrus.Fields{"admin_id": adminID, "user_id": userID, "active": active}).Info("account status changed")
	return nil
}
