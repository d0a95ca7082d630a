package wallet

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/metrics"
)

// Service exposes the self-service money operations.
type Service struct {
	store domain.Store
	log   logrus.FieldLogger
}

func NewService(store domain.Store, log logrus.FieldLogger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.store.View(ctx, func(q domain.Queries) error {
		u, err := q.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		balance = u.Balance
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	return balance, nil
}

// Replenish credits the caller's own account.
func (s *Service) Replenish(ctx context.Context, userID string, sum int64) (*domain.LedgerEntry, error) {
	return s.apply(ctx, userID, sum, domain.EntryReplenish, Credit)
}

// Withdraw debits the caller's own account. Withdrawing the whole balance
// is allowed and leaves it at zero.
func (s *Service) Withdraw(ctx context.Context, userID string, sum int64) (*domain.LedgerEntry, error) {
	return s.apply(ctx, userID, sum, domain.EntryWithdrawal, Debit)
}

type moveFunc func(context.Context, domain.Queries, string, int64, domain.EntryType, string) (*domain.LedgerEntry, error)

func (s *Service) apply(ctx context.Context, userID string, sum int64, typ domain.EntryType, fn moveFunc) (*domain.LedgerEntry, error) {
	if sum <= 0 {
		return nil, domain.Invalid("sum", "must be greater than 0")
	}
	if sum > domain.MaxAmount {
		return nil, domain.Invalid("sum", "too large")
	}

	var entry *domain.LedgerEntry
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		entry, err = fn(ctx, q, userID, sum, typ, "")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}

	metrics.RecordEntries(entry)
	s.log.WithFields(logrus.Fields{
		"user_id":       userID,
		"type":          typ,
		"amount":        sum,
		"balance_after": entry.BalanceAfter,
	}).Info("balance updated")
	return entry, nil
}

// History lists the user's ledger entries, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	return s.list(ctx, userID)
}

// AllTransactions lists every ledger entry for the admin view.
func (s *Service) AllTransactions(ctx context.Context) ([]domain.LedgerEntry, error) {
	return s.list(ctx, "")
}

func (s *Service) list(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListEntries(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}
