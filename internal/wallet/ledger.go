// Package wallet is the account ledger: user balances, the append-only
// transactions log and the rolling rating. The ledger functions run on the
// caller's transaction so a balance move commits or rolls back together with
// the state change that caused it.
package wallet

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/sudo-init-do/workhub/internal/domain"
)

// Debit takes amount from the user's balance and logs the entry.
// It fails with domain.ErrInsufficientFunds when balance < amount.
func Debit(ctx context.Context, q domain.Queries, userID string, amount int64, typ domain.EntryType, ref string) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domain.Invalid("amount", "must be greater than 0")
	}
	u, err := q.LockUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}
	if u.Balance < amount {
		return nil, domain.ErrInsufficientFunds
	}
	return move(ctx, q, u, -amount, typ, ref)
}

// Credit adds amount to the user's balance and logs the entry. A credit that
// would overflow the balance is refused.
func Credit(ctx context.Context, q domain.Queries, userID string, amount int64, typ domain.EntryType, ref string) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domain.Invalid("amount", "must be greater than 0")
	}
	u, err := q.LockUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}
	if amount > math.MaxInt64-u.Balance {
		return nil, domain.Invalid("amount", "too large")
	}
	return move(ctx, q, u, amount, typ, ref)
}

func move(ctx context.Context, q domain.Queries, u *domain.User, delta int64, typ domain.EntryType, ref string) (*domain.LedgerEntry, error) {
	balance := u.Balance + delta
	if err := q.SetUserBalance(ctx, u.ID, balance); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:           uuid.NewString(),
		UserID:       u.ID,
		Type:         typ,
		Direction:    domain.Credit,
		Amount:       delta,
		BalanceAfter: balance,
		Reference:    ref,
	}
	if delta < 0 {
		entry.Direction = domain.Debit
		entry.Amount = -delta
	}
	if err := q.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}
	return entry, nil
}

// RecordScore recomputes the user's rating as the mean of every review they
// have received. With no reviews left the rating is cleared.
func RecordScore(ctx context.Context, q domain.Queries, responderID string) (*float64, error) {
	if _, err := q.LockUser(ctx, responderID); err != nil {
		return nil, fmt.Errorf("lock responder: %w", err)
	}
	count, mean, err := q.ScoreSummary(ctx, responderID)
	if err != nil {
		return nil, fmt.Errorf("score summary: %w", err)
	}

	var rating *float64
	if count > 0 {
		rating = &mean
	}
	if err := q.SetUserRating(ctx, responderID, rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}
	return rating, nil
}
