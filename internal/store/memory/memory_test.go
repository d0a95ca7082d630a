package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/workhub/internal/domain"
)

func seedUser(t *testing.T, s *Store, id, email string, balance int64) {
	t.Helper()
	err := s.Tx(context.Background(), func(q domain.Queries) error {
		return q.CreateUser(context.Background(), &domain.User{ID: id, Email: email, Phone: id, Balance: balance, IsActive: true, Role: domain.RoleUser})
	})
	require.NoError(t, err)
}

func TestTxRollsBackOnError(t *testing.T) {
	s := New()
	seedUser(t, s, "u1", "a@example.com", 500)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Tx(ctx, func(q domain.Queries) error {
		require.NoError(t, q.SetUserBalance(ctx, "u1", 0))
		require.NoError(t, q.CreateAd(ctx, &domain.Ad{ID: "ad1", EmployerID: "u1", Cost: 500, Status: domain.AdPublished}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.View(ctx, func(q domain.Queries) error {
		u, err := q.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(500), u.Balance)

		_, err = q.GetAd(ctx, "ad1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestViewRefusesWrites(t *testing.T) {
	s := New()
	seedUser(t, s, "u1", "a@example.com", 500)
	ctx := context.Background()

	err := s.View(ctx, func(q domain.Queries) error {
		return q.SetUserBalance(ctx, "u1", 1)
	})
	require.ErrorIs(t, err, ErrReadOnly)
	err = s.View(ctx, func(q domain.Queries) error {
		return q.AppendEntry(ctx, &domain.LedgerEntry{ID: "e1", UserID: "u1"})
	})
	require.ErrorIs(t, err, ErrReadOnly)

	require.NoError(t, s.View(ctx, func(q domain.Queries) error {
		u, err := q.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(500), u.Balance)
		return nil
	}))
}

func TestUniqueConstraints(t *testing.T) {
	s := New()
	seedUser(t, s, "u1", "a@example.com", 0)
	seedUser(t, s, "u2", "b@example.com", 0)
	ctx := context.Background()

	err := s.Tx(ctx, func(q domain.Queries) error {
		return q.CreateUser(ctx, &domain.User{ID: "u3", Email: "A@example.com", Phone: "x"})
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, s.Tx(ctx, func(q domain.Queries) error {
		require.NoError(t, q.CreateAd(ctx, &domain.Ad{ID: "ad1", EmployerID: "u1", Cost: 1, Status: domain.AdPublished}))
		require.NoError(t, q.CreateResponse(ctx, &domain.Response{ID: "r1", AdID: "ad1", UserID: "u2", Status: domain.ResponsePending}))
		require.NoError(t, q.CreateResponse(ctx, &domain.Response{ID: "r2", AdID: "ad1", UserID: "u1", Status: domain.ResponsePending}))
		return q.SetResponseStatus(ctx, "r1", domain.ResponseAccepted)
	}))

	err = s.Tx(ctx, func(q domain.Queries) error {
		return q.SetResponseStatus(ctx, "r2", domain.ResponseAccepted)
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.Tx(ctx, func(q domain.Queries) error {
		return q.CreateResponse(ctx, &domain.Response{ID: "r3", AdID: "ad1", UserID: "u2"})
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListsAreNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s := New().WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	seedUser(t, s, "u1", "a@example.com", 0)
	ctx := context.Background()

	require.NoError(t, s.Tx(ctx, func(q domain.Queries) error {
		for _, id := range []string{"ad1", "ad2", "ad3"} {
			if err := q.CreateAd(ctx, &domain.Ad{ID: id, EmployerID: "u1", Cost: 1, Status: domain.AdPublished}); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.View(ctx, func(q domain.Queries) error {
		ads, err := q.ListAdsByEmployer(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, ads, 3)
		assert.Equal(t, "ad3", ads[0].ID)
		assert.Equal(t, "ad1", ads[2].ID)
		assert.True(t, ads[0].CreatedAt.After(ads[2].CreatedAt))
		return nil
	}))
}

func TestScoreSummaryAndStats(t *testing.T) {
	s := New()
	seedUser(t, s, "emp", "e@example.com", 0)
	seedUser(t, s, "w", "w@example.com", 0)
	ctx := context.Background()

	require.NoError(t, s.Tx(ctx, func(q domain.Queries) error {
		require.NoError(t, q.CreateAd(ctx, &domain.Ad{ID: "a1", EmployerID: "emp", Cost: 100, Status: domain.AdCompleted}))
		require.NoError(t, q.CreateAd(ctx, &domain.Ad{ID: "a2", EmployerID: "emp", Cost: 40, Status: domain.AdPublished}))
		require.NoError(t, q.CreateReview(ctx, &domain.Review{ID: "rv1", AdID: "a1", ResponderID: "w", Score: 5}))
		return q.CreateReview(ctx, &domain.Review{ID: "rv2", AdID: "a2", ResponderID: "w", Score: 2})
	}))

	require.NoError(t, s.View(ctx, func(q domain.Queries) error {
		n, mean, err := q.ScoreSummary(ctx, "w")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.InDelta(t, 3.5, mean, 1e-9)

		st, err := q.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, st.Users)
		assert.Equal(t, int64(40), st.EscrowHeld)
		assert.Equal(t, 1, st.AdsByStatus[domain.AdCompleted])
		return nil
	}))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New().Tx(ctx, func(domain.Queries) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentViews(t *testing.T) {
	s := New()
	seedUser(t, s, "u1", "a@example.com", 500)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.View(ctx, func(q domain.Queries) error {
				_, err := q.ListUsers(ctx)
				return err
			}))
		}()
		go func(n int64) {
			defer wg.Done()
			assert.NoError(t, s.Tx(ctx, func(q domain.Queries) error {
				return q.SetUserBalance(ctx, "u1", n)
			}))
		}(int64(i))
	}
	wg.Wait()
}
