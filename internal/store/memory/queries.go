package memory

import (
	"context"
	"strings"
	"time"

	"github.com/sudo-init-do/workhub/internal/domain"
)

type queries struct {
	st  *state
	now func() time.Time
}

var _ domain.Queries = (*queries)(nil)

func (q *queries) stamp(t *time.Time) {
	if t.IsZero() {
		*t = q.now()
	}
}

// ---- users ----

func (q *queries) CreateUser(_ context.Context, u *domain.User) error {
	for _, existing := range q.st.users {
		if strings.EqualFold(existing.Email, u.Email) || (u.Phone != "" && existing.Phone == u.Phone) {
			return domain.ErrConflict
		}
	}
	q.stamp(&u.CreatedAt)
	u.UpdatedAt = u.CreatedAt
	q.st.users[u.ID] = *u
	q.st.userIDs = append(q.st.userIDs, u.ID)
	return nil
}

func (q *queries) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := q.st.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (q *queries) LockUser(ctx context.Context, id string) (*domain.User, error) {
	return q.GetUser(ctx, id)
}

func (q *queries) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range q.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (q *queries) ListUsers(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(q.st.userIDs))
	for i := len(q.st.userIDs) - 1; i >= 0; i-- {
		out = append(out, q.st.users[q.st.userIDs[i]])
	}
	return out, nil
}

func (q *queries) updateUser(id string, fn func(u *domain.User)) error {
	u, ok := q.st.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = q.now()
	q.st.users[id] = u
	return nil
}

func (q *queries) SetUserBalance(_ context.Context, id string, balance int64) error {
	return q.updateUser(id, func(u *domain.User) { u.Balance = balance })
}

func (q *queries) SetUserRating(_ context.Context, id string, rating *float64) error {
	return q.updateUser(id, func(u *domain.User) {
		if rating == nil {
			u.Rating = nil
			return
		}
		v := *rating
		u.Rating = &v
	})
}

func (q *queries) SetUserActive(_ context.Context, id string, active bool) error {
	return q.updateUser(id, func(u *domain.User) { u.IsActive = active })
}

func (q *queries) SetUserRoleByEmail(ctx context.Context, email string, role domain.Role) error {
	u, err := q.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return q.updateUser(u.ID, func(u *domain.User) { u.Role = role })
}

// ---- ledger ----

func (q *queries) AppendEntry(_ context.Context, e *domain.LedgerEntry) error {
	q.stamp(&e.CreatedAt)
	q.st.entries = append(q.st.entries, *e)
	return nil
}

func (q *queries) ListEntries(_ context.Context, userID string) ([]domain.LedgerEntry, error) {
	out := []domain.LedgerEntry{}
	for i := len(q.st.entries) - 1; i >= 0; i-- {
		if userID == "" || q.st.entries[i].UserID == userID {
			out = append(out, q.st.entries[i])
		}
	}
	return out, nil
}

// ---- ads ----

func (q *queries) CreateAd(_ context.Context, a *domain.Ad) error {
	if _, ok := q.st.users[a.EmployerID]; !ok {
		return domain.ErrNotFound
	}
	q.stamp(&a.CreatedAt)
	a.UpdatedAt = a.CreatedAt
	q.st.ads[a.ID] = *a
	q.st.adIDs = append(q.st.adIDs, a.ID)
	return nil
}

func (q *queries) GetAd(_ context.Context, id string) (*domain.Ad, error) {
	a, ok := q.st.ads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (q *queries) LockAd(ctx context.Context, id string) (*domain.Ad, error) {
	return q.GetAd(ctx, id)
}

func (q *queries) UpdateAd(_ context.Context, a *domain.Ad) error {
	if _, ok := q.st.ads[a.ID]; !ok {
		return domain.ErrNotFound
	}
	a.UpdatedAt = q.now()
	q.st.ads[a.ID] = *a
	return nil
}

func (q *queries) listAds(match func(a domain.Ad) bool) []domain.Ad {
	out := []domain.Ad{}
	for i := len(q.st.adIDs) - 1; i >= 0; i-- {
		if a := q.st.ads[q.st.adIDs[i]]; match(a) {
			out = append(out, a)
		}
	}
	return out
}

func (q *queries) ListAdsByStatus(_ context.Context, status domain.AdStatus) ([]domain.Ad, error) {
	return q.listAds(func(a domain.Ad) bool { return a.Status == status }), nil
}

func (q *queries) ListAdsByEmployer(_ context.Context, employerID string) ([]domain.Ad, error) {
	return q.listAds(func(a domain.Ad) bool { return a.EmployerID == employerID }), nil
}

// ---- responses ----

func (q *queries) CreateResponse(_ context.Context, r *domain.Response) error {
	if _, ok := q.st.ads[r.AdID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range q.st.responses {
		if existing.AdID == r.AdID && existing.UserID == r.UserID {
			return domain.ErrConflict
		}
	}
	q.stamp(&r.CreatedAt)
	r.UpdatedAt = r.CreatedAt
	q.st.responses[r.ID] = *r
	q.st.responseIDs = append(q.st.responseIDs, r.ID)
	return nil
}

func (q *queries) GetResponse(_ context.Context, id string) (*domain.Response, error) {
	r, ok := q.st.responses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (q *queries) FindResponse(_ context.Context, adID, userID string) (*domain.Response, error) {
	for _, r := range q.st.responses {
		if r.AdID == adID && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (q *queries) listResponses(match func(r domain.Response) bool) []domain.Response {
	out := []domain.Response{}
	for i := len(q.st.responseIDs) - 1; i >= 0; i-- {
		if r := q.st.responses[q.st.responseIDs[i]]; match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (q *queries) LockResponses(ctx context.Context, adID string) ([]domain.Response, error) {
	return q.ListResponsesByAd(ctx, adID)
}

func (q *queries) SetResponseStatus(_ context.Context, id string, status domain.ResponseStatus) error {
	r, ok := q.st.responses[id]
	if !ok {
		return domain.ErrNotFound
	}
	if status == domain.ResponseAccepted {
		// mirrors the partial unique index on accepted responses
		for _, other := range q.st.responses {
			if other.ID != id && other.AdID == r.AdID && other.Status == domain.ResponseAccepted {
				return domain.ErrConflict
			}
		}
	}
	r.Status = status
	r.UpdatedAt = q.now()
	q.st.responses[id] = r
	return nil
}

func (q *queries) DeleteResponse(_ context.Context, id string) error {
	if _, ok := q.st.responses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(q.st.responses, id)
	q.st.responseIDs = removeID(q.st.responseIDs, id)
	return nil
}

func (q *queries) ListResponsesByAd(_ context.Context, adID string) ([]domain.Response, error) {
	return q.listResponses(func(r domain.Response) bool { return r.AdID == adID }), nil
}

func (q *queries) ListResponsesByUser(_ context.Context, userID string) ([]domain.Response, error) {
	return q.listResponses(func(r domain.Response) bool { return r.UserID == userID }), nil
}

// ---- reviews ----

func (q *queries) CreateReview(_ context.Context, r *domain.Review) error {
	for _, existing := range q.st.reviews {
		if existing.AdID == r.AdID {
			return domain.ErrConflict
		}
	}
	q.stamp(&r.CreatedAt)
	q.st.reviews[r.ID] = *r
	q.st.reviewIDs = append(q.st.reviewIDs, r.ID)
	return nil
}

func (q *queries) GetReview(_ context.Context, id string) (*domain.Review, error) {
	r, ok := q.st.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (q *queries) GetReviewByAd(_ context.Context, adID string) (*domain.Review, error) {
	for _, r := range q.st.reviews {
		if r.AdID == adID {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (q *queries) DeleteReview(_ context.Context, id string) error {
	if _, ok := q.st.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(q.st.reviews, id)
	q.st.reviewIDs = removeID(q.st.reviewIDs, id)
	return nil
}

func (q *queries) ListReviewsByResponder(_ context.Context, responderID string) ([]domain.Review, error) {
	out := []domain.Review{}
	for i := len(q.st.reviewIDs) - 1; i >= 0; i-- {
		if r := q.st.reviews[q.st.reviewIDs[i]]; r.ResponderID == responderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (q *queries) ScoreSummary(_ context.Context, responderID string) (int, float64, error) {
	count, sum := 0, 0
	for _, r := range q.st.reviews {
		if r.ResponderID == responderID {
			count++
			sum += r.Score
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, float64(sum) / float64(count), nil
}

// ---- support ----

func (q *queries) CreateTicket(_ context.Context, t *domain.SupportTicket) error {
	q.stamp(&t.CreatedAt)
	t.UpdatedAt = t.CreatedAt
	q.st.tickets[t.ID] = *t
	q.st.ticketIDs = append(q.st.ticketIDs, t.ID)
	return nil
}

func (q *queries) GetTicket(_ context.Context, id string) (*domain.SupportTicket, error) {
	t, ok := q.st.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (q *queries) ListTickets(_ context.Context, userID string) ([]domain.SupportTicket, error) {
	out := []domain.SupportTicket{}
	for i := len(q.st.ticketIDs) - 1; i >= 0; i-- {
		if t := q.st.tickets[q.st.ticketIDs[i]]; userID == "" || t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (q *queries) SetTicketStatus(_ context.Context, id string, status domain.SupportStatus) error {
	t, ok := q.st.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = q.now()
	q.st.tickets[id] = t
	return nil
}

// ---- notifications ----

func (q *queries) CreateNotification(_ context.Context, n *domain.Notification) error {
	q.stamp(&n.CreatedAt)
	q.st.notifications[n.ID] = *n
	q.st.notificationIDs = append(q.st.notificationIDs, n.ID)
	return nil
}

func (q *queries) ListNotifications(_ context.Context, userID string) ([]domain.Notification, error) {
	out := []domain.Notification{}
	for i := len(q.st.notificationIDs) - 1; i >= 0; i-- {
		if n := q.st.notifications[q.st.notificationIDs[i]]; n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (q *queries) MarkNotificationRead(_ context.Context, id, userID string) error {
	n, ok := q.st.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	if n.ReadAt == nil {
		now := q.now()
		n.ReadAt = &now
		q.st.notifications[id] = n
	}
	return nil
}

// ---- stats ----

func (q *queries) Stats(_ context.Context) (*domain.Stats, error) {
	s := &domain.Stats{
		Users:        len(q.st.users),
		AdsByStatus:  map[domain.AdStatus]int{},
		Responses:    len(q.st.responses),
		Reviews:      len(q.st.reviews),
		Tickets:      len(q.st.tickets),
		Transactions: len(q.st.entries),
	}
	for _, a := range q.st.ads {
		s.AdsByStatus[a.Status]++
		if a.Status == domain.AdDraft || a.Status == domain.AdPublished || a.Status == domain.AdInProgress {
			s.EscrowHeld += a.Cost
		}
	}
	return s, nil
}
