package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/workhub/internal/domain"
)

type queries struct {
	db dbtx
}

var _ domain.Queries = (*queries)(nil)

type scanner interface {
	Scan(dest ...any) error
}

// collect scans every row with fn.
func collect[T any](rows pgx.Rows, err error, fn func(s scanner) (*T, error)) ([]T, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := fn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, mapErr(rows.Err())
}

// ---- users ----

const userColumns = `id, first_name, last_name, middle_name, email, phone, password, role, is_active, balance, rating, created_at, updated_at`

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var role string
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.MiddleName, &u.Email, &u.Phone, &u.PasswordHash,
		&role, &u.IsActive, &u.Balance, &u.Rating, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (q *queries) CreateUser(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.UpdatedAt = u.CreatedAt
	_, err := q.db.Exec(ctx, `
        INSERT INTO users (id, first_name, last_name, middle_name, email, phone, password, role, is_active, balance, rating, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		u.ID, u.FirstName, u.LastName, u.MiddleName, u.Email, u.Phone, u.PasswordHash,
		string(u.Role), u.IsActive, u.Balance, u.Rating, u.CreatedAt, u.UpdatedAt,
	)
	return mapErr(err)
}

func (q *queries) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (q *queries) LockUser(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

func (q *queries) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (q *queries) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := q.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return collect(rows, err, scanUser)
}

func (q *queries) SetUserBalance(ctx context.Context, id string, balance int64) error {
	return expectOne(q.db.Exec(ctx, `UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2`, balance, id))
}

func (q *queries) SetUserRating(ctx context.Context, id string, rating *float64) error {
	return expectOne(q.db.Exec(ctx, `UPDATE users SET rating = $1, updated_at = NOW() WHERE id = $2`, rating, id))
}

func (q *queries) SetUserActive(ctx context.Context, id string, active bool) error {
	return expectOne(q.db.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id))
}

func (q *queries) SetUserRoleByEmail(ctx context.Context, email string, role domain.Role) error {
	return expectOne(q.db.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)`, string(role), email))
}

// ---- ledger ----

func (q *queries) AppendEntry(ctx context.Context, e *domain.LedgerEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := q.db.Exec(ctx, `
        INSERT INTO transactions (id, user_id, type, direction, amount, balance_after, reference, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, string(e.Type), string(e.Direction), e.Amount, e.BalanceAfter, e.Reference, e.CreatedAt,
	)
	return mapErr(err)
}

func scanEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var typ, dir string
	if err := s.Scan(&e.ID, &e.UserID, &typ, &dir, &e.Amount, &e.BalanceAfter, &e.Reference, &e.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	e.Type = domain.EntryType(typ)
	e.Direction = domain.Direction(dir)
	return &e, nil
}

func (q *queries) ListEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	const cols = `SELECT id, user_id, type, direction, amount, balance_after, reference, created_at FROM transactions`
	if userID == "" {
		rows, err := q.db.Query(ctx, cols+` ORDER BY created_at DESC`)
		return collect(rows, err, scanEntry)
	}
	rows, err := q.db.Query(ctx, cols+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return collect(rows, err, scanEntry)
}

// ---- ads ----

const adColumns = `id, name, description, cost, status, employer_id, worker_id, created_at, updated_at`

func scanAd(s scanner) (*domain.Ad, error) {
	var a domain.Ad
	var status string
	if err := s.Scan(&a.ID, &a.Name, &a.Description, &a.Cost, &status, &a.EmployerID, &a.WorkerID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	a.Status = domain.AdStatus(status)
	return &a, nil
}

func (q *queries) CreateAd(ctx context.Context, a *domain.Ad) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = a.CreatedAt
	_, err := q.db.Exec(ctx, `
        INSERT INTO ads (id, name, description, cost, status, employer_id, worker_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Name, a.Description, a.Cost, string(a.Status), a.EmployerID, a.WorkerID, a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

func (q *queries) GetAd(ctx context.Context, id string) (*domain.Ad, error) {
	return scanAd(q.db.QueryRow(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id))
}

func (q *queries) LockAd(ctx context.Context, id string) (*domain.Ad, error) {
	return scanAd(q.db.QueryRow(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1 FOR UPDATE`, id))
}

func (q *queries) UpdateAd(ctx context.Context, a *domain.Ad) error {
	a.UpdatedAt = time.Now()
	return expectOne(q.db.Exec(ctx, `
        UPDATE ads SET name = $1, description = $2, cost = $3, status = $4, worker_id = $5, updated_at = $6
        WHERE id = $7`,
		a.Name, a.Description, a.Cost, string(a.Status), a.WorkerID, a.UpdatedAt, a.ID,
	))
}

func (q *queries) ListAdsByStatus(ctx context.Context, status domain.AdStatus) ([]domain.Ad, error) {
	rows, err := q.db.Query(ctx, `SELECT `+adColumns+` FROM ads WHERE status = $1 ORDER BY created_at DESC`, string(status))
	return collect(rows, err, scanAd)
}

func (q *queries) ListAdsByEmployer(ctx context.Context, employerID string) ([]domain.Ad, error) {
	rows, err := q.db.Query(ctx, `SELECT `+adColumns+` FROM ads WHERE employer_id = $1 ORDER BY created_at DESC`, employerID)
	return collect(rows, err, scanAd)
}

// ---- responses ----

const responseColumns = `id, ad_id, user_id, status, created_at, updated_at`

func scanResponse(s scanner) (*domain.Response, error) {
	var r domain.Response
	var status string
	if err := s.Scan(&r.ID, &r.AdID, &r.UserID, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	r.Status = domain.ResponseStatus(status)
	return &r, nil
}

func (q *queries) CreateResponse(ctx context.Context, r *domain.Response) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.UpdatedAt = r.CreatedAt
	_, err := q.db.Exec(ctx, `
        INSERT INTO responses (id, ad_id, user_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.AdID, r.UserID, string(r.Status), r.CreatedAt, r.UpdatedAt,
	)
	return mapErr(err)
}

func (q *queries) GetResponse(ctx context.Context, id string) (*domain.Response, error) {
	return scanResponse(q.db.QueryRow(ctx, `SELECT `+responseColumns+` FROM responses WHERE id = $1`, id))
}

func (q *queries) FindResponse(ctx context.Context, adID, userID string) (*domain.Response, error) {
	return scanResponse(q.db.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE ad_id = $1 AND user_id = $2`, adID, userID))
}

func (q *queries) LockResponses(ctx context.Context, adID string) ([]domain.Response, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE ad_id = $1 ORDER BY created_at DESC FOR UPDATE`, adID)
	return collect(rows, err, scanResponse)
}

func (q *queries) SetResponseStatus(ctx context.Context, id string, status domain.ResponseStatus) error {
	return expectOne(q.db.Exec(ctx,
		`UPDATE responses SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id))
}

func (q *queries) DeleteResponse(ctx context.Context, id string) error {
	return expectOne(q.db.Exec(ctx, `DELETE FROM responses WHERE id = $1`, id))
}

func (q *queries) ListResponsesByAd(ctx context.Context, adID string) ([]domain.Response, error) {
	rows, err := q.db.Query(ctx, `SELECT `+responseColumns+` FROM responses WHERE ad_id = $1 ORDER BY created_at DESC`, adID)
	return collect(rows, err, scanResponse)
}

func (q *queries) ListResponsesByUser(ctx context.Context, userID string) ([]domain.Response, error) {
	rows, err := q.db.Query(ctx, `SELECT `+responseColumns+` FROM responses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return collect(rows, err, scanResponse)
}

// ---- reviews ----

const reviewColumns = `id, ad_id, reviewer_id, responder_id, description, score, created_at`

func scanReview(s scanner) (*domain.Review, error) {
	var r domain.Review
	if err := s.Scan(&r.ID, &r.AdID, &r.ReviewerID, &r.ResponderID, &r.Description, &r.Score, &r.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (q *queries) CreateReview(ctx context.Context, r *domain.Review) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := q.db.Exec(ctx, `
        INSERT INTO reviews (id, ad_id, reviewer_id, responder_id, description, score, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.AdID, r.ReviewerID, r.ResponderID, r.Description, r.Score, r.CreatedAt,
	)
	return mapErr(err)
}

func (q *queries) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return scanReview(q.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
}

func (q *queries) GetReviewByAd(ctx context.Context, adID string) (*domain.Review, error) {
	return scanReview(q.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE ad_id = $1`, adID))
}

func (q *queries) DeleteReview(ctx context.Context, id string) error {
	return expectOne(q.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id))
}

func (q *queries) ListReviewsByResponder(ctx context.Context, responderID string) ([]domain.Review, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE responder_id = $1 ORDER BY created_at DESC`, responderID)
	return collect(rows, err, scanReview)
}

func (q *queries) ScoreSummary(ctx context.Context, responderID string) (int, float64, error) {
	var count int
	var mean float64
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score)::float8, 0) FROM reviews WHERE responder_id = $1`, responderID,
	).Scan(&count, &mean)
	if err != nil {
		return 0, 0, mapErr(err)
	}
	return count, mean, nil
}

// ---- support ----

const ticketColumns = `id, user_id, theme, description, status, created_at, updated_at`

func scanTicket(s scanner) (*domain.SupportTicket, error) {
	var t domain.SupportTicket
	var status string
	if err := s.Scan(&t.ID, &t.UserID, &t.Theme, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	t.Status = domain.SupportStatus(status)
	return &t, nil
}

func (q *queries) CreateTicket(ctx context.Context, t *domain.SupportTicket) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	_, err := q.db.Exec(ctx, `
        INSERT INTO supports (id, user_id, theme, description, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserID, t.Theme, t.Description, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	return mapErr(err)
}

func (q *queries) GetTicket(ctx context.Context, id string) (*domain.SupportTicket, error) {
	return scanTicket(q.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM supports WHERE id = $1`, id))
}

func (q *queries) ListTickets(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	if userID == "" {
		rows, err := q.db.Query(ctx, `SELECT `+ticketColumns+` FROM supports ORDER BY created_at DESC`)
		return collect(rows, err, scanTicket)
	}
	rows, err := q.db.Query(ctx, `SELECT `+ticketColumns+` FROM supports WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return collect(rows, err, scanTicket)
}

func (q *queries) SetTicketStatus(ctx context.Context, id string, status domain.SupportStatus) error {
	return expectOne(q.db.Exec(ctx,
		`UPDATE supports SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id))
}

// ---- notifications ----

func (q *queries) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := q.db.Exec(ctx, `
        INSERT INTO notifications (id, user_id, type, title, body, reference, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Type, n.Title, n.Body, n.Reference, n.CreatedAt,
	)
	return mapErr(err)
}

func (q *queries) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := q.db.Query(ctx, `
        SELECT id, user_id, type, title, body, reference, created_at, read_at
        FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT 100`, userID)
	return collect(rows, err, func(s scanner) (*domain.Notification, error) {
		var n domain.Notification
		if err := s.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Reference, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, mapErr(err)
		}
		return &n, nil
	})
}

func (q *queries) MarkNotificationRead(ctx context.Context, id, userID string) error {
	var exists bool
	err := q.db.QueryRow(ctx, `
        WITH upd AS (
            UPDATE notifications SET read_at = COALESCE(read_at, NOW())
            WHERE id = $1 AND user_id = $2
            RETURNING 1
        )
        SELECT EXISTS (SELECT 1 FROM upd)`, id, userID).Scan(&exists)
	if err != nil {
		return mapErr(err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}

// ---- stats ----

func (q *queries) Stats(ctx context.Context) (*domain.Stats, error) {
	s := &domain.Stats{AdsByStatus: map[domain.AdStatus]int{}}
	err := q.db.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM responses),
            (SELECT COUNT(*) FROM reviews),
            (SELECT COUNT(*) FROM supports),
            (SELECT COUNT(*) FROM transactions),
            (SELECT COALESCE(SUM(cost), 0) FROM ads WHERE status IN ('draft', 'published', 'in_progress'))`,
	).Scan(&s.Users, &s.Responses, &s.Reviews, &s.Tickets, &s.Transactions, &s.EscrowHeld)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", mapErr(err))
	}

	rows, err := q.db.Query(ctx, `SELECT status, COUNT(*) FROM ads GROUP BY status`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, mapErr(err)
		}
		s.AdsByStatus[domain.AdStatus(status)] = n
	}
	return s, mapErr(rows.Err())
}
