package domain

import "context"

// Queries is the persistence surface used by the services. Lock* methods
// take a row lock for the rest of the enclosing transaction. Lookups that
// match nothing return ErrNotFound; uniqueness violations return ErrConflict.
type Queries interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	LockUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetUserBalance(ctx context.Context, id string, balance int64) error
	SetUserRating(ctx context.Context, id string, rating *float64) error
	SetUserActive(ctx context.Context, id string, active bool) error
	SetUserRoleByEmail(ctx context.Context, email string, role Role) error

	AppendEntry(ctx context.Context, e *LedgerEntry) error
	// ListEntries returns newest first; an empty userID lists every entry.
	ListEntries(ctx context.Context, userID string) ([]LedgerEntry, error)

	CreateAd(ctx context.Context, a *Ad) error
	GetAd(ctx context.Context, id string) (*Ad, error)
	LockAd(ctx context.Context, id string) (*Ad, error)
	UpdateAd(ctx context.Context, a *Ad) error
	ListAdsByStatus(ctx context.Context, status AdStatus) ([]Ad, error)
	ListAdsByEmployer(ctx context.Context, employerID string) ([]Ad, error)

	CreateResponse(ctx context.Context, r *Response) error
	GetResponse(ctx context.Context, id string) (*Response, error)
	FindResponse(ctx context.Context, adID, userID string) (*Response, error)
	// LockResponses locks and returns every response of an ad.
	LockResponses(ctx context.Context, adID string) ([]Response, error)
	SetResponseStatus(ctx context.Context, id string, status ResponseStatus) error
	DeleteResponse(ctx context.Context, id string) error
	ListResponsesByAd(ctx context.Context, adID string) ([]Response, error)
	ListResponsesByUser(ctx context.Context, userID string) ([]Response, error)

	CreateReview(ctx context.Context, r *Review) error
	GetReview(ctx context.Context, id string) (*Review, error)
	GetReviewByAd(ctx context.Context, adID string) (*Review, error)
	DeleteReview(ctx context.Context, id string) error
	ListReviewsByResponder(ctx context.Context, responderID string) ([]Review, error)
	// ScoreSummary returns how many reviews a responder has and their mean score.
	ScoreSummary(ctx context.Context, responderID string) (count int, mean float64, err error)

	CreateTicket(ctx context.Context, t *SupportTicket) error
	GetTicket(ctx context.Context, id string) (*SupportTicket, error)
	// ListTickets lists a user's tickets; an empty userID lists all.
	ListTickets(ctx context.Context, userID string) ([]SupportTicket, error)
	SetTicketStatus(ctx context.Context, id string, status SupportStatus) error

	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, userID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error

	Stats(ctx context.Context) (*Stats, error)
}

// Store runs Queries inside transactions. Tx commits when fn returns nil
// and rolls back otherwise; View is read only.
type Store interface {
	Tx(ctx context.Context, fn func(q Queries) error) error
	View(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
	Close()
}
