package memory

import (
	"context"
	"errors"

	"github.com/sudo-init-do/workhub/internal/domain"
)

// ErrReadOnly is returned by writes issued inside View.
var ErrReadOnly = errors.New("memory: write in read-only view")

// readOnly serves the queries of a View. Reads go through to the shared
// state; every write is refused so concurrent readers never race.
type readOnly struct {
	*queries
}

var _ domain.Queries = readOnly{}

func (readOnly) CreateUser(context.Context, *domain.User) error { return ErrReadOnly }

func (readOnly) SetUserBalance(context.Context, string, int64) error { return ErrReadOnly }

func (readOnly) SetUserRating(context.Context, string, *float64) error { return ErrReadOnly }

func (readOnly) SetUserActive(context.Context, string, bool) error { return ErrReadOnly }

func (readOnly) SetUserRoleByEmail(context.Context, string, domain.Role) error { return ErrReadOnly }

func (readOnly) AppendEntry(context.Context, *domain.LedgerEntry) error { return ErrReadOnly }

func (readOnly) CreateAd(context.Context, *domain.Ad) error { return ErrReadOnly }

func (readOnly) UpdateAd(context.Context, *domain.Ad) error { return ErrReadOnly }

func (readOnly) CreateResponse(context.Context, *domain.Response) error { return ErrReadOnly }

func (readOnly) SetResponseStatus(context.Context, string, domain.ResponseStatus) error {
	return ErrReadOnly
}

func (readOnly) DeleteResponse(context.Context, string) error { return ErrReadOnly }

func (readOnly) CreateReview(context.Context, *domain.Review) error { return ErrReadOnly }

func (readOnly) DeleteReview(context.Context, string) error { return ErrReadOnly }

func (readOnly) CreateTicket(context.Context, *domain.SupportTicket) error { return ErrReadOnly }

func (readOnly) SetTicketStatus(context.Context, string, domain.SupportStatus) error {
	return ErrReadOnly
}

func (readOnly) CreateNotification(context.Context, *domain.Notification) error { return ErrReadOnly }

func (readOnly) MarkNotificationRead(context.Context, string, string) error { return ErrReadOnly }
