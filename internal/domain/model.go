package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account holder. Balance is only mutated through the wallet
// ledger and Rating only through review recomputation.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	MiddleName   string    `json:"middle_name,omitempty"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	Balance      int64     `json:"balance"`
	Rating       *float64  `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile is what other users may see.
type PublicProfile struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Rating     *float64  `json:"rating"`
	MemberFrom time.Time `json:"member_from"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Rating:     u.Rating,
		MemberFrom: u.CreatedAt,
	}
}

type AdStatus string

const (
	AdDraft      AdStatus = "draft"
	AdPending    AdStatus = "pending"
	AdPublished  AdStatus = "published"
	AdInProgress AdStatus = "in_progress"
	AdCompleted  AdStatus = "completed"
	AdDeleted    AdStatus = "deleted"
)

var adTransitions = map[AdStatus][]AdStatus{
	AdDraft:      {AdPublished, AdDeleted},
	AdPublished:  {AdInProgress, AdDeleted},
	AdInProgress: {AdCompleted, AdPublished},
}

// CanTransition reports whether an ad may move from s to next.
func (s AdStatus) CanTransition(next AdStatus) bool {
	for _, allowed := range adTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s AdStatus) Terminal() bool {
	return s == AdCompleted || s == AdDeleted
}

// Editable reports whether name, description and cost may still change.
func (s AdStatus) Editable() bool {
	return s == AdDraft || s == AdPublished
}

func (s AdStatus) Valid() bool {
	switch s {
	case AdDraft, AdPending, AdPublished, AdInProgress, AdCompleted, AdDeleted:
		return true
	}
	return false
}

type Ad struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cost        int64     `json:"cost"`
	Status      AdStatus  `json:"status"`
	EmployerID  string    `json:"employer_id"`
	WorkerID    *string   `json:"worker_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ResponseStatus string

const (
	ResponsePending  ResponseStatus = "pending"
	ResponseAccepted ResponseStatus = "accepted"
	ResponseRejected ResponseStatus = "rejected"
)

// Response is a user's bid to work on an ad.
type Response struct {
	ID        string         `json:"id"`
	AdID      string         `json:"ad_id"`
	UserID    string         `json:"user_id"`
	Status    ResponseStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Review is the employer's score for the worker of a completed ad.
type Review struct {
	ID          string    `json:"id"`
	AdID        string    `json:"ad_id"`
	ReviewerID  string    `json:"reviewer_id"`
	ResponderID string    `json:"responder_id"`
	Description string    `json:"description"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}

type SupportStatus string

const (
	SupportPending SupportStatus = "pending"
	SupportSolved  SupportStatus = "solved"
	SupportClosed  SupportStatus = "closed"
)

func (s SupportStatus) Valid() bool {
	return s == SupportPending || s == SupportSolved || s == SupportClosed
}

type SupportTicket struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Theme       string        `json:"theme"`
	Description string        `json:"description"`
	Status      SupportStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type EntryType string

const (
	EntryEscrowHold    EntryType = "escrow_hold"
	EntryEscrowRefund  EntryType = "escrow_refund"
	EntryEscrowRelease EntryType = "escrow_release"
	EntryReplenish     EntryType = "replenish"
	EntryWithdrawal    EntryType = "withdrawal"
)

// MaxAmount caps a single sum or ad cost so balances stay far from the int64
// limit. Keep the lte tags on request structs in step with it.
const MaxAmount int64 = 1_000_000_000_000

// Direction of a ledger entry relative to the user's balance.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// LedgerEntry is an append-only audit row for one balance change.
type LedgerEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Type         EntryType `json:"type"`
	Direction    Direction `json:"direction"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Reference string     `json:"reference,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	Users        int              `json:"users"`
	AdsByStatus  map[AdStatus]int `json:"ads_by_status"`
	Responses    int              `json:"responses"`
	Reviews      int              `json:"reviews"`
	Tickets      int              `json:"tickets"`
	EscrowHeld   int64            `json:"escrow_held"`
	Transactions int              `json:"transactions"`
}
