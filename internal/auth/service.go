package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/workhub/internal/domain"
)

type RegisterInput struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	MiddleName string `json:"middle_name" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=5,max=32"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by register and login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type Service struct {
	store   domain.Store
	issuer  *Issuer
	revoker Revoker
	log     logrus.FieldLogger
	cost    int
}

// NewService builds the auth service. cost is the bcrypt cost; zero means
// bcrypt.DefaultCost.
func NewService(store domain.Store, issuer *Issuer, revoker Revoker, log logrus.FieldLogger, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: store, issuer: issuer, revoker: revoker, log: log, cost: cost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		MiddleName:   strings.TrimSpace(in.MiddleName),
		Email:        normalizeEmail(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	err = s.store.Tx(ctx, func(q domain.Queries) error {
		return q.CreateUser(ctx, u)
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", u.Email, err)
	}
	s.log.WithField("user_id", u.ID).Info("user registered")
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	var u *domain.User
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		u, err = q.GetUserByEmail(ctx, normalizeEmail(in.Email))
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, domain.ErrAccountSuspended
	}
	return s.session(u)
}

func (s *Service) session(u *domain.User) (*Session, error) {
	token, claims, err := s.issuer.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

// Logout revokes the token the request was made with.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return domain.ErrUnauthorized
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.log.WithField("user_id", claims.UserID).Debug("token revoked")
	return nil
}

func (s *Service) Self(ctx context.Context, userID string) (*domain.User, error) {
	var u *domain.User
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		u, err = q.GetUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("self %s: %w", userID, err)
	}
	return u, nil
}

// PromoteAdmin grants the admin role to the account with the given email.
func (s *Service) PromoteAdmin(ctx context.Context, email string) error {
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		return q.SetUserRoleByEmail(ctx, normalizeEmail(email), domain.RoleAdmin)
	})
	if err != nil {
		return fmt.Errorf("promote %s: %w", email, err)
	}
	s.log.WithField("email", email).Info("user promoted to admin")
	return nil
}
