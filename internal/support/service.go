// Package support handles user support tickets.
package support

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/utils"
)

type TicketInput struct {
	Theme       string `json:"theme" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

type StatusInput struct {
	Status domain.SupportStatus `json:"status" validate:"required,oneof=pending solved closed"`
}

type Service struct {
	store    domain.Store
	log      logrus.FieldLogger
	validate *utils.Validator
}

func NewService(store domain.Store, log logrus.FieldLogger) *Service {
	return &Service{store: store, log: log, validate: utils.NewValidator()}
}

func (s *Service) Create(ctx context.Context, userID string, in TicketInput) (*domain.SupportTicket, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	t := &domain.SupportTicket{
		ID:          uuid.NewString(),
		UserID:      userID,
		Theme:       strings.TrimSpace(in.Theme),
		Description: strings.TrimSpace(in.Description),
		Status:      domain.SupportPending,
	}
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		return q.CreateTicket(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.log.WithFields(logrus.Fields{"ticket_id": t.ID, "user_id": userID}).Info("support ticket opened")
	return t, nil
}

// ListOwn returns the user's tickets, newest first.
func (s *Service) ListOwn(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	return s.list(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.SupportTicket, error) {
	return s.list(ctx, "")
}

func (s *Service) list(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	var out []domain.SupportTicket
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListTickets(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return out, nil
}

// SetStatus is the admin resolution of a ticket.
func (s *Service) SetStatus(ctx context.Context, ticketID string, status domain.SupportStatus) (*domain.SupportTicket, error) {
	if !status.Valid() {
		return nil, domain.Invalid("status", "must be one of: pending, solved, closed")
	}
	var t *domain.SupportTicket
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		if err := q.SetTicketStatus(ctx, ticketID, status); err != nil {
			return err
		}
		var err error
		t, err = q.GetTicket(ctx, ticketID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, err)
	}
	s.log.WithFields(logrus.Fields{"ticket_id": ticketID, "status": status}).Info("support ticket updated")
	return t, nil
}
