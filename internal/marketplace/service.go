// Package marketplace runs the ad lifecycle: escrowed ads, responses,
// acceptance of a single worker, completion payouts and reviews. Every
// operation is one store transaction; balance moves go through the wallet
// ledger on the same transaction.
package marketplace

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/alerts"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/utils"
)

type Options struct {
	// RefundOnDelete returns the escrowed cost when an ad is deleted.
	// Otherwise the cost is forfeited.
	RefundOnDelete bool
}

type Service struct {
	store    domain.Store
	notifier alerts.Notifier
	log      logrus.FieldLogger
	opts     Options
	validate *utils.Validator
}

func NewService(store domain.Store, notifier alerts.Notifier, log logrus.FieldLogger, opts Options) *Service {
	if notifier == nil {
		notifier = alerts.Nop{}
	}
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		opts:     opts,
		validate: utils.NewValidator(),
	}
}

// ownedAd locks the ad and checks that employerID owns it.
func ownedAd(ctx context.Context, q domain.Queries, employerID, adID string) (*domain.Ad, error) {
	ad, err := q.LockAd(ctx, adID)
	if err != nil {
		return nil, fmt.Errorf("ad %s: %w", adID, err)
	}
	if ad.EmployerID != employerID {
		return nil, fmt.Errorf("ad %s: %w", adID, domain.ErrForbidden)
	}
	return ad, nil
}

// transition moves the ad to next and persists it.
func transition(ctx context.Context, q domain.Queries, ad *domain.Ad, next domain.AdStatus) error {
	if !ad.Status.CanTransition(next) {
		return fmt.Errorf("ad %s %s -> %s: %w", ad.ID, ad.Status, next, domain.ErrInvalidTransition)
	}
	ad.Status = next
	return q.UpdateAd(ctx, ad)
}

func (s *Service) notify(ctx context.Context, ev alerts.Event) {
	alerts.Send(ctx, s.notifier, s.log, ev)
}
