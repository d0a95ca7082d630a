package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/alerts"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/metrics"
	"github.com/sudo-init-do/workhub/internal/wallet"
)

// CreateAd escrows the cost from the employer and inserts the ad.
func (s *Service) CreateAd(ctx context.Context, employerID string, in CreateAdInput) (*domain.Ad, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	ad := &domain.Ad{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Cost:        in.Cost,
		Status:      domain.AdPublished,
		EmployerID:  employerID,
	}
	if in.Draft {
		ad.Status = domain.AdDraft
	}

	var hold *domain.LedgerEntry
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		hold, err = wallet.Debit(ctx, q, employerID, ad.Cost, domain.EntryEscrowHold, ad.ID)
		if err != nil {
			return domain.OnField("cost", err)
		}
		return q.CreateAd(ctx, ad)
	})
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}

	metrics.RecordEntries(hold)
	metrics.RecordTransition("", ad.Status)
	s.log.WithFields(logrus.Fields{
		"ad_id":       ad.ID,
		"employer_id": employerID,
		"cost":        ad.Cost,
		"status":      ad.Status,
	}).Info("ad created")
	return ad, nil
}

// PublishAd moves a draft ad to the public listing.
func (s *Service) PublishAd(ctx context.Context, employerID, adID string) (*domain.Ad, error) {
	var ad *domain.Ad
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		ad, err = ownedAd(ctx, q, employerID, adID)
		if err != nil {
			return err
		}
		return transition(ctx, q, ad, domain.AdPublished)
	})
	if err != nil {
		return nil, fmt.Errorf("publish ad: %w", err)
	}
	metrics.RecordTransition(domain.AdDraft, domain.AdPublished)
	return ad, nil
}

// UpdateAd edits a draft or published ad. A cost change refunds the old
// escrow and holds the new one.
func (s *Service) UpdateAd(ctx context.Context, employerID, adID string, in UpdateAdInput) (*domain.Ad, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	var (
		ad      *domain.Ad
		entries []*domain.LedgerEntry
	)
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		ad, err = ownedAd(ctx, q, employerID, adID)
		if err != nil {
			return err
		}
		if !ad.Status.Editable() {
			return fmt.Errorf("ad %s is %s: %w", ad.ID, ad.Status, domain.ErrInvalidTransition)
		}

		if in.Name != nil {
			ad.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			ad.Description = strings.TrimSpace(*in.Description)
		}
		if in.Cost != nil && *in.Cost != ad.Cost {
			refund, err := wallet.Credit(ctx, q, employerID, ad.Cost, domain.EntryEscrowRefund, ad.ID)
			if err != nil {
				return err
			}
			hold, err := wallet.Debit(ctx, q, employerID, *in.Cost, domain.EntryEscrowHold, ad.ID)
			if err != nil {
				return domain.OnField("cost", err)
			}
			entries = append(entries, refund, hold)
			ad.Cost = *in.Cost
		}
		return q.UpdateAd(ctx, ad)
	})
	if err != nil {
		return nil, fmt.Errorf("update ad: %w", err)
	}

	metrics.RecordEntries(entries...)
	s.log.WithFields(logrus.Fields{"ad_id": ad.ID, "cost": ad.Cost}).Info("ad updated")
	return ad, nil
}

// DeleteAd soft-deletes a draft or published ad.
func (s *Service) DeleteAd(ctx context.Context, employerID, adID string) error {
	var (
		from   domain.AdStatus
		refund *domain.LedgerEntry
	)
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		ad, err := ownedAd(ctx, q, employerID, adID)
		if err != nil {
			return err
		}
		from = ad.Status
		if err := transition(ctx, q, ad, domain.AdDeleted); err != nil {
			return err
		}
		if s.opts.RefundOnDelete {
			refund, err = wallet.Credit(ctx, q, employerID, ad.Cost, domain.EntryEscrowRefund, ad.ID)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}

	metrics.RecordEntries(refund)
	metrics.RecordTransition(from, domain.AdDeleted)
	s.log.WithFields(logrus.Fields{"ad_id": adID, "refunded": refund != nil}).Info("ad deleted")
	return nil
}

// CompleteAd closes an in-progress ad and releases the escrow to the worker.
func (s *Service) CompleteAd(ctx context.Context, employerID, adID string) (*domain.Ad, error) {
	var (
		ad      *domain.Ad
		release *domain.LedgerEntry
	)
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		ad, err = ownedAd(ctx, q, employerID, adID)
		if err != nil {
			return err
		}
		if ad.WorkerID == nil {
			return fmt.Errorf("ad %s: %w", ad.ID, domain.ErrNoWorkerAssigned)
		}
		if ad.Status != domain.AdInProgress {
			return fmt.Errorf("ad %s is %s: %w", ad.ID, ad.Status, domain.ErrInvalidTransition)
		}
		if err := transition(ctx, q, ad, domain.AdCompleted); err != nil {
			return err
		}
		release, err = wallet.Credit(ctx, q, *ad.WorkerID, ad.Cost, domain.EntryEscrowRelease, ad.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("complete ad: %w", err)
	}

	metrics.RecordEntries(release)
	metrics.RecordTransition(domain.AdInProgress, domain.AdCompleted)
	s.log.WithFields(logrus.Fields{
		"ad_id":     ad.ID,
		"worker_id": *ad.WorkerID,
		"amount":    ad.Cost,
	}).Info("ad completed")
	s.notify(ctx, alerts.AdCompleted(ad))
	return ad, nil
}

// ListPublished returns the public listing, newest first.
func (s *Service) ListPublished(ctx context.Context) ([]domain.Ad, error) {
	var out []domain.Ad
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListAdsByStatus(ctx, domain.AdPublished)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	return out, nil
}

// GetAd returns a single ad. Deleted ads are not found.
func (s *Service) GetAd(ctx context.Context, adID string) (*domain.Ad, error) {
	var ad *domain.Ad
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		ad, err = q.GetAd(ctx, adID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get ad %s: %w", adID, err)
	}
	if ad.Status == domain.AdDeleted {
		return nil, fmt.Errorf("get ad %s: %w", adID, domain.ErrNotFound)
	}
	return ad, nil
}
