package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/alerts"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/wallet"
)

// SubmitReview records the employer's score for the worker of a completed
// ad and refreshes the worker's rating in the same transaction.
func (s *Service) SubmitReview(ctx context.Context, reviewerID, adID string, in ReviewInput) (*domain.Review, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	var (
		ad     *domain.Ad
		review *domain.Review
		rating *float64
	)
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		ad, err = q.LockAd(ctx, adID)
		if err != nil {
			return fmt.Errorf("ad %s: %w", adID, err)
		}
		if ad.EmployerID != reviewerID {
			return fmt.Errorf("review ad %s: %w", ad.ID, domain.ErrForbidden)
		}
		if ad.WorkerID == nil {
			return fmt.Errorf("ad %s: %w", ad.ID, domain.ErrNoWorkerAssigned)
		}
		if ad.Status != domain.AdCompleted {
			return fmt.Errorf("ad %s is %s: %w", ad.ID, ad.Status, domain.ErrInvalidTransition)
		}

		_, err = q.GetReviewByAd(ctx, adID)
		switch {
		case err == nil:
			return domain.ErrAlreadyReviewed
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		review = &domain.Review{
			ID:          uuid.NewString(),
			AdID:        ad.ID,
			ReviewerID:  reviewerID,
			ResponderID: *ad.WorkerID,
			Description: strings.TrimSpace(in.Description),
			Score:       in.Score,
		}
		if err := q.CreateReview(ctx, review); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrAlreadyReviewed
			}
			return err
		}
		rating, err = wallet.RecordScore(ctx, q, review.ResponderID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	fields := logrus.Fields{"ad_id": ad.ID, "responder_id": review.ResponderID, "score": review.Score}
	if rating != nil {
		fields["rating"] = *rating
	}
	s.log.WithFields(fields).Info("review submitted")
	s.notify(ctx, alerts.ReviewReceived(ad, review))
	return review, nil
}

// DeleteReview removes a review by id. Only its author may delete it.
func (s *Service) DeleteReview(ctx context.Context, reviewerID, adID, reviewID string) error {
	return s.deleteReview(ctx, reviewerID, adID, func(q domain.Queries) (*domain.Review, error) {
		return q.GetReview(ctx, reviewID)
	})
}

// DeleteAdReview removes the review of an ad, whatever its id.
func (s *Service) DeleteAdReview(ctx context.Context, reviewerID, adID string) error {
	return s.deleteReview(ctx, reviewerID, adID, func(q domain.Queries) (*domain.Review, error) {
		return q.GetReviewByAd(ctx, adID)
	})
}

func (s *Service) deleteReview(ctx context.Context, reviewerID, adID string, find func(domain.Queries) (*domain.Review, error)) error {
	var review *domain.Review
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		if _, err := q.LockAd(ctx, adID); err != nil {
			return fmt.Errorf("ad %s: %w", adID, err)
		}
		var err error
		review, err = find(q)
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}
		if review.AdID != adID {
			return fmt.Errorf("review %s: %w", review.ID, domain.ErrNotFound)
		}
		if review.ReviewerID != reviewerID {
			return fmt.Errorf("review %s: %w", review.ID, domain.ErrForbidden)
		}
		if err := q.DeleteReview(ctx, review.ID); err != nil {
			return err
		}
		_, err = wallet.RecordScore(ctx, q, review.ResponderID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	s.log.WithFields(logrus.Fields{"ad_id": adID, "review_id": review.ID}).Info("review deleted")
	return nil
}

// ListReceived returns the reviews userID has received, newest first.
func (s *Service) ListReceived(ctx context.Context, userID string) ([]domain.Review, error) {
	var out []domain.Review
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListReviewsByResponder(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}
