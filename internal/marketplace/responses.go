package marketplace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/alerts"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/metrics"
)

// CreateResponse registers userID as a candidate for a published ad.
func (s *Service) CreateResponse(ctx context.Context, userID, adID string) (*domain.Response, error) {
	var (
		ad   *domain.Ad
		resp *domain.Response
	)
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		ad, err = q.LockAd(ctx, adID)
		if err != nil {
			return fmt.Errorf("ad %s: %w", adID, err)
		}
		if ad.Status != domain.AdPublished {
			return fmt.Errorf("ad %s is %s: %w", ad.ID, ad.Status, domain.ErrAdNotPublished)
		}
		if ad.EmployerID == userID {
			return fmt.Errorf("respond to own ad: %w", domain.ErrForbidden)
		}

		_, err = q.FindResponse(ctx, adID, userID)
		switch {
		case err == nil:
			return domain.ErrAlreadyResponded
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		resp = &domain.Response{
			ID:     uuid.NewString(),
			AdID:   adID,
			UserID: userID,
			Status: domain.ResponsePending,
		}
		if err := q.CreateResponse(ctx, resp); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrAlreadyResponded
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}

	s.log.WithFields(logrus.Fields{"ad_id": adID, "user_id": userID}).Info("response created")
	s.notify(ctx, alerts.ResponseReceived(ad, resp))
	return resp, nil
}

// findResponse picks responseID out of the ad's locked responses.
func findResponse(responses []domain.Response, responseID string) (*domain.Response, bool) {
	for i := range responses {
		if responses[i].ID == responseID {
			return &responses[i], true
		}
	}
	return nil, false
}

// AcceptResponse binds the responder as the ad's worker. At most one
// response per ad can ever be accepted.
func (s *Service) AcceptResponse(ctx context.Context, employerID, adID, responseID string) (*domain.Ad, error) {
	var (
		ad   *domain.Ad
		resp *domain.Response
	)
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		ad, err = ownedAd(ctx, q, employerID, adID)
		if err != nil {
			return err
		}
		responses, err := q.LockResponses(ctx, adID)
		if err != nil {
			return fmt.Errorf("lock responses: %w", err)
		}

		if ad.WorkerID != nil {
			return domain.ErrAlreadyAccepted
		}
		for _, r := range responses {
			if r.Status == domain.ResponseAccepted {
				return domain.ErrAlreadyAccepted
			}
		}

		var ok bool
		resp, ok = findResponse(responses, responseID)
		if !ok {
			return fmt.Errorf("response %s: %w", responseID, domain.ErrNotFound)
		}
		if resp.Status != domain.ResponsePending {
			return fmt.Errorf("response %s is %s: %w", resp.ID, resp.Status, domain.ErrInvalidTransition)
		}
		if ad.Status != domain.AdPublished {
			return fmt.Errorf("ad %s is %s: %w", ad.ID, ad.Status, domain.ErrInvalidTransition)
		}

		if err := q.SetResponseStatus(ctx, resp.ID, domain.ResponseAccepted); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrAlreadyAccepted
			}
			return err
		}
		resp.Status = domain.ResponseAccepted
		worker := resp.UserID
		ad.WorkerID = &worker
		return transition(ctx, q, ad, domain.AdInProgress)
	})
	if err != nil {
		return nil, fmt.Errorf("accept response: %w", err)
	}

	metrics.RecordTransition(domain.AdPublished, domain.AdInProgress)
	s.log.WithFields(logrus.Fields{"ad_id": ad.ID, "worker_id": resp.UserID}).Info("response accepted")
	s.notify(ctx, alerts.ResponseAccepted(ad, resp))
	return ad, nil
}

// RejectResponse marks the response rejected. Rejecting the current worker
// returns the ad to the public listing. Rejecting twice is a no-op.
func (s *Service) RejectResponse(ctx context.Context, employerID, adID, responseID string) (*domain.Response, error) {
	var (
		ad       *domain.Ad
		resp     *domain.Response
		changed  bool
		reopened bool
	)
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		var err error
		ad, err = ownedAd(ctx, q, employerID, adID)
		if err != nil {
			return err
		}
		if ad.Status.Terminal() {
			return fmt.Errorf("ad %s is %s: %w", ad.ID, ad.Status, domain.ErrInvalidTransition)
		}
		responses, err := q.LockResponses(ctx, adID)
		if err != nil {
			return fmt.Errorf("lock responses: %w", err)
		}
		var ok bool
		resp, ok = findResponse(responses, responseID)
		if !ok {
			return fmt.Errorf("response %s: %w", responseID, domain.ErrNotFound)
		}

		isWorker := resp.Status == domain.ResponseAccepted ||
			(ad.WorkerID != nil && *ad.WorkerID == resp.UserID)

		if resp.Status != domain.ResponseRejected {
			if err := q.SetResponseStatus(ctx, resp.ID, domain.ResponseRejected); err != nil {
				return err
			}
			resp.Status = domain.ResponseRejected
			changed = true
		}
		if isWorker && ad.Status == domain.AdInProgress {
			ad.WorkerID = nil
			reopened = true
			return transition(ctx, q, ad, domain.AdPublished)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reject response: %w", err)
	}

	if reopened {
		metrics.RecordTransition(domain.AdInProgress, domain.AdPublished)
	}
	if changed {
		s.log.WithFields(logrus.Fields{"ad_id": ad.ID, "response_id": resp.ID, "reopened": reopened}).Info("response rejected")
		s.notify(ctx, alerts.ResponseRejected(ad, resp))
	}
	return resp, nil
}

// DeleteResponse removes a response. The responder and the employer may
// both delete it. Removing the current worker reopens an in-progress ad.
func (s *Service) DeleteResponse(ctx context.Context, userID, adID, responseID string) error {
	reopened := false
	err := s.store.Tx(ctx, func(q domain.Queries) error {
		ad, err := q.LockAd(ctx, adID)
		if err != nil {
			return fmt.Errorf("ad %s: %w", adID, err)
		}
		responses, err := q.LockResponses(ctx, adID)
		if err != nil {
			return fmt.Errorf("lock responses: %w", err)
		}
		resp, ok := findResponse(responses, responseID)
		if !ok {
			return fmt.Errorf("response %s: %w", responseID, domain.ErrNotFound)
		}
		if userID != resp.UserID && userID != ad.EmployerID {
			return fmt.Errorf("response %s: %w", resp.ID, domain.ErrForbidden)
		}

		isWorker := resp.Status == domain.ResponseAccepted ||
			(ad.WorkerID != nil && *ad.WorkerID == resp.UserID)
		if isWorker {
			switch ad.Status {
			case domain.AdCompleted:
				return fmt.Errorf("response %s belongs to a completed ad: %w", resp.ID, domain.ErrInvalidTransition)
			case domain.AdInProgress:
				ad.WorkerID = nil
				if err := transition(ctx, q, ad, domain.AdPublished); err != nil {
					return err
				}
				reopened = true
			}
		}
		return q.DeleteResponse(ctx, resp.ID)
	})
	if err != nil {
		return fmt.Errorf("delete response: %w", err)
	}

	if reopened {
		metrics.RecordTransition(domain.AdInProgress, domain.AdPublished)
	}
	s.log.WithFields(logrus.Fields{"ad_id": adID, "response_id": responseID, "reopened": reopened}).Info("response deleted")
	return nil
}

// ListResponses shows the employer every response to the ad. Anyone else
// only sees their own.
func (s *Service) ListResponses(ctx context.Context, userID, adID string) ([]domain.Response, error) {
	out := []domain.Response{}
	err := s.store.View(ctx, func(q domain.Queries) error {
		ad, err := q.GetAd(ctx, adID)
		if err != nil {
			return err
		}
		if ad.EmployerID == userID {
			out, err = q.ListResponsesByAd(ctx, adID)
			return err
		}
		own, err := q.FindResponse(ctx, adID, userID)
		switch {
		case err == nil:
			out = append(out, *own)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return out, nil
}
