// Package user serves the profile views: a user's own ads, responses and
// received reviews, and the public profile other users see.
package user

import (
	"context"
	"fmt"

	"github.com/sudo-init-do/workhub/internal/domain"
)

type Service struct {
	store domain.Store
}

func NewService(store domain.Store) *Service {
	return &Service{store: store}
}

// Public returns the name and rating of a user.
func (s *Service) Public(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	var p domain.PublicProfile
	err := s.store.View(ctx, func(q domain.Queries) error {
		u, err := q.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		p = u.Public()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, err)
	}
	return &p, nil
}

// Ads lists every ad the user posted, drafts and deleted ones included.
func (s *Service) Ads(ctx context.Context, userID string) ([]domain.Ad, error) {
	var out []domain.Ad
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListAdsByEmployer(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("profile ads: %w", err)
	}
	return out, nil
}

func (s *Service) Responses(ctx context.Context, userID string) ([]domain.Response, error) {
	var out []domain.Response
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListResponsesByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("profile responses: %w", err)
	}
	return out, nil
}

// Reviews lists the reviews the user received as a worker.
func (s *Service) Reviews(ctx context.Context, userID string) ([]domain.Review, error) {
	var out []domain.Review
	err := s.store.View(ctx, func(q domain.Queries) error {
		var err error
		out, err = q.ListReviewsByResponder(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("profile reviews: %w", err)
	}
	return out, nil
}
