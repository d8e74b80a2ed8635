package service

import (
	"context"
	"fmt"
	"time"

	"github.com/OyamaKema/Hardware-Jack/internal/domain"
	"github.com/OyamaKema/Hardware-Jack/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService exposes the review collection to the storefront and the
// moderation tooling. Reviews have no update path; moderation is delete
// only.
type ReviewService interface {
	List(ctx context.Context) ([]domain.Review, error)

	// Submit appends a customer review, assigning an id and display date
	// when the client sent none.
	Submit(ctx context.Context, review domain.Review) (*domain.Review, error)

	// Delete removes a review. Removing a nonexistent id is not an error.
	Delete(ctx context.Context, id string) error
}

type reviewService struct {
	reviews store.DocumentStore[domain.Review]
	logger  *zap.Logger
	now     func() time.Time
}

// NewReviewService creates a new instance of ReviewService.
func NewReviewService(reviews store.DocumentStore[domain.Review], logger *zap.Logger) ReviewService {
	return &reviewService{
		reviews: reviews,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *reviewService) List(ctx context.Context) ([]domain.Review, error) {
	all, err := s.reviews.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return all, nil
}

func (s *reviewService) Submit(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.Date == "" {
		review.Date = s.now().Format("Jan 2006")
	}

	if _, err := s.reviews.Update(ctx, func(all []domain.Review) ([]domain.Review, error) {
		return append(all, review), nil
	}); err != nil {
		return nil, fmt.Errorf("append review: %w", err)
	}

	s.logger.Info("Review submitted", zap.String("review_id", review.ID))
	return &review, nil
}

func (s *reviewService) Delete(ctx context.Context, id string) error {
	_, err := s.reviews.Update(ctx, func(all []domain.Review) ([]domain.Review, error) {
		kept := make([]domain.Review, 0, len(all))
		for _, r := range all {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
