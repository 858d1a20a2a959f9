package application

import (
	"context"
	"fmt"
	"math"

	"github.com/x67digital/marketplace/internal/domain"
)

// CreateReview records a rating against a seller and recomputes the
// seller's reputation snapshot in the same request. One review per
// reviewer, seller and ad.
func (s *Service) CreateReview(ctx context.Context, actor Actor, req CreateReviewRequest) (ReviewView, error) {
	if actor.UserID == "" {
		return ReviewView{}, domain.ErrUnauthorized
	}
	if req.SellerID == "" {
		return ReviewView{}, fmt.Errorf("%w: seller_id is required", domain.ErrInvalidInput)
	}
	if req.SellerID == actor.UserID {
		return ReviewView{}, fmt.Errorf("%w: you cannot review yourself", domain.ErrInvalidInput)
	}
	if err := domain.ValidateRating(req.Rating); err != nil {
		return ReviewView{}, err
	}

	review := domain.Review{
		ReviewID:   newReviewID(),
		ReviewerID: actor.UserID,
		SellerID:   req.SellerID,
		AdID:       req.AdID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  s.nowFn(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return ReviewView{}, err
	}

	if err := s.recomputeReputation(ctx, req.SellerID); err != nil {
		return ReviewView{}, fmt.Errorf("recompute reputation: %w", err)
	}

	s.enqueueEvent(ctx, "marketplace.review.created", req.SellerID, reviewView(review))

	return reviewView(review), nil
}

// DeleteReview removes a review. Only its author or an admin may delete,
// and the seller's reputation is recomputed from the remaining reviews.
func (s *Service) DeleteReview(ctx context.Context, actor Actor, reviewID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ReviewerID != actor.UserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: not your review", domain.ErrForbidden)
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	if err := s.recomputeReputation(ctx, review.SellerID); err != nil {
		return fmt.Errorf("recompute reputation: %w", err)
	}
	return nil
}

func (s *Service) ListSellerReviews(ctx context.Context, sellerID string, page, limit int) ([]ReviewView, error) {
	offset, limit := s.pageBounds(page, limit)
	reviews, _, err := s.reviews.ListBySeller(ctx, sellerID, offset, limit)
	if err != nil {
		return nil, err
	}
	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, reviewView(r))
	}
	return views, nil
}

// SellerStats returns the reputation snapshot plus the per-star
// distribution. Sellers with no reviews report 0.0 over 0.
func (s *Service) SellerStats(ctx context.Context, sellerID string) (SellerReviewStats, error) {
	stats := SellerReviewStats{SellerID: sellerID, Distribution: map[int]int{}}

	row, err := s.sellerStats.Get(ctx, sellerID)
	switch {
	case err == nil:
		stats.AvgRating = row.AvgRating
		stats.TotalReviews = row.TotalReviews
	case !isNotFound(err):
		return SellerReviewStats{}, err
	}

	dist, err := s.reviews.RatingDistribution(ctx, sellerID)
	if err != nil {
		return SellerReviewStats{}, err
	}
	for star, count := range dist {
		stats.Distribution[star] = count
	}
	return stats, nil
}

// recomputeReputation rebuilds the seller's denormalized snapshot from the
// current review set. The mean is rounded to one decimal; zero reviews
// store 0.0 over 0 rather than deleting the row.
func (s *Service) recomputeReputation(ctx context.Context, sellerID string) error {
	avg, count, err := s.reviews.AggregateSeller(ctx, sellerID)
	if err != nil {
		return err
	}
	rounded := math.Round(avg*10) / 10
	if count == 0 {
		rounded = 0
	}
	return s.sellerStats.SetReputation(ctx, sellerID, rounded, count, s.nowFn())
}

func reviewView(r domain.Review) ReviewView {
	return ReviewView{
		ID:         r.ReviewID,
		ReviewerID: r.ReviewerID,
		SellerID:   r.SellerID,
		AdID:       r.AdID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
