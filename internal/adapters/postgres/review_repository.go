package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/x67digital/marketplace/internal/domain"
)

type reviewRepository struct {
	db *gorm.DB
}

func (r *reviewRepository) Create(ctx context.Context, review domain.Review) error {
	rec := reviewModel{
		ReviewID:   review.ReviewID,
		ReviewerID: review.ReviewerID,
		SellerID:   review.SellerID,
		AdID:       review.AdID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, reviewID string) (domain.Review, error) {
	var rec reviewModel
	if err := r.db.WithContext(ctx).Where("review_id = ?", reviewID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	return toDomainReview(rec), nil
}

func (r *reviewRepository) Delete(ctx context.Context, reviewID string) error {
	res := r.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&reviewModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) ListBySeller(ctx context.Context, sellerID string, offset, limit int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&reviewModel{}).Where("seller_id = ?", sellerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewModel
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	reviews := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, toDomainReview(row))
	}
	return reviews, total, nil
}

func (r *reviewRepository) AggregateSeller(ctx context.Context, sellerID string) (float64, int, error) {
	var agg struct {
		Avg   *float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Select("AVG(rating) as avg, COUNT(*) as count").
		Where("seller_id = ?", sellerID).
		Take(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	if agg.Avg == nil {
		return 0, 0, nil
	}
	return *agg.Avg, int(agg.Count), nil
}

func (r *reviewRepository) RatingDistribution(ctx context.Context, sellerID string) (map[int]int, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Select("rating, COUNT(*) as count").
		Where("seller_id = ?", sellerID).
		Group("rating").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	dist := make(map[int]int, len(rows))
	for _, row := range rows {
		dist[row.Rating] = int(row.Count)
	}
	return dist, nil
}
