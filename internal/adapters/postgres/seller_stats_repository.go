package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/x67digital/marketplace/internal/domain"
)

type sellerStatsRepository struct {
	db *gorm.DB
}

func (r *sellerStatsRepository) Get(ctx context.Context, userID string) (domain.SellerStats, error) {
	var rec sellerStatsModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SellerStats{}, domain.ErrNotFound
		}
		return domain.SellerStats{}, err
	}
	return toDomainSellerStats(rec), nil
}

func (r *sellerStatsRepository) EnsureReferralCode(ctx context.Context, userID, code string, now time.Time) (domain.SellerStats, error) {
	rec := sellerStatsModel{
		UserID:       userID,
		ReferralCode: code,
		UpdatedAt:    now,
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(&rec).Error
	if err != nil {
		return domain.SellerStats{}, err
	}
	// A pre-existing row may predate referral codes. Assign one then.
	if rec.ReferralCode == "" {
		updates := map[string]any{"referral_code": code, "updated_at": now}
		if err := r.db.WithContext(ctx).Model(&sellerStatsModel{}).
			Where("user_id = ? AND (referral_code IS NULL OR referral_code = '')", userID).
			Updates(updates).Error; err != nil {
			return domain.SellerStats{}, err
		}
		return r.Get(ctx, userID)
	}
	return toDomainSellerStats(rec), nil
}

func (r *sellerStatsRepository) IncrementReferrals(ctx context.Context, referralCode string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&sellerStatsModel{}).
		Where("referral_code = ?", referralCode).
		Updates(map[string]any{
			"referral_count": gorm.Expr("referral_count + 1"),
			"updated_at":     now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sellerStatsRepository) SetReputation(ctx context.Context, userID string, avgRating float64, totalReviews int, now time.Time) error {
	rec := sellerStatsModel{
		UserID:       userID,
		AvgRating:    avgRating,
		TotalReviews: totalReviews,
		UpdatedAt:    now,
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Assign(map[string]any{
			"avg_rating":    avgRating,
			"total_reviews": totalReviews,
			"updated_at":    now,
		}).
		FirstOrCreate(&rec).Error
}
