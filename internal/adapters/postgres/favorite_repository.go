package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/x67digital/marketplace/internal/domain"
)

type favoriteRepository struct {
	db *gorm.DB
}

func (r *favoriteRepository) Create(ctx context.Context, favorite domain.Favorite) error {
	rec := favoriteModel{
		FavoriteID: favorite.FavoriteID,
		UserID:     favorite.UserID,
		AdID:       favorite.AdID,
		AdPrice:    favorite.AdPrice,
		CreatedAt:  favorite.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, adID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND ad_id = ?", userID, adID).Delete(&favoriteModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, adID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&favoriteModel{}).
		Where("user_id = ? AND ad_id = ?", userID, adID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Favorite, int64, error) {
	q := r.db.WithContext(ctx).Model(&favoriteModel{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []favoriteModel
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	favorites := make([]domain.Favorite, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, toDomainFavorite(row))
	}
	return favorites, total, nil
}
