package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

type adRepository struct {
	db *gorm.DB
}

func (r *adRepository) Create(ctx context.Context, ad domain.Ad) error {
	rec := toAdModel(ad)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *adRepository) GetByID(ctx context.Context, adID string) (domain.Ad, error) {
	var rec adModel
	if err := r.db.WithContext(ctx).Where("ad_id = ?", adID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ad{}, domain.ErrNotFound
		}
		return domain.Ad{}, err
	}
	return toDomainAd(rec), nil
}

func (r *adRepository) UpdateContent(ctx context.Context, params ports.UpdateAdContentParams) (domain.Ad, error) {
	updates := map[string]any{
		"updated_at": params.UpdatedAt,
	}
	if params.Title != nil {
		updates["title"] = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		updates["description"] = strings.TrimSpace(*params.Description)
	}
	if params.PriceSet {
		updates["price"] = params.Price
	}
	if params.PriceKind != nil {
		updates["price_kind"] = string(*params.PriceKind)
	}
	if params.ContactPhone != nil {
		updates["contact_phone"] = *params.ContactPhone
	}
	if params.ContactEmail != nil {
		updates["contact_email"] = *params.ContactEmail
	}
	if params.Images != nil {
		updates["images"] = marshalJSON(params.Images)
	}
	if params.Details != nil {
		updates["details"] = marshalJSON(params.Details)
	}

	res := r.db.WithContext(ctx).Model(&adModel{}).Where("ad_id = ?", params.AdID).Updates(updates)
	if res.Error != nil {
		return domain.Ad{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Ad{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.AdID)
}

// SetStatus applies a moderation decision. Making an ad active backfills a
// zero topup rank so approval does not pin the ad to the listing bottom.
func (r *adRepository) SetStatus(ctx context.Context, adID string, status domain.AdStatus, now time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": now,
	}
	res := r.db.WithContext(ctx).Model(&adModel{}).Where("ad_id = ?", adID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	if status == domain.AdStatusActive {
		return r.db.WithContext(ctx).Model(&adModel{}).
			Where("ad_id = ? AND topup_rank = 0", adID).
			Update("topup_rank", float64(now.Unix())).Error
	}
	return nil
}

func (r *adRepository) MarkTopUp(ctx context.Context, adID string, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&adModel{}).Where("ad_id = ?", adID).Updates(map[string]any{
		"topup_rank":    float64(now.Unix()),
		"last_topup_at": now,
		"updated_at":    now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *adRepository) SetAutoTopUp(ctx context.Context, adID string, enabled bool, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&adModel{}).Where("ad_id = ?", adID).Updates(map[string]any{
		"auto_topup": enabled,
		"updated_at": now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *adRepository) ApplyPaidEffect(ctx context.Context, params ports.PaidEffectParams) error {
	updates := map[string]any{
		"updated_at": params.UpdatedAt,
	}
	if params.Status != nil {
		updates["status"] = string(*params.Status)
	}
	if params.MarkPaid {
		updates["is_paid"] = true
	}
	if params.BoostExpiresAt != nil {
		updates["is_boosted"] = true
		updates["boost_expires_at"] = *params.BoostExpiresAt
	}
	if params.PromoteExpiresAt != nil {
		updates["is_promoted"] = true
		updates["promote_expires_at"] = *params.PromoteExpiresAt
	}
	res := r.db.WithContext(ctx).Model(&adModel{}).Where("ad_id = ?", params.AdID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *adRepository) IncrementViews(ctx context.Context, adID string) error {
	return r.db.WithContext(ctx).Model(&adModel{}).Where("ad_id = ?", adID).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *adRepository) AdjustFavoritesCount(ctx context.Context, adID string, delta int) error {
	return r.db.WithContext(ctx).Model(&adModel{}).Where("ad_id = ?", adID).
		Update("favorites_count", gorm.Expr("GREATEST(favorites_count + ?, 0)", delta)).Error
}

func (r *adRepository) ListActive(ctx context.Context, filter ports.AdListFilter) ([]domain.Ad, int64, error) {
	q := r.db.WithContext(ctx).Model(&adModel{}).Where("status = ?", string(domain.AdStatusActive))
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SubcategoryID != "" {
		q = q.Where("subcategory_id = ?", filter.SubcategoryID)
	}
	if filter.CityID != "" {
		q = q.Where("city_id = ?", filter.CityID)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []adModel
	if err := q.Order(orderClause(filter.Order)).
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	ads := make([]domain.Ad, 0, len(rows))
	for _, row := range rows {
		ads = append(ads, toDomainAd(row))
	}
	return ads, total, nil
}

func (r *adRepository) ListPromoted(ctx context.Context, now time.Time, limit int) ([]domain.Ad, error) {
	var rows []adModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.AdStatusActive)).
		Where("is_promoted = TRUE AND promote_expires_at > ?", now).
		Order("promote_expires_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ads := make([]domain.Ad, 0, len(rows))
	for _, row := range rows {
		ads = append(ads, toDomainAd(row))
	}
	return ads, nil
}

func (r *adRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.Ad, int64, error) {
	q := r.db.WithContext(ctx).Model(&adModel{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []adModel
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	ads := make([]domain.Ad, 0, len(rows))
	for _, row := range rows {
		ads = append(ads, toDomainAd(row))
	}
	return ads, total, nil
}

func (r *adRepository) Delete(ctx context.Context, adID string) error {
	res := r.db.WithContext(ctx).Where("ad_id = ?", adID).Delete(&adModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// sortColumns whitelists the order-by fields the listing accepts. Anything
// else is silently dropped rather than interpolated into SQL.
var sortColumns = map[string]string{
	domain.SortFieldTopUpRank:     "topup_rank",
	domain.SortFieldCreatedAt:     "created_at",
	domain.SortFieldPrice:         "price",
	domain.SortFieldIsBoosted:     "is_boosted",
	domain.SortFieldBoostExpires:  "boost_expires_at",
	domain.SortFieldPromoteExpire: "promote_expires_at",
}

func orderClause(keys []domain.SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		col, ok := sortColumns[key.Field]
		if !ok {
			continue
		}
		dir := "asc"
		if key.Desc {
			dir = "desc"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return "topup_rank desc, created_at desc"
	}
	return strings.Join(parts, ", ")
}
