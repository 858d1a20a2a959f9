package application

import (
	"context"
	"fmt"

	"github.com/x67digital/marketplace/internal/domain"
)

// AddFavorite saves the ad to the caller's favorites, snapshotting the
// current price so a later drop can be flagged.
func (s *Service) AddFavorite(ctx context.Context, actor Actor, adID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return err
	}

	fav := domain.Favorite{
		FavoriteID: newFavoriteID(),
		UserID:     actor.UserID,
		AdID:       adID,
		AdPrice:    ad.Price,
		CreatedAt:  s.nowFn(),
	}
	if err := s.favorites.Create(ctx, fav); err != nil {
		return err
	}
	if err := s.ads.AdjustFavoritesCount(ctx, adID, 1); err != nil {
		s.logger.Warn("adjust favorites count", "ad_id", adID, "error", err)
	}
	return nil
}

func (s *Service) RemoveFavorite(ctx context.Context, actor Actor, adID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	if err := s.favorites.Delete(ctx, actor.UserID, adID); err != nil {
		return err
	}
	if err := s.ads.AdjustFavoritesCount(ctx, adID, -1); err != nil {
		s.logger.Warn("adjust favorites count", "ad_id", adID, "error", err)
	}
	return nil
}

func (s *Service) CheckFavorite(ctx context.Context, actor Actor, adID string) (bool, error) {
	if actor.UserID == "" {
		return false, domain.ErrUnauthorized
	}
	return s.favorites.Exists(ctx, actor.UserID, adID)
}

// ListFavorites returns the caller's saved ads. Ads deleted since saving
// are skipped; a price below the saved snapshot sets the drop flag.
func (s *Service) ListFavorites(ctx context.Context, actor Actor, page, limit int) ([]FavoriteView, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	offset, limit := s.pageBounds(page, limit)
	favs, _, err := s.favorites.ListByUser(ctx, actor.UserID, offset, limit)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	views := make([]FavoriteView, 0, len(favs))
	for _, f := range favs {
		fv := FavoriteView{AdID: f.AdID, AddedAt: f.CreatedAt}

		ad, err := s.ads.GetByID(ctx, f.AdID)
		switch {
		case err == nil:
			view := adView(&ad, now)
			fv.Ad = &view
			fv.PriceDropped = priceDropped(f.AdPrice, ad.Price)
		case isNotFound(err):
			continue
		default:
			return nil, fmt.Errorf("load favorited ad %s: %w", f.AdID, err)
		}
		views = append(views, fv)
	}
	return views, nil
}

func priceDropped(saved, current *float64) bool {
	return saved != nil && current != nil && *current < *saved
}
