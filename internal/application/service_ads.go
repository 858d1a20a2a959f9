package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

// PublishAd creates a new listing. Ads in moderation-gated categories are
// created pending and surface only after an operator approves them; all
// other ads go live immediately.
func (s *Service) PublishAd(ctx context.Context, actor Actor, req PublishAdRequest) (AdView, error) {
	if actor.UserID == "" {
		return AdView{}, domain.ErrUnauthorized
	}
	if err := domain.ValidateTitle(req.Title); err != nil {
		return AdView{}, err
	}
	if err := domain.ValidateDescription(req.Description); err != nil {
		return AdView{}, err
	}
	if err := domain.ValidatePrice(req.Price); err != nil {
		return AdView{}, err
	}
	priceKind, err := domain.ParsePriceKind(req.PriceKind)
	if err != nil {
		return AdView{}, err
	}
	if req.CategoryID == "" {
		return AdView{}, fmt.Errorf("%w: category_id is required", domain.ErrInvalidInput)
	}
	if req.CityID == "" {
		return AdView{}, fmt.Errorf("%w: city_id is required", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	status := domain.AdStatusActive
	rank := float64(now.Unix())
	var lastTopUp *time.Time
	if s.moderationRequired(req.CategoryID) {
		status = domain.AdStatusPending
		rank = 0
	} else {
		// publish counts as the first topup, so the cooldown applies
		// from the moment the ad goes live
		lastTopUp = &now
	}

	ad := domain.Ad{
		AdID:          newAdID(),
		OwnerID:       actor.UserID,
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		CityID:        req.CityID,
		Price:         req.Price,
		PriceKind:     priceKind,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		Images:        req.Images,
		Details:       req.Details,
		Status:        status,
		IsPaid:        true,
		AutoTopUp:     true,
		TopUpRank:     rank,
		LastTopUp:     lastTopUp,
		Views:         0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.ads.Create(ctx, ad); err != nil {
		return AdView{}, err
	}

	s.logger.Info("ad published",
		"ad_id", ad.AdID, "owner_id", ad.OwnerID,
		"category_id", ad.CategoryID, "status", string(ad.Status))

	s.notify(s.cfg.OperatorRecipient, ports.NotifyOperatorNewAd, map[string]string{
		"ad_id":    ad.AdID,
		"title":    ad.Title,
		"owner_id": ad.OwnerID,
	})
	if status == domain.AdStatusPending {
		s.notify(actor.UserID, ports.NotifyAdSubmitted, map[string]string{
			"ad_id": ad.AdID,
			"title": ad.Title,
		})
	}

	s.enqueueEvent(ctx, "marketplace.ad.published", ad.AdID, adView(&ad, now))

	return adView(&ad, now), nil
}

// GetAd returns a single ad and counts the view. Crossing a view milestone
// notifies the owner once per milestone.
func (s *Service) GetAd(ctx context.Context, adID string) (AdView, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return AdView{}, err
	}

	if err := s.ads.IncrementViews(ctx, adID); err != nil {
		s.logger.Warn("increment views", "ad_id", adID, "error", err)
	} else {
		if milestone := domain.CrossedMilestone(ad.Views); milestone > 0 {
			s.notify(ad.OwnerID, ports.NotifyViewsMilestone, map[string]string{
				"ad_id":     ad.AdID,
				"title":     ad.Title,
				"milestone": strconv.FormatInt(milestone, 10),
			})
		}
		ad.Views++
	}

	return adView(&ad, s.nowFn()), nil
}

// UpdateAd applies a partial edit. Only the owner or an admin may edit, and
// editing never changes the moderation status or any paid privilege.
func (s *Service) UpdateAd(ctx context.Context, actor Actor, adID string, req UpdateAdRequest) (AdView, error) {
	if actor.UserID == "" {
		return AdView{}, domain.ErrUnauthorized
	}
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return AdView{}, err
	}
	if ad.OwnerID != actor.UserID && !actor.IsAdmin() {
		return AdView{}, fmt.Errorf("%w: not your ad", domain.ErrForbidden)
	}

	if req.Title != nil {
		if err := domain.ValidateTitle(*req.Title); err != nil {
			return AdView{}, err
		}
	}
	if req.Description != nil {
		if err := domain.ValidateDescription(*req.Description); err != nil {
			return AdView{}, err
		}
	}
	if err := domain.ValidatePrice(req.Price); err != nil {
		return AdView{}, err
	}

	params := ports.UpdateAdContentParams{
		AdID:         adID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		PriceSet:     req.Price != nil,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Images:       req.Images,
		Details:      req.Details,
		UpdatedAt:    s.nowFn(),
	}
	if req.PriceKind != nil {
		kind, err := domain.ParsePriceKind(*req.PriceKind)
		if err != nil {
			return AdView{}, err
		}
		params.PriceKind = &kind
	}

	updated, err := s.ads.UpdateContent(ctx, params)
	if err != nil {
		return AdView{}, err
	}

	s.enqueueEvent(ctx, "marketplace.ad.updated", adID, adView(&updated, s.nowFn()))

	return adView(&updated, s.nowFn()), nil
}

func (s *Service) DeleteAd(ctx context.Context, actor Actor, adID string) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return err
	}
	if ad.OwnerID != actor.UserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: not your ad", domain.ErrForbidden)
	}
	if err := s.ads.Delete(ctx, adID); err != nil {
		return err
	}
	s.logger.Info("ad deleted", "ad_id", adID, "by", actor.UserID)
	s.enqueueEvent(ctx, "marketplace.ad.deleted", adID, map[string]string{"ad_id": adID})
	return nil
}

// SetModerationStatus is the operator decision on a pending ad. Approval
// backfills the topup rank so the ad does not surface at the bottom of
// every rank-ordered listing.
func (s *Service) SetModerationStatus(ctx context.Context, actor Actor, adID, status string) (AdView, error) {
	if actor.UserID == "" {
		return AdView{}, domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return AdView{}, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	parsed, err := domain.ParseAdStatus(status)
	if err != nil {
		return AdView{}, err
	}
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return AdView{}, err
	}

	now := s.nowFn()
	if err := s.ads.SetStatus(ctx, adID, parsed, now); err != nil {
		return AdView{}, err
	}

	s.logger.Info("ad moderated", "ad_id", adID, "status", string(parsed), "by", actor.UserID)

	switch parsed {
	case domain.AdStatusActive:
		s.notify(ad.OwnerID, ports.NotifyAdApproved, map[string]string{
			"ad_id": ad.AdID,
			"title": ad.Title,
		})
	case domain.AdStatusRejected:
		s.notify(ad.OwnerID, ports.NotifyAdRejected, map[string]string{
			"ad_id": ad.AdID,
			"title": ad.Title,
		})
	}

	s.enqueueEvent(ctx, "marketplace.ad.moderated", adID, map[string]string{
		"ad_id":  adID,
		"status": string(parsed),
	})

	refreshed, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return AdView{}, err
	}
	return adView(&refreshed, now), nil
}

// ListAds returns the public listing: active ads only, filtered and ordered
// per the requested sort mode. The boosted flag participates in the order
// only for moderation-gated categories.
func (s *Service) ListAds(ctx context.Context, in ListAdsInput) (AdPage, error) {
	if in.MinPrice != nil && *in.MinPrice < 0 || in.MaxPrice != nil && *in.MaxPrice < 0 {
		return AdPage{}, fmt.Errorf("%w: price bounds must be non-negative", domain.ErrInvalidInput)
	}

	mode := domain.ParseSortMode(in.Sort)
	order := domain.OrderFor(mode, in.CategoryID != "" && s.moderationRequired(in.CategoryID))

	offset, limit := s.pageBounds(in.Page, in.Limit)
	filter := ports.AdListFilter{
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		CityID:        in.CityID,
		MinPrice:      in.MinPrice,
		MaxPrice:      in.MaxPrice,
		Order:         order,
		Offset:        offset,
		Limit:         limit,
	}

	ads, _, err := s.ads.ListActive(ctx, filter)
	if err != nil {
		return AdPage{}, err
	}

	now := s.nowFn()
	views := make([]AdView, 0, len(ads))
	for i := range ads {
		views = append(views, adView(&ads[i], now))
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	return AdPage{Ads: views, Page: page, Limit: limit}, nil
}

// ListPromoted returns the carousel of ads with a live promote privilege,
// freshest promotions first. Results are cached briefly since the carousel
// renders on every landing page.
func (s *Service) ListPromoted(ctx context.Context, limit int) ([]AdView, error) {
	if limit <= 0 || limit > s.cfg.MaxPageSize {
		limit = s.cfg.DefaultPageSize
	}

	cacheKey := "ads:promoted:" + strconv.Itoa(limit)
	if s.cache != nil {
		if cached, ok := s.cacheGetAds(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	now := s.nowFn()
	ads, err := s.ads.ListPromoted(ctx, now, limit)
	if err != nil {
		return nil, err
	}

	views := make([]AdView, 0, len(ads))
	for i := range ads {
		views = append(views, adView(&ads[i], now))
	}

	if s.cache != nil {
		s.cacheSetAds(ctx, cacheKey, views)
	}
	return views, nil
}

func (s *Service) ListMyAds(ctx context.Context, actor Actor, page, limit int) (AdPage, error) {
	if actor.UserID == "" {
		return AdPage{}, domain.ErrUnauthorized
	}
	offset, limit := s.pageBounds(page, limit)
	ads, _, err := s.ads.ListByOwner(ctx, actor.UserID, offset, limit)
	if err != nil {
		return AdPage{}, err
	}
	now := s.nowFn()
	views := make([]AdView, 0, len(ads))
	for i := range ads {
		views = append(views, adView(&ads[i], now))
	}
	if page < 1 {
		page = 1
	}
	return AdPage{Ads: views, Page: page, Limit: limit}, nil
}

// TopUp refreshes the ad's rank to the current instant, subject to a
// per-ad cooldown. Sellers with at least one tracked referral get the
// shorter cooldown tier.
func (s *Service) TopUp(ctx context.Context, actor Actor, adID string) (TopUpResult, error) {
	if actor.UserID == "" {
		return TopUpResult{}, domain.ErrUnauthorized
	}
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return TopUpResult{}, err
	}
	if ad.OwnerID != actor.UserID {
		return TopUpResult{}, fmt.Errorf("%w: not your ad", domain.ErrForbidden)
	}
	if ad.Status != domain.AdStatusActive {
		return TopUpResult{}, fmt.Errorf("%w: only active ads can be topped up", domain.ErrInvalidInput)
	}

	cooldown, discounted := s.topUpCooldown(ctx, actor.UserID)

	now := s.nowFn()
	if ad.LastTopUp != nil {
		elapsed := now.Sub(*ad.LastTopUp)
		if elapsed < cooldown {
			return TopUpResult{}, &domain.RateLimitError{
				RemainingMinutes: int((cooldown - elapsed).Minutes()),
			}
		}
	}

	if err := s.ads.MarkTopUp(ctx, adID, now); err != nil {
		return TopUpResult{}, err
	}

	s.logger.Info("ad topped up", "ad_id", adID, "owner_id", actor.UserID, "referral_discount", discounted)

	return TopUpResult{
		AdID:             adID,
		NextTopUpMinutes: int(cooldown.Minutes()),
		ReferralDiscount: discounted,
	}, nil
}

func (s *Service) topUpCooldown(ctx context.Context, userID string) (time.Duration, bool) {
	stats, err := s.sellerStats.Get(ctx, userID)
	if err == nil && stats.ReferralCount >= 1 {
		return s.cfg.TopUpCooldownReferral, true
	}
	return s.cfg.TopUpCooldown, false
}

// SetAutoTopUp toggles the auto-topup preference. Owner only; the flag is
// informational for the seller dashboard and for rank maintenance jobs.
func (s *Service) SetAutoTopUp(ctx context.Context, actor Actor, adID string, enabled bool) error {
	if actor.UserID == "" {
		return domain.ErrUnauthorized
	}
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return err
	}
	if ad.OwnerID != actor.UserID {
		return fmt.Errorf("%w: not your ad", domain.ErrForbidden)
	}
	return s.ads.SetAutoTopUp(ctx, adID, enabled, s.nowFn())
}

// ReferralCode returns the caller's referral code and tracked count,
// assigning a code on first use.
func (s *Service) ReferralCode(ctx context.Context, actor Actor) (ReferralInfo, error) {
	if actor.UserID == "" {
		return ReferralInfo{}, domain.ErrUnauthorized
	}
	stats, err := s.sellerStats.EnsureReferralCode(ctx, actor.UserID, newReferralCode(), s.nowFn())
	if err != nil {
		return ReferralInfo{}, err
	}
	return ReferralInfo{Code: stats.ReferralCode, Count: stats.ReferralCount}, nil
}

// TrackReferral credits a signup against the referral code. Unknown codes
// are not an error: the signup flow must never fail on a stale link.
func (s *Service) TrackReferral(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, fmt.Errorf("%w: referral code is required", domain.ErrInvalidInput)
	}
	tracked, err := s.sellerStats.IncrementReferrals(ctx, code, s.nowFn())
	if err != nil {
		return false, err
	}
	if tracked {
		s.logger.Info("referral tracked", "code", code)
	}
	return tracked, nil
}
