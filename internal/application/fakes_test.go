package application

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

type fakeAdRepo struct {
	mu  sync.Mutex
	ads map[string]domain.Ad
}

func newFakeAdRepo() *fakeAdRepo {
	return &fakeAdRepo{ads: make(map[string]domain.Ad)}
}

func (r *fakeAdRepo) Create(_ context.Context, ad domain.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[ad.AdID]; ok {
		return domain.ErrConflict
	}
	r.ads[ad.AdID] = ad
	return nil
}

func (r *fakeAdRepo) GetByID(_ context.Context, adID string) (domain.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[adID]
	if !ok {
		return domain.Ad{}, domain.ErrNotFound
	}
	return ad, nil
}

func (r *fakeAdRepo) UpdateContent(_ context.Context, params ports.UpdateAdContentParams) (domain.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[params.AdID]
	if !ok {
		return domain.Ad{}, domain.ErrNotFound
	}
	if params.Title != nil {
		ad.Title = *params.Title
	}
	if params.Description != nil {
		ad.Description = *params.Description
	}
	if params.PriceSet {
		ad.Price = params.Price
	}
	if params.PriceKind != nil {
		ad.PriceKind = *params.PriceKind
	}
	if params.ContactPhone != nil {
		ad.ContactPhone = *params.ContactPhone
	}
	if params.ContactEmail != nil {
		ad.ContactEmail = *params.ContactEmail
	}
	if params.Images != nil {
		ad.Images = params.Images
	}
	if params.Details != nil {
		ad.Details = params.Details
	}
	ad.UpdatedAt = params.UpdatedAt
	r.ads[params.AdID] = ad
	return ad, nil
}

func (r *fakeAdRepo) SetStatus(_ context.Context, adID string, status domain.AdStatus, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[adID]
	if !ok {
		return domain.ErrNotFound
	}
	ad.Status = status
	ad.UpdatedAt = now
	if status == domain.AdStatusActive && ad.TopUpRank == 0 {
		ad.TopUpRank = float64(now.Unix())
	}
	r.ads[adID] = ad
	return nil
}

func (r *fakeAdRepo) MarkTopUp(_ context.Context, adID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[adID]
	if !ok {
		return domain.ErrNotFound
	}
	ad.TopUpRank = float64(now.Unix())
	last := now
	ad.LastTopUp = &last
	ad.UpdatedAt = now
	r.ads[adID] = ad
	return nil
}

func (r *fakeAdRepo) SetAutoTopUp(_ context.Context, adID string, enabled bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[adID]
	if !ok {
		return domain.ErrNotFound
	}
	ad.AutoTopUp = enabled
	ad.UpdatedAt = now
	r.ads[adID] = ad
	return nil
}

func (r *fakeAdRepo) ApplyPaidEffect(_ context.Context, params ports.PaidEffectParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[params.AdID]
	if !ok {
		return domain.ErrNotFound
	}
	if params.Status != nil {
		ad.Status = *params.Status
	}
	if params.MarkPaid {
		ad.IsPaid = true
	}
	if params.BoostExpiresAt != nil {
		ad.IsBoosted = true
		ad.BoostExpiresAt = params.BoostExpiresAt
	}
	if params.PromoteExpiresAt != nil {
		ad.IsPromoted = true
		ad.PromoteExpiresAt = params.PromoteExpiresAt
	}
	ad.UpdatedAt = params.UpdatedAt
	r.ads[params.AdID] = ad
	return nil
}

func (r *fakeAdRepo) IncrementViews(_ context.Context, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[adID]
	if !ok {
		return domain.ErrNotFound
	}
	ad.Views++
	r.ads[adID] = ad
	return nil
}

func (r *fakeAdRepo) AdjustFavoritesCount(_ context.Context, adID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[adID]
	if !ok {
		return domain.ErrNotFound
	}
	ad.FavoritesCount += int64(delta)
	if ad.FavoritesCount < 0 {
		ad.FavoritesCount = 0
	}
	r.ads[adID] = ad
	return nil
}

func (r *fakeAdRepo) ListActive(_ context.Context, filter ports.AdListFilter) ([]domain.Ad, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ad
	for _, ad := range r.ads {
		if ad.Status != domain.AdStatusActive {
			continue
		}
		if filter.CategoryID != "" && ad.CategoryID != filter.CategoryID {
			continue
		}
		if filter.SubcategoryID != "" && ad.SubcategoryID != filter.SubcategoryID {
			continue
		}
		if filter.CityID != "" && ad.CityID != filter.CityID {
			continue
		}
		if filter.MinPrice != nil && (ad.Price == nil || *ad.Price < *filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && (ad.Price == nil || *ad.Price > *filter.MaxPrice) {
			continue
		}
		out = append(out, ad)
	}
	domain.SortAds(out, filter.Order)
	total := int64(len(out))
	if filter.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *fakeAdRepo) ListPromoted(_ context.Context, now time.Time, limit int) ([]domain.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ad
	for _, ad := range r.ads {
		if ad.Status == domain.AdStatusActive && ad.PromoteActive(now) {
			out = append(out, ad)
		}
	}
	domain.SortAds(out, []domain.SortKey{{Field: domain.SortFieldPromoteExpire, Desc: true}})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAdRepo) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]domain.Ad, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ad
	for _, ad := range r.ads {
		if ad.OwnerID == ownerID {
			out = append(out, ad)
		}
	}
	domain.SortAds(out, []domain.SortKey{{Field: domain.SortFieldCreatedAt, Desc: true}})
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeAdRepo) Delete(_ context.Context, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[adID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.ads, adID)
	return nil
}

type fakePaymentRepo struct {
	mu     sync.Mutex
	orders map[int64]domain.PaymentOrder
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{orders: make(map[int64]domain.PaymentOrder)}
}

func (r *fakePaymentRepo) Create(_ context.Context, order domain.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.OrderCode]; ok {
		return domain.ErrConflict
	}
	r.orders[order.OrderCode] = order
	return nil
}

func (r *fakePaymentRepo) GetByOrderCode(_ context.Context, orderCode int64) (domain.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderCode]
	if !ok {
		return domain.PaymentOrder{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *fakePaymentRepo) Complete(_ context.Context, orderCode int64, transactionID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderCode]
	if !ok || order.Status != domain.PaymentStatusPending {
		return false, nil
	}
	order.Status = domain.PaymentStatusCompleted
	order.TransactionID = transactionID
	completed := at
	order.CompletedAt = &completed
	r.orders[orderCode] = order
	return true, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]domain.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.ReviewerID == review.ReviewerID &&
			existing.SellerID == review.SellerID &&
			existing.AdID == review.AdID {
			return domain.ErrConflict
		}
	}
	r.reviews[review.ReviewID] = review
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, reviewID string) (domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[reviewID]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return review, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, reviewID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[reviewID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.reviews, reviewID)
	return nil
}

func (r *fakeReviewRepo) ListBySeller(_ context.Context, sellerID string, offset, limit int) ([]domain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, review := range r.reviews {
		if review.SellerID == sellerID {
			out = append(out, review)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeReviewRepo) AggregateSeller(_ context.Context, sellerID string) (float64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, count := 0, 0
	for _, review := range r.reviews {
		if review.SellerID == sellerID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *fakeReviewRepo) RatingDistribution(_ context.Context, sellerID string) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dist := make(map[int]int)
	for _, review := range r.reviews {
		if review.SellerID == sellerID {
			dist[review.Rating]++
		}
	}
	return dist, nil
}

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]domain.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]domain.Favorite)}
}

func favKey(userID, adID string) string { return userID + "|" + adID }

func (r *fakeFavoriteRepo) Create(_ context.Context, favorite domain.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favKey(favorite.UserID, favorite.AdID)
	if _, ok := r.favorites[key]; ok {
		return domain.ErrConflict
	}
	r.favorites[key] = favorite
	return nil
}

func (r *fakeFavoriteRepo) Delete(_ context.Context, userID, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favKey(userID, adID)
	if _, ok := r.favorites[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.favorites, key)
	return nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID, adID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favorites[favKey(userID, adID)]
	return ok, nil
}

func (r *fakeFavoriteRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]domain.Favorite, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Favorite
	for _, favorite := range r.favorites {
		if favorite.UserID == userID {
			out = append(out, favorite)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type fakeSellerStatsRepo struct {
	mu            sync.Mutex
	stats         map[string]domain.SellerStats
	reputationErr error
}

func newFakeSellerStatsRepo() *fakeSellerStatsRepo {
	return &fakeSellerStatsRepo{stats: make(map[string]domain.SellerStats)}
}

func (r *fakeSellerStatsRepo) Get(_ context.Context, userID string) (domain.SellerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.stats[userID]
	if !ok {
		return domain.SellerStats{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *fakeSellerStatsRepo) EnsureReferralCode(_ context.Context, userID, code string, now time.Time) (domain.SellerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.stats[userID]
	if !ok {
		row = domain.SellerStats{UserID: userID, ReferralCode: code, UpdatedAt: now}
		r.stats[userID] = row
		return row, nil
	}
	if row.ReferralCode == "" {
		row.ReferralCode = code
		row.UpdatedAt = now
		r.stats[userID] = row
	}
	return row, nil
}

func (r *fakeSellerStatsRepo) IncrementReferrals(_ context.Context, referralCode string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, row := range r.stats {
		if row.ReferralCode == referralCode {
			row.ReferralCount++
			row.UpdatedAt = now
			r.stats[userID] = row
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSellerStatsRepo) SetReputation(_ context.Context, userID string, avgRating float64, totalReviews int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reputationErr != nil {
		return r.reputationErr
	}
	row := r.stats[userID]
	row.UserID = userID
	row.AvgRating = avgRating
	row.TotalReviews = totalReviews
	row.UpdatedAt = now
	r.stats[userID] = row
	return nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (o *fakeOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return nil
}

func (o *fakeOutbox) FetchUnpublished(context.Context, int) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (o *fakeOutbox) MarkPublished(context.Context, uuid.UUID, time.Time) error { return nil }

func (o *fakeOutbox) MarkFailed(context.Context, uuid.UUID, string, time.Time) error { return nil }

type fakeGateway struct {
	mu        sync.Mutex
	nextCode  int64
	failWith  error
	lastOrder ports.GatewayOrderParams
}

func (g *fakeGateway) CreateOrder(_ context.Context, params ports.GatewayOrderParams) (ports.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return ports.GatewayOrder{}, g.failWith
	}
	g.nextCode++
	g.lastOrder = params
	return ports.GatewayOrder{OrderCode: g.nextCode, CheckoutURL: "https://pay.test/checkout"}, nil
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *captureNotifier) Notify(msg ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *captureNotifier) ofKind(kind string) []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []ports.Notification
	for _, msg := range n.sent {
		if msg.Kind == kind {
			out = append(out, msg)
		}
	}
	return out
}

type testEnv struct {
	svc      *Service
	ads      *fakeAdRepo
	payments *fakePaymentRepo
	reviews  *fakeReviewRepo
	favs     *fakeFavoriteRepo
	stats    *fakeSellerStatsRepo
	outbox   *fakeOutbox
	gateway  *fakeGateway
	notifier *captureNotifier
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		ads:      newFakeAdRepo(),
		payments: newFakePaymentRepo(),
		reviews:  newFakeReviewRepo(),
		favs:     newFakeFavoriteRepo(),
		stats:    newFakeSellerStatsRepo(),
		outbox:   &fakeOutbox{},
		gateway:  &fakeGateway{},
		notifier: &captureNotifier{},
		now:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(Dependencies{
		Config: Config{
			Categories: []domain.Category{
				{ID: "electronics", Name: "Electronics"},
				{ID: "services", Name: "Services", ModerationRequired: true},
			},
			Cities:            []domain.City{{ID: "athens", Name: "Athens"}},
			OperatorRecipient: "operators",
		},
		Ads:         env.ads,
		Payments:    env.payments,
		Reviews:     env.reviews,
		Favorites:   env.favs,
		SellerStats: env.stats,
		Outbox:      env.outbox,
		Gateway:     env.gateway,
		Notifier:    env.notifier,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	env.svc.nowFn = func() time.Time { return env.now }
	return env
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }
