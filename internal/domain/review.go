package domain

import "time"

type Review struct {
	ReviewID   string
	ReviewerID string
	SellerID   string
	AdID       string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// SellerStats is the per-seller denormalized row: the reputation snapshot
// maintained by the aggregator plus referral state used for topup cooldowns.
type SellerStats struct {
	UserID        string
	AvgRating     float64
	TotalReviews  int
	ReferralCode  string
	ReferralCount int
	UpdatedAt     time.Time
}

type Favorite struct {
	FavoriteID string
	UserID     string
	AdID       string
	// AdPrice snapshots the ad price at favoriting time so listings can
	// flag a price drop.
	AdPrice   *float64
	CreatedAt time.Time
}
