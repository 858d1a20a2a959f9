package domain

import "time"

type AdStatus string

const (
	AdStatusPending  AdStatus = "pending"
	AdStatusActive   AdStatus = "active"
	AdStatusRejected AdStatus = "rejected"
	AdStatusExpired  AdStatus = "expired"
)

type PriceKind string

const (
	PriceKindFixed      PriceKind = "fixed"
	PriceKindNegotiable PriceKind = "negotiable"
	PriceKindFree       PriceKind = "free"
)

// ViewMilestones are the view counts that trigger an owner notification
// when crossed. Checked against the pre-increment count on each view.
var ViewMilestones = []int64{100, 500, 1000, 5000, 10000}

type Ad struct {
	AdID          string
	OwnerID       string
	Title         string
	Description   string
	CategoryID    string
	SubcategoryID string
	CityID        string
	Price         *float64
	PriceKind     PriceKind
	ContactPhone  string
	ContactEmail  string
	Images        []string
	Details       map[string]string

	Status AdStatus
	IsPaid bool

	IsBoosted        bool
	BoostExpiresAt   *time.Time
	IsPromoted       bool
	PromoteExpiresAt *time.Time

	// TopUpRank is a wall-clock rank (unix seconds). Zero while pending;
	// refreshed by manual topups and set at publish for immediately-active ads.
	TopUpRank float64
	LastTopUp *time.Time
	AutoTopUp bool

	Views          int64
	FavoritesCount int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BoostActive reports whether the boost privilege is live at the given
// instant. The boolean flag alone is not trusted: expiry is never swept.
func (a Ad) BoostActive(now time.Time) bool {
	return a.IsBoosted && a.BoostExpiresAt != nil && a.BoostExpiresAt.After(now)
}

func (a Ad) PromoteActive(now time.Time) bool {
	return a.IsPromoted && a.PromoteExpiresAt != nil && a.PromoteExpiresAt.After(now)
}

// CrossedMilestone returns the milestone crossed by moving the view count
// from oldViews to oldViews+1, or 0 when none was crossed.
func CrossedMilestone(oldViews int64) int64 {
	newViews := oldViews + 1
	for _, m := range ViewMilestones {
		if oldViews < m && m <= newViews {
			return m
		}
	}
	return 0
}
