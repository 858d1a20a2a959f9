package application

import (
	"strings"
	"time"

	"github.com/x67digital/marketplace/internal/domain"
)

// Config carries the tunables and reference data the engine needs. Zero
// values are replaced with defaults in NewService.
type Config struct {
	ServiceName string

	Categories []domain.Category
	Cities     []domain.City

	// PriceTable maps a payment kind to its amount in minor units.
	PriceTable map[domain.PaymentKind]int64

	TopUpCooldown         time.Duration
	TopUpCooldownReferral time.Duration
	BoostDuration         time.Duration
	PromoteDuration       time.Duration

	OperatorRecipient string

	DefaultPageSize  int
	MaxPageSize      int
	PromotedCacheTTL time.Duration
}

// Actor identifies the authenticated caller of an operation. A zero Actor
// means the request carried no valid credentials.
type Actor struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return strings.EqualFold(a.Role, "admin")
}

type PublishAdRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	CategoryID    string            `json:"category_id"`
	SubcategoryID string            `json:"subcategory_id"`
	CityID        string            `json:"city_id"`
	Price         *float64          `json:"price"`
	PriceKind     string            `json:"price_type"`
	ContactPhone  string            `json:"contact_phone"`
	ContactEmail  string            `json:"contact_email"`
	Images        []string          `json:"images"`
	Details       map[string]string `json:"details"`
}

// UpdateAdRequest updates only the fields that are present. Nil pointers
// and nil slices leave the stored values untouched.
type UpdateAdRequest struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Price        *float64          `json:"price"`
	PriceKind    *string           `json:"price_type"`
	ContactPhone *string           `json:"contact_phone"`
	ContactEmail *string           `json:"contact_email"`
	Images       []string          `json:"images"`
	Details      map[string]string `json:"details"`
}

type ListAdsInput struct {
	CategoryID    string
	SubcategoryID string
	CityID        string
	MinPrice      *float64
	MaxPrice      *float64
	Sort          string
	Page          int
	Limit         int
}

type AdView struct {
	ID               string            `json:"id"`
	OwnerID          string            `json:"owner_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	CategoryID       string            `json:"category_id"`
	SubcategoryID    string            `json:"subcategory_id,omitempty"`
	CityID           string            `json:"city_id"`
	Price            *float64          `json:"price"`
	PriceKind        string            `json:"price_type"`
	ContactPhone     string            `json:"contact_phone,omitempty"`
	ContactEmail     string            `json:"contact_email,omitempty"`
	Images           []string          `json:"images"`
	Details          map[string]string `json:"details,omitempty"`
	Status           string            `json:"status"`
	IsPaid           bool              `json:"is_paid"`
	IsBoosted        bool              `json:"is_boosted"`
	BoostExpiresAt   *time.Time        `json:"boost_expires_at,omitempty"`
	IsPromoted       bool              `json:"is_promoted"`
	PromoteExpiresAt *time.Time        `json:"promote_expires_at,omitempty"`
	AutoTopUp        bool              `json:"auto_topup"`
	Views            int64             `json:"views"`
	FavoritesCount   int64             `json:"favorites_count"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type AdPage struct {
	Ads   []AdView `json:"ads"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
}

type TopUpResult struct {
	AdID             string `json:"ad_id"`
	NextTopUpMinutes int    `json:"next_topup_minutes"`
	ReferralDiscount bool   `json:"referral_discount"`
}

type CreateOrderRequest struct {
	AdID        string `json:"ad_id"`
	PaymentType string `json:"payment_type"`
}

type OrderResult struct {
	OrderCode   int64   `json:"order_code"`
	CheckoutURL string  `json:"checkout_url"`
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"payment_type"`
}

type OrderStatusView struct {
	OrderCode   int64      `json:"order_code"`
	AdID        string     `json:"ad_id"`
	PaymentType string     `json:"payment_type"`
	Status      string     `json:"status"`
	Amount      float64    `json:"amount"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// WebhookEvent is the normalized payment-gateway callback. MerchantRef is
// the opaque correlation string echoed back by the gateway.
type WebhookEvent struct {
	OrderCode     int64
	StatusCode    string
	TransactionID string
	MerchantRef   string
}

type CreateReviewRequest struct {
	SellerID string `json:"seller_id"`
	AdID     string `json:"ad_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type ReviewView struct {
	ID         string    `json:"id"`
	ReviewerID string    `json:"reviewer_id"`
	SellerID   string    `json:"seller_id"`
	AdID       string    `json:"ad_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type SellerReviewStats struct {
	SellerID     string      `json:"seller_id"`
	AvgRating    float64     `json:"avg_rating"`
	TotalReviews int         `json:"total_reviews"`
	Distribution map[int]int `json:"distribution"`
}

type FavoriteView struct {
	AdID         string    `json:"ad_id"`
	Ad           *AdView   `json:"ad,omitempty"`
	PriceDropped bool      `json:"price_dropped"`
	AddedAt      time.Time `json:"added_at"`
}

type ReferralInfo struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

func adView(ad *domain.Ad, now time.Time) AdView {
	images := ad.Images
	if images == nil {
		images = []string{}
	}
	return AdView{
		ID:               ad.AdID,
		OwnerID:          ad.OwnerID,
		Title:            ad.Title,
		Description:      ad.Description,
		CategoryID:       ad.CategoryID,
		SubcategoryID:    ad.SubcategoryID,
		CityID:           ad.CityID,
		Price:            ad.Price,
		PriceKind:        string(ad.PriceKind),
		ContactPhone:     ad.ContactPhone,
		ContactEmail:     ad.ContactEmail,
		Images:           images,
		Details:          ad.Details,
		Status:           string(ad.Status),
		IsPaid:           ad.IsPaid,
		IsBoosted:        ad.BoostActive(now),
		BoostExpiresAt:   ad.BoostExpiresAt,
		IsPromoted:       ad.PromoteActive(now),
		PromoteExpiresAt: ad.PromoteExpiresAt,
		AutoTopUp:        ad.AutoTopUp,
		Views:            ad.Views,
		FavoritesCount:   ad.FavoritesCount,
		CreatedAt:        ad.CreatedAt,
		UpdatedAt:        ad.UpdatedAt,
	}
}

func (s *Service) pageBounds(page, limit int) (offset, capped int) {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit, limit
}
