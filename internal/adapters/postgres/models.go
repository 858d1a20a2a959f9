package postgres

import (
	"time"

	"github.com/google/uuid"
)

type adModel struct {
	AdID          string `gorm:"column:ad_id;primaryKey"`
	OwnerID       string `gorm:"column:owner_id"`
	Title         string `gorm:"column:title"`
	Description   string `gorm:"column:description"`
	CategoryID    string `gorm:"column:category_id"`
	SubcategoryID string `gorm:"column:subcategory_id"`
	CityID        string `gorm:"column:city_id"`

	Price     *float64 `gorm:"column:price"`
	PriceKind string   `gorm:"column:price_kind"`

	ContactPhone string `gorm:"column:contact_phone"`
	ContactEmail string `gorm:"column:contact_email"`
	// Images and Details are stored as JSON text.
	Images  string `gorm:"column:images"`
	Details string `gorm:"column:details"`

	Status string `gorm:"column:status"`
	IsPaid bool   `gorm:"column:is_paid"`

	IsBoosted        bool       `gorm:"column:is_boosted"`
	BoostExpiresAt   *time.Time `gorm:"column:boost_expires_at"`
	IsPromoted       bool       `gorm:"column:is_promoted"`
	PromoteExpiresAt *time.Time `gorm:"column:promote_expires_at"`

	TopUpRank float64    `gorm:"column:topup_rank"`
	LastTopUp *time.Time `gorm:"column:last_topup_at"`
	AutoTopUp bool       `gorm:"column:auto_topup"`

	Views          int64 `gorm:"column:views"`
	FavoritesCount int64 `gorm:"column:favorites_count"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (adModel) TableName() string { return "ads" }

type paymentModel struct {
	PaymentID     string     `gorm:"column:payment_id;primaryKey"`
	OrderCode     int64      `gorm:"column:order_code;uniqueIndex"`
	AdID          string     `gorm:"column:ad_id"`
	BuyerID       string     `gorm:"column:buyer_id"`
	Kind          string     `gorm:"column:kind"`
	AmountMinor   int64      `gorm:"column:amount_minor"`
	Status        string     `gorm:"column:status"`
	TransactionID string     `gorm:"column:transaction_id"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
}

func (paymentModel) TableName() string { return "payments" }

type reviewModel struct {
	ReviewID   string    `gorm:"column:review_id;primaryKey"`
	ReviewerID string    `gorm:"column:reviewer_id"`
	SellerID   string    `gorm:"column:seller_id"`
	AdID       string    `gorm:"column:ad_id"`
	Rating     int       `gorm:"column:rating"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

type favoriteModel struct {
	FavoriteID string    `gorm:"column:favorite_id;primaryKey"`
	UserID     string    `gorm:"column:user_id"`
	AdID       string    `gorm:"column:ad_id"`
	AdPrice    *float64  `gorm:"column:ad_price"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (favoriteModel) TableName() string { return "favorites" }

type sellerStatsModel struct {
	UserID        string    `gorm:"column:user_id;primaryKey"`
	AvgRating     float64   `gorm:"column:avg_rating"`
	TotalReviews  int       `gorm:"column:total_reviews"`
	ReferralCode  string    `gorm:"column:referral_code"`
	ReferralCount int       `gorm:"column:referral_count"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (sellerStatsModel) TableName() string { return "seller_stats" }

type outboxModel struct {
	OutboxID      uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType     string     `gorm:"column:event_type"`
	PartitionKey  string     `gorm:"column:partition_key"`
	Payload       string     `gorm:"column:payload"`
	SchemaVersion string     `gorm:"column:schema_version"`
	TraceID       string     `gorm:"column:trace_id"`
	RetryCount    int        `gorm:"column:retry_count"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	LastError     *string    `gorm:"column:last_error"`
	LastErrorAt   *time.Time `gorm:"column:last_error_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	FirstSeenAt   time.Time  `gorm:"column:first_seen_at"`
}

func (outboxModel) TableName() string { return "marketplace_outbox" }
