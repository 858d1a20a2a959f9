package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/x67digital/marketplace/internal/domain"
)

type UpdateAdContentParams struct {
	AdID         string
	Title        *string
	Description  *string
	Price        *float64
	PriceSet     bool
	PriceKind    *domain.PriceKind
	ContactPhone *string
	ContactEmail *string
	Images       []string
	Details      map[string]string
	UpdatedAt    time.Time
}

type AdListFilter struct {
	CategoryID    string
	SubcategoryID string
	CityID        string
	MinPrice      *float64
	MaxPrice      *float64
	Order         []domain.SortKey
	Offset        int
	Limit         int
}

// PaidEffectParams describes the single-row mutation a completed payment
// applies to an ad. Exactly one of the three effect groups is set.
type PaidEffectParams struct {
	AdID             string
	Status           *domain.AdStatus
	MarkPaid         bool
	BoostExpiresAt   *time.Time
	PromoteExpiresAt *time.Time
	UpdatedAt        time.Time
}

type AdRepository interface {
	Create(ctx context.Context, ad domain.Ad) error
	GetByID(ctx context.Context, adID string) (domain.Ad, error)
	UpdateContent(ctx context.Context, params UpdateAdContentParams) (domain.Ad, error)
	SetStatus(ctx context.Context, adID string, status domain.AdStatus, now time.Time) error
	MarkTopUp(ctx context.Context, adID string, now time.Time) error
	SetAutoTopUp(ctx context.Context, adID string, enabled bool, now time.Time) error
	ApplyPaidEffect(ctx context.Context, params PaidEffectParams) error
	IncrementViews(ctx context.Context, adID string) error
	AdjustFavoritesCount(ctx context.Context, adID string, delta int) error
	ListActive(ctx context.Context, filter AdListFilter) ([]domain.Ad, int64, error)
	ListPromoted(ctx context.Context, now time.Time, limit int) ([]domain.Ad, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.Ad, int64, error)
	Delete(ctx context.Context, adID string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, order domain.PaymentOrder) error
	GetByOrderCode(ctx context.Context, orderCode int64) (domain.PaymentOrder, error)
	// Complete transitions the order pending -> completed. The transition is
	// a compare-and-set keyed by order code: the bool result is false when
	// the order was already completed, which makes webhook replay a no-op.
	Complete(ctx context.Context, orderCode int64, transactionID string, at time.Time) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) error
	GetByID(ctx context.Context, reviewID string) (domain.Review, error)
	Delete(ctx context.Context, reviewID string) error
	ListBySeller(ctx context.Context, sellerID string, offset, limit int) ([]domain.Review, int64, error)
	// AggregateSeller returns the mean rating and count over all current
	// reviews for the seller; count 0 with mean 0 when none exist.
	AggregateSeller(ctx context.Context, sellerID string) (float64, int, error)
	RatingDistribution(ctx context.Context, sellerID string) (map[int]int, error)
}

type FavoriteRepository interface {
	Create(ctx context.Context, favorite domain.Favorite) error
	Delete(ctx context.Context, userID, adID string) error
	Exists(ctx context.Context, userID, adID string) (bool, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Favorite, int64, error)
}

type SellerStatsRepository interface {
	Get(ctx context.Context, userID string) (domain.SellerStats, error)
	// EnsureReferralCode assigns code to the user's row unless one exists
	// already, and returns the current row either way.
	EnsureReferralCode(ctx context.Context, userID, code string, now time.Time) (domain.SellerStats, error)
	IncrementReferrals(ctx context.Context, referralCode string, now time.Time) (bool, error)
	SetReputation(ctx context.Context, userID string, avgRating float64, totalReviews int, now time.Time) error
}

type OutboxEvent struct {
	EventID          uuid.UUID
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	OccurredAt       time.Time
	SchemaVersion    string
	TraceID          string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}
