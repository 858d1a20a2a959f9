package domain

import "time"

type PaymentKind string

const (
	PaymentKindPostAd  PaymentKind = "post_ad"
	PaymentKindBoost   PaymentKind = "boost"
	PaymentKindPromote PaymentKind = "promote"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type PaymentOrder struct {
	PaymentID     string
	OrderCode     int64
	AdID          string
	BuyerID       string
	Kind          PaymentKind
	AmountMinor   int64
	Status        PaymentStatus
	TransactionID string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// CorrelationData is embedded in the gateway order and echoed back on the
// settlement webhook; it maps the event to the originating ad and buyer.
type CorrelationData struct {
	AdID        string `json:"ad_id"`
	PaymentKind string `json:"payment_type"`
	BuyerID     string `json:"user_id"`
}
