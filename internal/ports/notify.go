package ports

// Notification template kinds dispatched by the core.
const (
	NotifyAdSubmitted    = "ad_submitted"
	NotifyAdApproved     = "ad_approved"
	NotifyAdRejected     = "ad_rejected"
	NotifyOperatorNewAd  = "operator_new_ad"
	NotifyPaymentSuccess = "payment_success"
	NotifyViewsMilestone = "views_milestone"
)

type Notification struct {
	Recipient string
	Kind      string
	Data      map[string]string
}

// Notifier is a fire-and-forget side channel. Enqueue must never block the
// caller and carries no correctness obligation: delivery failures are logged
// by the implementation and never surface to the triggering request.
type Notifier interface {
	Notify(n Notification)
}
