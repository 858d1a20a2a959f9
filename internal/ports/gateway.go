package ports

import "context"

type GatewayOrderParams struct {
	AmountMinor   int64
	Description   string
	CustomerEmail string
	CustomerName  string
	// MerchantRef is opaque correlation data the gateway echoes back on the
	// settlement webhook.
	MerchantRef string
}

type GatewayOrder struct {
	OrderCode   int64
	CheckoutURL string
}

// PaymentGateway creates checkout orders against the external payment
// provider. Implementations must bound their calls with a timeout and
// surface failures as domain.ErrDependencyUnavailable.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, params GatewayOrderParams) (GatewayOrder, error)
}
