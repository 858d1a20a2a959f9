package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

// gatewaySuccessStatus is the status code the gateway sends for a settled
// transaction. Every other code is acknowledged and ignored.
const gatewaySuccessStatus = "F"

// CreatePaymentOrder opens a checkout at the gateway and records a pending
// local order. The amount comes from the server-side price table only. A
// gateway failure leaves no local record behind.
func (s *Service) CreatePaymentOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (OrderResult, error) {
	if actor.UserID == "" {
		return OrderResult{}, domain.ErrUnauthorized
	}
	kind, err := domain.ParsePaymentKind(req.PaymentType)
	if err != nil {
		return OrderResult{}, err
	}
	amount, ok := s.cfg.PriceTable[kind]
	if !ok {
		return OrderResult{}, fmt.Errorf("%w: payment type %q is not purchasable", domain.ErrInvalidInput, kind)
	}

	ad, err := s.ads.GetByID(ctx, req.AdID)
	if err != nil {
		return OrderResult{}, err
	}

	correlation, err := json.Marshal(domain.CorrelationData{
		AdID:        ad.AdID,
		PaymentKind: string(kind),
		BuyerID:     actor.UserID,
	})
	if err != nil {
		return OrderResult{}, err
	}

	order, err := s.gateway.CreateOrder(ctx, ports.GatewayOrderParams{
		AmountMinor:   amount,
		Description:   fmt.Sprintf("%s %s for ad %s", s.cfg.ServiceName, kind, ad.AdID),
		CustomerEmail: actor.Email,
		CustomerName:  actor.Name,
		MerchantRef:   string(correlation),
	})
	if err != nil {
		return OrderResult{}, err
	}

	now := s.nowFn()
	record := domain.PaymentOrder{
		PaymentID:   newPaymentID(),
		OrderCode:   order.OrderCode,
		AdID:        ad.AdID,
		BuyerID:     actor.UserID,
		Kind:        kind,
		AmountMinor: amount,
		Status:      domain.PaymentStatusPending,
		CreatedAt:   now,
	}
	if err := s.payments.Create(ctx, record); err != nil {
		return OrderResult{}, err
	}

	s.logger.Info("payment order created",
		"order_code", order.OrderCode, "ad_id", ad.AdID,
		"kind", string(kind), "amount_minor", amount)

	return OrderResult{
		OrderCode:   order.OrderCode,
		CheckoutURL: order.CheckoutURL,
		Amount:      float64(amount) / 100,
		PaymentType: string(kind),
	}, nil
}

// HandleWebhook reconciles a gateway settlement callback. Replays and
// malformed correlation data are acknowledged without effect; only the
// first successful settlement of a known pending order mutates the ad.
func (s *Service) HandleWebhook(ctx context.Context, event WebhookEvent) error {
	if event.StatusCode != gatewaySuccessStatus {
		s.logger.Warn("webhook with non-success status",
			"order_code", event.OrderCode, "status", event.StatusCode)
		return nil
	}

	var corr domain.CorrelationData
	if err := json.Unmarshal([]byte(event.MerchantRef), &corr); err != nil || corr.AdID == "" {
		s.logger.Warn("webhook with malformed correlation data",
			"order_code", event.OrderCode, "merchant_ref", event.MerchantRef)
		return nil
	}
	kind, err := domain.ParsePaymentKind(corr.PaymentKind)
	if err != nil {
		s.logger.Warn("webhook with unknown payment kind",
			"order_code", event.OrderCode, "payment_type", corr.PaymentKind)
		return nil
	}

	completed, err := s.payments.Complete(ctx, event.OrderCode, event.TransactionID, s.nowFn())
	if err != nil {
		return err
	}
	if !completed {
		s.logger.Info("webhook replay ignored", "order_code", event.OrderCode)
		return nil
	}

	if err := s.applyPaidEffect(ctx, corr.AdID, kind); err != nil {
		// The order is already marked completed; the effect must not be
		// retried by a replay, so surface the failure for operator action.
		s.logger.Error("apply paid effect",
			"order_code", event.OrderCode, "ad_id", corr.AdID, "kind", string(kind), "error", err)
		return err
	}

	s.logger.Info("payment reconciled",
		"order_code", event.OrderCode, "ad_id", corr.AdID,
		"kind", string(kind), "transaction_id", event.TransactionID)

	s.notifyPaymentSuccess(ctx, event.OrderCode, corr, kind)

	s.enqueueEvent(ctx, "marketplace.payment.completed", corr.AdID, map[string]any{
		"order_code":   event.OrderCode,
		"ad_id":        corr.AdID,
		"payment_type": string(kind),
	})

	return nil
}

func (s *Service) applyPaidEffect(ctx context.Context, adID string, kind domain.PaymentKind) error {
	now := s.nowFn()
	params := ports.PaidEffectParams{AdID: adID, UpdatedAt: now}

	switch kind {
	case domain.PaymentKindPostAd:
		status := domain.AdStatusPending
		params.Status = &status
		params.MarkPaid = true
	case domain.PaymentKindBoost:
		expires := now.Add(s.cfg.BoostDuration)
		params.BoostExpiresAt = &expires
	case domain.PaymentKindPromote:
		expires := now.Add(s.cfg.PromoteDuration)
		params.PromoteExpiresAt = &expires
	}

	return s.ads.ApplyPaidEffect(ctx, params)
}

func (s *Service) notifyPaymentSuccess(ctx context.Context, orderCode int64, corr domain.CorrelationData, kind domain.PaymentKind) {
	data := map[string]string{
		"ad_id":        corr.AdID,
		"payment_type": string(kind),
	}
	if order, err := s.payments.GetByOrderCode(ctx, orderCode); err == nil {
		data["amount"] = fmt.Sprintf("%.2f", float64(order.AmountMinor)/100)
	}
	s.notify(corr.BuyerID, ports.NotifyPaymentSuccess, data)
}

// VerifyOrder reports the local state of an order, for the post-checkout
// return page to poll.
func (s *Service) VerifyOrder(ctx context.Context, orderCode int64) (OrderStatusView, error) {
	order, err := s.payments.GetByOrderCode(ctx, orderCode)
	if err != nil {
		return OrderStatusView{}, err
	}
	return OrderStatusView{
		OrderCode:   order.OrderCode,
		AdID:        order.AdID,
		PaymentType: string(order.Kind),
		Status:      string(order.Status),
		Amount:      float64(order.AmountMinor) / 100,
		CompletedAt: order.CompletedAt,
	}, nil
}
