package application

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func newID(prefix string) string {
	u := uuid.New()
	return prefix + hex.EncodeToString(u[:])[:12]
}

func newAdID() string       { return newID("ad_") }
func newReviewID() string   { return newID("rev_") }
func newFavoriteID() string { return newID("fav_") }
func newPaymentID() string  { return newID("pay_") }

func newReferralCode() string {
	u := uuid.New()
	return "ref-" + hex.EncodeToString(u[:])[:8]
}

// notify hands a notification to the dispatcher. Delivery is best effort
// and never affects the outcome of the calling operation.
func (s *Service) notify(recipient, kind string, data map[string]string) {
	if s.notifier == nil || recipient == "" {
		return
	}
	s.notifier.Notify(ports.Notification{
		Recipient: recipient,
		Kind:      kind,
		Data:      data,
	})
}

// cacheGetAds reads a listing snapshot from the cache. Any miss or decode
// failure falls through to the repository.
func (s *Service) cacheGetAds(ctx context.Context, key string) ([]AdView, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil, false
	}
	var views []AdView
	if err := json.Unmarshal([]byte(raw), &views); err != nil {
		s.logger.Warn("decode cached listing", "key", key, "error", err)
		return nil, false
	}
	return views, true
}

func (s *Service) cacheSetAds(ctx context.Context, key string, views []AdView) {
	body, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(body), s.cfg.PromotedCacheTTL); err != nil {
		s.logger.Warn("cache listing", "key", key, "error", err)
	}
}

// enqueueEvent records a domain event in the outbox. Failures are logged
// and swallowed so event publication never fails a committed operation.
func (s *Service) enqueueEvent(ctx context.Context, eventType, key string, payload any) {
	if s.outbox == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal outbox event", "event_type", eventType, "error", err)
		return
	}
	evt := ports.OutboxEvent{
		EventID:       uuid.New(),
		EventType:     eventType,
		PartitionKey:  key,
		Payload:       body,
		OccurredAt:    s.nowFn(),
		SchemaVersion: "v1",
	}
	if err := s.outbox.Enqueue(ctx, evt); err != nil {
		s.logger.Error("enqueue outbox event", "event_type", eventType, "key", key, "error", err)
	}
}
