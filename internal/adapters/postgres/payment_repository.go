package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/x67digital/marketplace/internal/domain"
)

type paymentRepository struct {
	db *gorm.DB
}

func (r *paymentRepository) Create(ctx context.Context, order domain.PaymentOrder) error {
	rec := paymentModel{
		PaymentID:     order.PaymentID,
		OrderCode:     order.OrderCode,
		AdID:          order.AdID,
		BuyerID:       order.BuyerID,
		Kind:          string(order.Kind),
		AmountMinor:   order.AmountMinor,
		Status:        string(order.Status),
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt,
		CompletedAt:   order.CompletedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *paymentRepository) GetByOrderCode(ctx context.Context, orderCode int64) (domain.PaymentOrder, error) {
	var rec paymentModel
	if err := r.db.WithContext(ctx).Where("order_code = ?", orderCode).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PaymentOrder{}, domain.ErrNotFound
		}
		return domain.PaymentOrder{}, err
	}
	return toDomainPayment(rec), nil
}

// Complete is the webhook idempotency gate. The guarded update only
// matches a row still pending, so a replayed settlement affects zero rows
// and reports false.
func (r *paymentRepository) Complete(ctx context.Context, orderCode int64, transactionID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&paymentModel{}).
		Where("order_code = ? AND status = ?", orderCode, string(domain.PaymentStatusPending)).
		Updates(map[string]any{
			"status":         string(domain.PaymentStatusCompleted),
			"transaction_id": transactionID,
			"completed_at":   at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
