package domain

import (
	"fmt"
	"strings"
)

func ParseAdStatus(v string) (AdStatus, error) {
	switch AdStatus(strings.ToLower(strings.TrimSpace(v))) {
	case AdStatusPending:
		return AdStatusPending, nil
	case AdStatusActive:
		return AdStatusActive, nil
	case AdStatusRejected:
		return AdStatusRejected, nil
	case AdStatusExpired:
		return AdStatusExpired, nil
	default:
		return "", fmt.Errorf("%w: status must be one of pending, active, rejected, expired", ErrInvalidInput)
	}
}

func ParsePriceKind(v string) (PriceKind, error) {
	if strings.TrimSpace(v) == "" {
		return PriceKindFixed, nil
	}
	switch PriceKind(strings.ToLower(strings.TrimSpace(v))) {
	case PriceKindFixed:
		return PriceKindFixed, nil
	case PriceKindNegotiable:
		return PriceKindNegotiable, nil
	case PriceKindFree:
		return PriceKindFree, nil
	default:
		return "", fmt.Errorf("%w: price_type must be one of fixed, negotiable, free", ErrInvalidInput)
	}
}

func ParsePaymentKind(v string) (PaymentKind, error) {
	switch PaymentKind(strings.ToLower(strings.TrimSpace(v))) {
	case PaymentKindPostAd:
		return PaymentKindPostAd, nil
	case PaymentKindBoost:
		return PaymentKindBoost, nil
	case PaymentKindPromote:
		return PaymentKindPromote, nil
	default:
		return "", fmt.Errorf("%w: invalid payment type", ErrInvalidInput)
	}
}

func ValidateTitle(v string) error {
	trimmed := strings.TrimSpace(v)
	if len(trimmed) < 3 || len(trimmed) > 120 {
		return fmt.Errorf("%w: title must be 3-120 chars", ErrInvalidInput)
	}
	return nil
}

func ValidateDescription(v string) error {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if len(trimmed) > 10000 {
		return fmt.Errorf("%w: description must be <= 10000 chars", ErrInvalidInput)
	}
	return nil
}

func ValidatePrice(price *float64) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return nil
}
