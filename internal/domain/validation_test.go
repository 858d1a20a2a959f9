package domain

import (
	"errors"
	"testing"
)

func TestParsePriceKindEmptyDefaultsToFixed(t *testing.T) {
	t.Parallel()

	kind, err := ParsePriceKind("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != PriceKindFixed {
		t.Fatalf("expected fixed, got %s", kind)
	}
}

func TestParsePriceKindRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := ParsePriceKind("auction"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateTitleBounds(t *testing.T) {
	t.Parallel()

	if err := ValidateTitle("ab"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected short title rejected, got %v", err)
	}
	if err := ValidateTitle("selling bike"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePriceRejectsNegative(t *testing.T) {
	t.Parallel()

	neg := -1.0
	if err := ValidatePrice(&neg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := ValidatePrice(nil); err != nil {
		t.Fatalf("nil price should be accepted: %v", err)
	}
}

func TestValidateRating(t *testing.T) {
	t.Parallel()

	for _, bad := range []int{0, 6, -3} {
		if err := ValidateRating(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("rating %d: expected ErrInvalidInput, got %v", bad, err)
		}
	}
	for r := 1; r <= 5; r++ {
		if err := ValidateRating(r); err != nil {
			t.Fatalf("rating %d: unexpected error: %v", r, err)
		}
	}
}

func TestParsePaymentKind(t *testing.T) {
	t.Parallel()

	kind, err := ParsePaymentKind("boost")
	if err != nil || kind != PaymentKindBoost {
		t.Fatalf("expected boost, got %s err %v", kind, err)
	}
	if _, err := ParsePaymentKind("refund"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRateLimitErrorMatchesSentinel(t *testing.T) {
	t.Parallel()

	err := error(&RateLimitError{RemainingMinutes: 12})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatal("RateLimitError should match ErrRateLimited")
	}
	var rl *RateLimitError
	if !errors.As(err, &rl) || rl.RemainingMinutes != 12 {
		t.Fatalf("expected remaining minutes preserved, got %+v", rl)
	}
}
