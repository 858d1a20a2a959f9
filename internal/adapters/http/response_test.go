package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/x67digital/marketplace/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: title too short", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("%w: not your ad", domain.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{&domain.RateLimitError{RemainingMinutes: 12}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{fmt.Errorf("%w: gateway down", domain.ErrDependencyUnavailable), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, code, _ := mapDomainError(tc.err)
		if status != tc.wantStatus || code != tc.wantCode {
			t.Errorf("mapDomainError(%v) = %d/%s, want %d/%s", tc.err, status, code, tc.wantStatus, tc.wantCode)
		}
	}
}

func TestRateLimitErrorMessageCarriesRemainingMinutes(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("top up ad: %w", &domain.RateLimitError{RemainingMinutes: 37})
	status, _, msg := mapDomainError(wrapped)
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	if msg != (&domain.RateLimitError{RemainingMinutes: 37}).Error() {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestErrorEnvelopeShape(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	writeDomainError(rec, domain.ErrNotFound)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if body.Status != "error" || body.Error.Code != "NOT_FOUND" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestSuccessEnvelopeShape(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, map[string]string{"id": "ad_1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Data   map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if body.Status != "success" || body.Data["id"] != "ad_1" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	t.Parallel()
	if _, err := bearerTokenFromHeader(""); err == nil {
		t.Fatal("expected error for empty header")
	}
	if _, err := bearerTokenFromHeader("Basic abc"); err == nil {
		t.Fatal("expected error for non-bearer scheme")
	}
	if _, err := bearerTokenFromHeader("Bearer "); err == nil {
		t.Fatal("expected error for empty token")
	}
	token, err := bearerTokenFromHeader("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("unexpected result %q/%v", token, err)
	}
}
