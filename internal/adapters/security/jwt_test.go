package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/x67digital/marketplace/internal/domain"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestParseAndValidate(t *testing.T) {
	t.Parallel()
	v, err := NewTokenVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewTokenVerifier: %v", err)
	}

	raw := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-1",
		"email":   "u@x.test",
		"name":    "User One",
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	actor, err := v.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if actor.UserID != "user-1" || actor.Email != "u@x.test" || actor.Role != "admin" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if !actor.IsAdmin() {
		t.Fatal("expected admin actor")
	}
}

func TestParseAndValidateFallsBackToSubject(t *testing.T) {
	t.Parallel()
	v, _ := NewTokenVerifier(testSecret)

	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-2",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	actor, err := v.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if actor.UserID != "user-2" {
		t.Fatalf("expected subject fallback, got %q", actor.UserID)
	}
}

func TestParseAndValidateRejections(t *testing.T) {
	t.Parallel()
	v, _ := NewTokenVerifier(testSecret)

	expired := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	noIdentity := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	for name, raw := range map[string]string{
		"expired":     expired,
		"wrong key":   wrongKey,
		"no identity": noIdentity,
		"garbage":     "not.a.token",
	} {
		if _, err := v.ParseAndValidate(raw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestNewTokenVerifierRequiresSecret(t *testing.T) {
	t.Parallel()
	if _, err := NewTokenVerifier(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
