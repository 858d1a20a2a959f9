package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrRateLimited           = errors.New("rate limited")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// RateLimitError carries the remaining whole minutes of a topup cooldown.
// It matches ErrRateLimited under errors.Is.
type RateLimitError struct {
	RemainingMinutes int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: next topup available in %d minutes", e.RemainingMinutes)
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }
