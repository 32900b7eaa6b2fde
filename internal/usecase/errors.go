package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrRateLimited           = errors.New("rate limited")
	ErrAlreadyUsed           = errors.New("code already used")
	ErrExpired               = errors.New("code expired")
	ErrMismatch              = errors.New("code mismatch")
	ErrNotConfigured         = errors.New("not configured")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// RateLimitedError carries the cooldown the caller must wait before retrying.
// It matches ErrRateLimited under errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
