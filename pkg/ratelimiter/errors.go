package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidLimit  = errors.New("invalid rate limit string")
	ErrNilStore      = errors.New("store is required")

	// ErrStorageUnavailable wraps every failure of the backing store.
	// Callers check it with errors.Is and pick fail-open or fail-closed.
	ErrStorageUnavailable = errors.New("rate limit storage unavailable")
)
