package ratelimiter

import (
	"context"
	"time"
)

// Dummy is a Limiter that admits everything and never touches storage.
// Use it when rate limiting is administratively disabled.
type Dummy struct{}

// Hit implements Limiter.
func (Dummy) Hit(context.Context, ...string) (bool, error) { return true, nil }

// Test implements Limiter.
func (Dummy) Test(context.Context, ...string) (bool, error) { return true, nil }

// TimeUntilReset implements Limiter.
func (Dummy) TimeUntilReset(context.Context, ...string) (time.Duration, bool, error) {
	return 0, false, nil
}

// Clear implements Limiter.
func (Dummy) Clear(context.Context, ...string) error { return nil }

var (
	_ Limiter = Dummy{}
	_ Limiter = (*SlidingWindow)(nil)
)
