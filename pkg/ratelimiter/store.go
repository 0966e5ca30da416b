package ratelimiter

import (
	"context"
	"time"
)

// Store persists sliding-window hit logs and owns the atomicity of recording a hit.
// A hit recorded at ts counts toward a window while ts > now-window.Duration.
type Store interface {
	// Acquire drops expired entries for key and records a hit at now if fewer
	// than window.Max hits remain. It reports whether the hit was recorded.
	// The check and the write must be atomic across processes.
	Acquire(ctx context.Context, key string, window Window, now time.Time) (bool, error)

	// Peek returns the number of live hits for key and the timestamp of the oldest one.
	// It never records anything.
	Peek(ctx context.Context, key string, window Window, now time.Time) (count int, oldest time.Time, err error)

	// Clear removes every recorded hit for key.
	Clear(ctx context.Context, key string) error
}
