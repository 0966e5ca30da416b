package ratelimiter

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore implements Store in process memory.
// Suitable for tests, development and single-instance deployments; state is
// not shared between processes. Expired entries are trimmed lazily on access,
// there is no background sweeper.
type MemoryStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time // sorted ascending

	logger *slog.Logger

	accepted atomic.Int64
	rejected atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging
type MemoryStoreStats struct {
	Accepted   int64 // Hits recorded since creation
	Rejected   int64 // Hits refused because a window was full
	ActiveKeys int   // Keys currently holding at least one entry
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		hits:   make(map[string][]time.Time),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// Acquire implements Store.
func (ms *MemoryStore) Acquire(ctx context.Context, key string, window Window, now time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	entries := ms.trim(key, now.Add(-window.Duration))
	if len(entries) >= window.Max {
		ms.rejected.Add(1)
		ms.logger.DebugContext(ctx, "rate limit window full",
			slog.String("key", key),
			slog.Int("max", window.Max),
			slog.Duration("window", window.Duration))
		return false, nil
	}

	// Callers read the clock before taking the lock, so keep the log ordered.
	i, _ := slices.BinarySearchFunc(entries, now, func(a, b time.Time) int { return a.Compare(b) })
	ms.hits[key] = slices.Insert(entries, i, now)
	ms.accepted.Add(1)

	return true, nil
}

// Peek implements Store.
func (ms *MemoryStore) Peek(ctx context.Context, key string, window Window, now time.Time) (int, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	entries := ms.trim(key, now.Add(-window.Duration))
	if len(entries) == 0 {
		return 0, time.Time{}, nil
	}

	return len(entries), entries[0], nil
}

// Clear implements Store.
func (ms *MemoryStore) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.hits, key)
	return nil
}

// trim drops entries at or before cutoff. Must be called with mu held.
func (ms *MemoryStore) trim(key string, cutoff time.Time) []time.Time {
	entries := ms.hits[key]
	i := sort.Search(len(entries), func(i int) bool { return entries[i].After(cutoff) })
	if i == 0 {
		return entries
	}

	if i == len(entries) {
		delete(ms.hits, key)
		return nil
	}

	entries = slices.Clone(entries[i:])
	ms.hits[key] = entries
	return entries
}

// Stats returns current memory store statistics for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	active := len(ms.hits)
	ms.mu.Unlock()

	return MemoryStoreStats{
		Accepted:   ms.accepted.Load(),
		Rejected:   ms.rejected.Load(),
		ActiveKeys: active,
	}
}
