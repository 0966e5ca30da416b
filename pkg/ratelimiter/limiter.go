package ratelimiter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Limiter decides whether an action identified by a list of identifiers may proceed.
// SlidingWindow and Dummy both implement it, so callers never need to know
// whether rate limiting is active.
type Limiter interface {
	// Hit records one occurrence and reports whether every window admitted it.
	Hit(ctx context.Context, identifiers ...string) (bool, error)
	// Test reports whether a Hit would currently be admitted, without recording anything.
	Test(ctx context.Context, identifiers ...string) (bool, error)
	// TimeUntilReset returns the shortest wait until a full window frees a slot.
	// ok is false when no window is full.
	TimeUntilReset(ctx context.Context, identifiers ...string) (d time.Duration, ok bool, err error)
	// Clear forgets every recorded hit for the identifiers.
	Clear(ctx context.Context, identifiers ...string) error
}

const defaultKeyPrefix = "ratelimit"

// DefaultTimeout bounds each store call unless WithTimeout says otherwise.
const DefaultTimeout = time.Second

// SlidingWindow is an exact moving-window limiter over one or more windows.
// A hit is admitted only if every window has room for it. A full window does
// not record the hit, but windows that still have room do, so with several
// windows a refused hit counts against the longer ones and can delay the
// point where the caller is admitted again.
type SlidingWindow struct {
	store       Store
	windows     []Window
	identifiers []string
	keyPrefix   string
	timeout     time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithIdentifiers sets the static identifiers prepended to every key.
func WithIdentifiers(identifiers ...string) Option {
	return func(l *SlidingWindow) {
		l.identifiers = append([]string(nil), identifiers...)
	}
}

// WithKeyPrefix sets the namespace of storage keys (default "ratelimit").
func WithKeyPrefix(prefix string) Option {
	return func(l *SlidingWindow) {
		if prefix != "" {
			l.keyPrefix = prefix
		}
	}
}

// WithTimeout sets the deadline applied to each store call. A call that
// exceeds it fails with ErrStorageUnavailable.
func WithTimeout(d time.Duration) Option {
	return func(l *SlidingWindow) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *SlidingWindow) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger for limiter decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(l *SlidingWindow) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a sliding-window limiter from a limit string such as
// "1 per 5 minutes; 1000 per 1 day".
func New(store Store, limits string, opts ...Option) (*SlidingWindow, error) {
	windows, err := ParseLimits(limits)
	if err != nil {
		return nil, err
	}
	return NewWithWindows(store, windows, opts...)
}

// NewWithWindows creates a sliding-window limiter from already parsed windows.
func NewWithWindows(store Store, windows []Window, opts ...Option) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: at least one window is required", ErrInvalidConfig)
	}
	for _, w := range windows {
		if w.Max <= 0 || w.Duration <= 0 {
			return nil, fmt.Errorf("%w: window %s", ErrInvalidConfig, w)
		}
	}

	l := &SlidingWindow{
		store:     store,
		windows:   append([]Window(nil), windows...),
		keyPrefix: defaultKeyPrefix,
		timeout:   DefaultTimeout,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Windows returns a copy of the configured windows.
func (l *SlidingWindow) Windows() []Window {
	return append([]Window(nil), l.windows...)
}

// Hit implements Limiter. Every window is attempted even after one refuses.
func (l *SlidingWindow) Hit(ctx context.Context, identifiers ...string) (bool, error) {
	now := l.now()
	base := l.baseKey(identifiers)

	allowed := true
	for _, w := range l.windows {
		ok, err := l.acquire(ctx, windowKey(base, w), w, now)
		if err != nil {
			return false, l.unavailable(ctx, "hit", base, err)
		}
		if !ok {
			allowed = false
		}
	}

	if !allowed {
		l.logger.InfoContext(ctx, "rate limit exceeded", slog.String("key", base))
	}

	return allowed, nil
}

// Test implements Limiter.
func (l *SlidingWindow) Test(ctx context.Context, identifiers ...string) (bool, error) {
	now := l.now()
	base := l.baseKey(identifiers)

	for _, w := range l.windows {
		count, _, err := l.peek(ctx, windowKey(base, w), w, now)
		if err != nil {
			return false, l.unavailable(ctx, "test", base, err)
		}
		if count >= w.Max {
			return false, nil
		}
	}

	return true, nil
}

// TimeUntilReset implements Limiter.
func (l *SlidingWindow) TimeUntilReset(ctx context.Context, identifiers ...string) (time.Duration, bool, error) {
	now := l.now()
	base := l.baseKey(identifiers)

	var (
		shortest time.Duration
		found    bool
	)
	for _, w := range l.windows {
		count, oldest, err := l.peek(ctx, windowKey(base, w), w, now)
		if err != nil {
			return 0, false, l.unavailable(ctx, "time until reset", base, err)
		}
		if count < w.Max {
			continue
		}

		wait := oldest.Add(w.Duration).Sub(now)
		if wait <= 0 {
			continue
		}
		if !found || wait < shortest {
			shortest, found = wait, true
		}
	}

	return shortest, found, nil
}

// Clear implements Limiter.
func (l *SlidingWindow) Clear(ctx context.Context, identifiers ...string) error {
	base := l.baseKey(identifiers)

	for _, w := range l.windows {
		if err := l.clear(ctx, windowKey(base, w)); err != nil {
			return l.unavailable(ctx, "clear", base, err)
		}
	}

	return nil
}

func (l *SlidingWindow) acquire(ctx context.Context, key string, w Window, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.store.Acquire(ctx, key, w, now)
}

func (l *SlidingWindow) peek(ctx context.Context, key string, w Window, now time.Time) (int, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.store.Peek(ctx, key, w, now)
}

func (l *SlidingWindow) clear(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.store.Clear(ctx, key)
}

func (l *SlidingWindow) baseKey(identifiers []string) string {
	parts := make([]string, 0, 1+len(l.identifiers)+len(identifiers))
	parts = append(parts, l.keyPrefix)
	parts = append(parts, l.identifiers...)
	parts = append(parts, identifiers...)
	return strings.Join(parts, "/")
}

func (l *SlidingWindow) unavailable(ctx context.Context, op, key string, err error) error {
	l.logger.ErrorContext(ctx, "rate limit storage failure",
		slog.String("op", op),
		slog.String("key", key),
		slog.Any("error", err))
	return fmt.Errorf("%w: %s %s: %w", ErrStorageUnavailable, op, key, err)
}

func windowKey(base string, w Window) string {
	return base + "/" + w.key()
}
