package sessiontransport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/armonaut/armonaut/core/cookie"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/session"
)

const (
	// DefaultCookieName is the name of the session cookie.
	DefaultCookieName = "session_id"
	// DefaultMaxAge bounds both the signed cookie and the stored payload.
	DefaultMaxAge = 12 * time.Hour
	// DefaultTimeout bounds every durable-store call.
	DefaultTimeout = 2 * time.Second
)

// Cookie carries the session id in a signed, timestamped cookie and keeps the
// session payload in a durable store.
type Cookie struct {
	store   session.Store
	cookies *cookie.Manager
	name    string
	maxAge  time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Cookie transport.
type Option func(*Cookie)

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(c *Cookie) {
		if name != "" {
			c.name = name
		}
	}
}

// WithMaxAge sets the lifetime of the cookie signature and of the stored payload.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cookie) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithTimeout sets the deadline applied to each store call.
func WithTimeout(d time.Duration) Option {
	return func(c *Cookie) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for degraded loads and failed deletes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cookie) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCookie creates a cookie-based session transport.
func NewCookie(store session.Store, cookies *cookie.Manager, opts ...Option) (*Cookie, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cookies == nil {
		return nil, ErrNilCookieManager
	}

	c := &Cookie{
		store:   store,
		cookies: cookies,
		name:    DefaultCookieName,
		maxAge:  DefaultMaxAge,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the session cookie name.
func (c *Cookie) Name() string {
	return c.name
}

// MaxAge returns the configured session lifetime.
func (c *Cookie) MaxAge() time.Duration {
	return c.maxAge
}

// Load returns the session referenced by the request cookie. It never fails:
// a missing, forged or expired cookie, a store miss, a store outage and a
// corrupt payload all produce a new empty session.
func (c *Cookie) Load(r *http.Request) *session.Session {
	id, err := c.cookies.GetSigned(r, c.name, c.maxAge)
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			c.logger.DebugContext(r.Context(), "session cookie rejected", logger.Error(err))
		}
		return session.New()
	}

	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	b, err := c.store.Get(ctx, id)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return session.New()
	case err != nil:
		c.logger.ErrorContext(ctx, "session store unavailable, starting a new session", logger.Error(err))
		return session.New()
	}

	sess, err := session.Decode(id, b)
	if err != nil {
		c.logger.WarnContext(ctx, "discarding undecodable session", logger.Error(err))
		return session.New()
	}
	return sess
}

// Save persists sess after the handler ran and writes the matching cookie
// directive to w. It must be called before the response header is written.
func (c *Cookie) Save(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	if sess == nil || sess.IsInvalid() {
		return nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	invalidated := sess.InvalidatedIDs()
	for _, id := range invalidated {
		if err := c.store.Delete(ctx, id); err != nil {
			c.logger.WarnContext(ctx, "failed to delete invalidated session", logger.Error(err))
		}
	}

	opts := c.cookieOptions(r)

	if !sess.ShouldSave() {
		if len(invalidated) > 0 {
			c.cookies.Delete(w, c.name, opts...)
		}
		return nil
	}

	b, err := session.Encode(sess)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	id := sess.ID()
	if err := c.store.Set(ctx, id, b, c.maxAge); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	if err := c.cookies.SetSigned(w, c.name, id, opts...); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	sess.MarkSaved()
	return nil
}

func (c *Cookie) cookieOptions(r *http.Request) []cookie.Option {
	return []cookie.Option{
		cookie.WithMaxAge(int(c.maxAge / time.Second)),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithSecure(IsSecure(r)),
	}
}

// IsSecure reports whether the request reached us over TLS, directly or
// through a proxy that sets X-Forwarded-Proto.
func IsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
