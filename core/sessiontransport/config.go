package sessiontransport

import (
	"time"

	"github.com/armonaut/armonaut/core/cookie"
	"github.com/armonaut/armonaut/core/session"
)

// CookieConfig provides environment-based configuration for cookie-based session transport.
type CookieConfig struct {
	// CookieName is the name of the session cookie
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`

	// MaxAge is the session lifetime, applied to the cookie and the stored payload
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"12h"`

	// StoreTimeout bounds each durable-store call
	StoreTimeout time.Duration `env:"SESSION_STORE_TIMEOUT" envDefault:"2s"`
}

// DefaultCookieConfig returns a CookieConfig with sensible defaults.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		CookieName:   DefaultCookieName,
		MaxAge:       DefaultMaxAge,
		StoreTimeout: DefaultTimeout,
	}
}

// NewCookieFromConfig creates a cookie-based session transport from configuration.
// Explicit options are applied after the configured values.
func NewCookieFromConfig(cfg CookieConfig, store session.Store, cookies *cookie.Manager, opts ...Option) (*Cookie, error) {
	all := []Option{
		WithCookieName(cfg.CookieName),
		WithMaxAge(cfg.MaxAge),
		WithTimeout(cfg.StoreTimeout),
	}
	return NewCookie(store, cookies, append(all, opts...)...)
}
