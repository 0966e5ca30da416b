package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/core/session"
)

type sessionKey struct{}

// SessionTransport loads a session from a request and persists it with the response.
type SessionTransport interface {
	Load(r *http.Request) *session.Session
	Save(w http.ResponseWriter, r *http.Request, sess *session.Session) error
}

// SessionConfig configures the session middleware.
type SessionConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// Transport loads and saves sessions (required)
	Transport SessionTransport
	// UsesSession reports whether the route works with sessions. Routes that
	// do not get session.Invalid(), which panics on use. Default: every route.
	UsesSession func(ctx C) bool
	// Logger for save failures (default: discard)
	Logger *slog.Logger
}

// Session loads the request's session, exposes it through GetSession and saves
// it after the handler returns, before the response is written.
func Session[C handler.Context](transport SessionTransport) handler.Middleware[C] {
	return SessionWithConfig(SessionConfig[C]{Transport: transport})
}

// SessionWithConfig creates a session middleware with custom configuration.
//
// A failed save is logged and the response is still rendered; the client
// keeps its previous cookie.
func SessionWithConfig[C handler.Context](cfg SessionConfig[C]) handler.Middleware[C] {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			if cfg.UsesSession != nil && !cfg.UsesSession(ctx) {
				ctx.SetValue(sessionKey{}, session.Invalid())
				return next(ctx)
			}

			ctx.SetValue(sessionKey{}, cfg.Transport.Load(ctx.Request()))

			resp := next(ctx)

			// The handler may have replaced the session in the context.
			sess, _ := GetSession(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				response.PatchVary(w.Header(), "Cookie")
				if err := cfg.Transport.Save(w, r, sess); err != nil {
					cfg.Logger.ErrorContext(r.Context(), "session save failed",
						logger.Component("session"),
						logger.Path(r.URL.Path),
						logger.Error(err),
					)
				}
				return resp(w, r)
			}
		}
	}
}

// SetSession replaces the session bound to ctx.
func SetSession(ctx handler.Context, sess *session.Session) {
	ctx.SetValue(sessionKey{}, sess)
}

// GetSession returns the session bound to ctx by the session middleware.
func GetSession(ctx handler.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*session.Session)
	return sess, ok && sess != nil
}

// MustGetSession returns the bound session, or session.Invalid() when the
// middleware is not installed, so misuse panics on first access.
func MustGetSession(ctx handler.Context) *session.Session {
	if sess, ok := GetSession(ctx); ok {
		return sess
	}
	return session.Invalid()
}
