package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/response"
)

type basicAuthUserKey struct{}

// BasicAuthConfig configures the HTTP Basic authentication middleware.
type BasicAuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Authenticate resolves credentials to a user id (required)
	Authenticate func(ctx context.Context, username, password string) (string, error)
	// Required rejects requests without credentials; otherwise they pass through anonymously
	Required bool
	// Realm is announced in WWW-Authenticate (default: "armonaut")
	Realm string
	// ErrorMapper turns an Authenticate failure into the error rendered to the
	// client (default: 401 for every failure)
	ErrorMapper func(err error) error
	// Logger for failed attempts (default: discard)
	Logger *slog.Logger
}

// BasicAuth authenticates requests that carry HTTP Basic credentials.
func BasicAuth[C handler.Context](authenticate func(ctx context.Context, username, password string) (string, error)) handler.Middleware[C] {
	return BasicAuthWithConfig[C](BasicAuthConfig{Authenticate: authenticate})
}

// BasicAuthWithConfig creates a Basic authentication middleware with custom configuration.
//
// Every response gets Vary: Authorization, whether or not the request carried
// credentials. The resolved user id is available through GetBasicAuthUser.
func BasicAuthWithConfig[C handler.Context](cfg BasicAuthConfig) handler.Middleware[C] {
	if cfg.Authenticate == nil {
		panic("basic auth middleware: authenticate function is required")
	}
	if cfg.Realm == "" {
		cfg.Realm = "armonaut"
	}
	if cfg.ErrorMapper == nil {
		cfg.ErrorMapper = func(err error) error {
			return response.ErrUnauthorized.WithError(err)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	challenge := "Basic realm=" + strconv.Quote(cfg.Realm) + `, charset="UTF-8"`

	reject := func(err error) handler.Response {
		resp := response.Error(err)
		var status interface{ StatusCode() int }
		if errors.As(err, &status) && status.StatusCode() == http.StatusUnauthorized {
			resp = response.WithHeaders(resp, map[string]string{"WWW-Authenticate": challenge})
		}
		return resp
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		authenticate := func(ctx C) handler.Response {
			username, password, ok := ctx.Request().BasicAuth()
			if !ok {
				if cfg.Required {
					return reject(response.ErrUnauthorized)
				}
				return next(ctx)
			}
			if username == "" {
				return reject(response.ErrUnauthorized)
			}

			userID, err := cfg.Authenticate(ctx, username, password)
			if err != nil {
				cfg.Logger.WarnContext(ctx, "basic authentication failed",
					logger.Component("auth"),
					logger.Path(ctx.Request().URL.Path),
					logger.Error(err),
				)
				return reject(cfg.ErrorMapper(err))
			}

			ctx.SetValue(basicAuthUserKey{}, userID)
			return next(ctx)
		}

		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := authenticate(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				response.PatchVary(w.Header(), "Authorization")
				return resp(w, r)
			}
		}
	}
}

// GetBasicAuthUser returns the user id resolved by the Basic auth middleware.
func GetBasicAuthUser(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(basicAuthUserKey{}).(string)
	return id, ok && id != ""
}
