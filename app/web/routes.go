package web

import (
	"errors"
	"strings"
	"time"

	"github.com/armonaut/armonaut/core/auth"
	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/health"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/core/router"
	"github.com/armonaut/armonaut/core/session"
	"github.com/armonaut/armonaut/middleware"
	"github.com/armonaut/armonaut/pkg/ratelimiter"
)

type ctxT = *router.Context

const robots = "User-agent: *\nDisallow: /login\n"

func (a *App) routes() router.Router[ctxT] {
	r := router.New[ctxT](
		router.WithErrorHandler(response.ErrorHandler[ctxT]),
		router.WithLogger[ctxT](a.logger),
	)

	r.Use(
		middleware.RequestID[ctxT](),
		middleware.Logging[ctxT](a.logger),
		middleware.ClientIP[ctxT](),
		middleware.SecurityHeaders[ctxT](),
	)

	r.Get("/livez", health.Liveness[ctxT])
	r.Get("/healthz", health.Readiness[ctxT](a.logger, a.checks))

	r.Group(func(r router.Router[ctxT]) {
		r.Use(
			middleware.RequireHTTPS[ctxT](a.config.RequireHTTPS),
			middleware.RateLimitWithConfig[ctxT](middleware.RateLimitConfig{
				Limiter:  a.requests,
				FailOpen: true,
				Logger:   a.logger,
			}),
			middleware.Compression[ctxT](),
			middleware.BodyLimit[ctxT](16*middleware.KB),
			middleware.SessionWithConfig(middleware.SessionConfig[ctxT]{
				Transport:   a.transport,
				UsesSession: usesSession,
				Logger:      a.logger,
			}),
			middleware.CSRF[ctxT](),
		)

		r.With(middleware.CacheControl[ctxT](middleware.CacheConfig{})).Get("/{$}", a.index)
		r.Get("/login", a.loginForm)
		r.Post("/login", a.login)
		r.Post("/logout", a.logout)

		r.With(
			middleware.ConditionalGet[ctxT](),
			middleware.CacheControl[ctxT](middleware.CacheConfig{
				MaxAge:           24 * time.Hour,
				Public:           true,
				PreventHTTPCache: a.config.PreventHTTPCache,
			}),
		).Get("/robots.txt", func(ctx ctxT) handler.Response {
			return response.String(robots)
		})
	})

	// API clients authenticate per request with HTTP Basic and get no session.
	r.Group(func(r router.Router[ctxT]) {
		r.Use(
			middleware.RequireHTTPS[ctxT](a.config.RequireHTTPS),
			middleware.RateLimitWithConfig[ctxT](middleware.RateLimitConfig{
				Limiter:  a.requests,
				FailOpen: true,
				Logger:   a.logger,
			}),
			middleware.Compression[ctxT](),
			middleware.BasicAuthWithConfig[ctxT](middleware.BasicAuthConfig{
				Authenticate: a.auth.Authenticate,
				Required:     true,
				ErrorMapper:  loginError,
				Logger:       a.logger,
			}),
		)

		r.With(middleware.CacheControl[ctxT](middleware.CacheConfig{})).Get("/api/user", a.apiUser)
	})

	return r
}

func usesSession(ctx ctxT) bool {
	return ctx.Request().URL.Path != "/robots.txt"
}

func (a *App) index(ctx ctxT) handler.Response {
	sess := middleware.MustGetSession(ctx)
	userID := session.UserID(sess)
	if userID == "" {
		return response.Redirect("/login")
	}
	return response.JSON(map[string]any{
		"user_id":  userID,
		"messages": sess.PopFlash(""),
	})
}

func (a *App) apiUser(ctx ctxT) handler.Response {
	userID, _ := middleware.GetBasicAuthUser(ctx)
	return response.JSON(map[string]any{"user_id": userID})
}

func (a *App) loginForm(ctx ctxT) handler.Response {
	sess := middleware.MustGetSession(ctx)
	return response.JSON(map[string]any{
		"csrf_token": sess.CSRFToken(),
		"messages":   sess.PopFlash(""),
	})
}

func (a *App) login(ctx ctxT) handler.Response {
	req := ctx.Request()
	email := strings.TrimSpace(req.PostFormValue("email"))
	password := req.PostFormValue("password")
	if email == "" || password == "" {
		return response.Error(response.ErrBadRequest.WithMessage("Email and password are required."))
	}

	user, err := a.auth.CheckPassword(ctx, email, password)
	if err != nil {
		return response.Error(loginError(err))
	}

	sess := middleware.MustGetSession(ctx)
	a.auth.Login(sess, user)
	sess.Flash("Signed in.")
	return response.RedirectSeeOther("/")
}

func (a *App) logout(ctx ctxT) handler.Response {
	sess := middleware.MustGetSession(ctx)
	a.auth.Logout(sess)
	sess.Flash("Signed out.")
	return response.RedirectSeeOther("/login")
}

func loginError(err error) error {
	var throttled *auth.ThrottledError
	switch {
	case errors.As(err, &throttled):
		return response.TooManyRequests(throttled.RetryAfter).WithMessage(throttled.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return response.ErrUnauthorized.WithMessage("Invalid email or password.")
	case errors.Is(err, ratelimiter.ErrStorageUnavailable):
		return response.ErrServiceUnavailable.WithError(err)
	default:
		return response.ErrInternalServerError.WithError(err)
	}
}
