package middleware

import (
	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/core/sessiontransport"
)

// RequireHTTPS rejects plain-HTTP requests with 403 when enabled.
// A request counts as HTTPS if it arrived over TLS or a trusted proxy set
// X-Forwarded-Proto: https.
func RequireHTTPS[C handler.Context](enabled bool) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		if !enabled {
			return next
		}
		return func(ctx C) handler.Response {
			if !sessiontransport.IsSecure(ctx.Request()) {
				return response.Error(response.ErrHTTPSRequired)
			}
			return next(ctx)
		}
	}
}
