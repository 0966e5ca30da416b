package middleware

import (
	"context"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIP resolves the client address once per request and stores it in the context.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			ctx.SetValue(clientIPContextKey{}, clientip.GetIP(ctx.Request()))
			return next(ctx)
		}
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}

// clientIPOf prefers the stored address and resolves it otherwise.
func clientIPOf(ctx handler.Context) string {
	if ip, ok := GetClientIP(ctx); ok {
		return ip
	}
	return clientip.GetIP(ctx.Request())
}
