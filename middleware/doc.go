// Package middleware provides the HTTP request pipeline pieces used by the
// router: sessions, CSRF checks, rate limiting, security and cache headers,
// compression, request IDs and access logging.
//
// Every middleware is generic over the handler context type so it can be
// installed on any router.Router[C]:
//
//	r := router.New[*router.Context]()
//	r.Use(
//		middleware.Logging[*router.Context](log),
//		middleware.RequestID[*router.Context](),
//		middleware.SecurityHeaders[*router.Context](),
//		middleware.RequireHTTPS[*router.Context](cfg.RequireHTTPS),
//		middleware.Session[*router.Context](transport),
//		middleware.CSRF[*router.Context](),
//	)
//
// Middlewares listed first run outermost. Session must wrap CSRF, since the
// CSRF token lives in the session.
//
// # Sessions
//
// Session loads the request's session through a SessionTransport and saves it
// after the handler returns but before the response renders, so the cookie is
// part of the response headers. Routes for which UsesSession reports false get
// session.Invalid(), which panics on any use. Session responses carry
// Vary: Cookie, and Compression leaves them uncompressed.
//
// BasicAuth is the stateless alternative for API clients. It resolves HTTP
// Basic credentials to a user id, readable with GetBasicAuthUser, and marks
// every response with Vary: Authorization for the same reason.
//
// # Buffering
//
// ConditionalGet and Compression buffer the whole response. Place them inside
// Logging so byte counts reflect what was sent.
package middleware
