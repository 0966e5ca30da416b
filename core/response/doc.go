// Package response provides the handler.Response constructors used by
// handlers and middleware: plain text, HTML, JSON and redirects, structured
// HTTPError values with error handlers for the router, and helpers that
// patch Vary and Cache-Control headers.
//
//	func login(ctx *router.Context) handler.Response {
//		if err := auth.CheckPassword(ctx, email, password); errors.Is(err, auth.ErrTooManyFailedLogins) {
//			return response.Error(response.TooManyRequests(retryAfter))
//		}
//		return response.RedirectSeeOther("/")
//	}
//
// ErrorHandler and JSONErrorHandler write a Retry-After header for errors
// that carry a retry hint.
package response
