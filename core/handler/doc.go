// Package handler defines the request-processing contracts shared by the
// router, the middleware package and application handlers.
//
// A handler receives a Context and returns a Response. The Response is a
// deferred renderer: middleware runs after the handler body but before the
// Response writes anything, which is where cross-cutting concerns such as
// saving the session and setting its cookie take place.
//
//	func profile(ctx *router.Context) handler.Response {
//		sess := middleware.MustGetSession(ctx)
//		sess.Set("last_seen", time.Now().Unix())
//		return response.String("ok")
//	}
//
// Middleware wraps a HandlerFunc and may inspect or replace the Response:
//
//	func timing[C handler.Context](next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//		return func(ctx C) handler.Response {
//			start := time.Now()
//			resp := next(ctx)
//			return func(w http.ResponseWriter, r *http.Request) error {
//				w.Header().Set("Server-Timing", fmt.Sprintf("app;dur=%d", time.Since(start).Milliseconds()))
//				return resp(w, r)
//			}
//		}
//	}
package handler
