// Package router provides a generic HTTP router on top of http.ServeMux.
//
// Patterns use the ServeMux syntax ("/users/{id}", "/files/{path...}") and
// wildcards are read with Context.Param. The router adds typed handlers,
// method dispatch with 405 responses carrying an Allow header, middleware
// chains, inline groups and mounting of plain http.Handler values.
//
//	r := router.New[*router.Context](
//		router.WithMiddleware(middleware.RequestID[*router.Context]()),
//	)
//	r.Get("/users/{id}", func(ctx *router.Context) handler.Response {
//		return response.String("user " + ctx.Param("id"))
//	})
//	r.With(middleware.CSRF[*router.Context]()).Post("/login", login)
//
// Errors returned by a Response, a nil Response, unknown paths and disallowed
// methods go to the error handler. Errors implementing StatusCode() int choose
// the status written by the default handler.
//
// Panics are not recovered; a handler that panics aborts its request.
package router
