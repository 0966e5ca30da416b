package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/pkg/token"
)

// CSRFConfig configures the CSRF middleware.
type CSRFConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// HeaderName carries the token on script requests (default: "X-CSRF-Token")
	HeaderName string
	// FormField carries the token on form posts (default: "csrf_token")
	FormField string
	// Methods, when set, is the allow-list of methods for the route; others get 405
	Methods []string
}

// CSRF rejects unsafe requests that do not echo the session's CSRF token.
// It must run inside the session middleware.
func CSRF[C handler.Context]() handler.Middleware[C] {
	return CSRFWithConfig(CSRFConfig[C]{})
}

// CSRFWithConfig creates a CSRF middleware with custom configuration.
func CSRFWithConfig[C handler.Context](cfg CSRFConfig[C]) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.FormField == "" {
		cfg.FormField = "csrf_token"
	}
	methods := make([]string, len(cfg.Methods))
	for i, m := range cfg.Methods {
		methods[i] = strings.ToUpper(m)
	}
	allow := strings.Join(methods, ", ")

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()

			if len(methods) > 0 && !slices.Contains(methods, req.Method) {
				return func(w http.ResponseWriter, r *http.Request) error {
					w.Header().Set("Allow", allow)
					return response.ErrMethodNotAllowed
				}
			}

			if isSafeMethod(req.Method) {
				return next(ctx)
			}

			sess, ok := GetSession(ctx)
			if !ok || sess.IsInvalid() {
				return response.Error(response.ErrCSRFFailed)
			}

			got := req.Header.Get(cfg.HeaderName)
			if got == "" {
				got = req.PostFormValue(cfg.FormField)
			}
			want := sess.CSRFToken()

			if got == "" || !token.Equal(got, want) {
				return response.Error(response.ErrCSRFFailed)
			}

			return next(ctx)
		}
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
