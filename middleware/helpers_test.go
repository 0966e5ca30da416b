package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/core/cookie"
	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/core/router"
	"github.com/armonaut/armonaut/core/session"
	"github.com/armonaut/armonaut/core/sessiontransport"
)

type ctxT = *router.Context

func newRouter(mws ...handler.Middleware[ctxT]) router.Router[ctxT] {
	r := router.New[ctxT](router.WithErrorHandler(response.ErrorHandler[ctxT]))
	r.Use(mws...)
	return r
}

func text(s string) handler.HandlerFunc[ctxT] {
	return func(ctx ctxT) handler.Response {
		return response.String(s)
	}
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return string(b)
}

func newCookieTransport(t *testing.T) *sessiontransport.Cookie {
	t.Helper()
	cookies, err := cookie.New([]string{"middleware-test-secret-32-chars!!"})
	require.NoError(t, err)
	transport, err := sessiontransport.NewCookie(session.NewMemoryStore(), cookies)
	require.NoError(t, err)
	return transport
}

// stubTransport hands out one fixed session and records saves.
type stubTransport struct {
	sess    *session.Session
	saved   []*session.Session
	saveErr error
}

func (s *stubTransport) Load(*http.Request) *session.Session { return s.sess }

func (s *stubTransport) Save(_ http.ResponseWriter, _ *http.Request, sess *session.Session) error {
	s.saved = append(s.saved, sess)
	return s.saveErr
}
