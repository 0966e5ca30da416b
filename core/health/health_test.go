package health_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/armonaut/armonaut/core/health"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/core/router"
)

type ctxT = *router.Context

func serve(t *testing.T, checks health.Checks) *httptest.ResponseRecorder {
	t.Helper()
	r := router.New[ctxT](router.WithErrorHandler(response.ErrorHandler[ctxT]))
	r.Get("/livez", health.Liveness[ctxT])
	r.Get("/healthz", health.Readiness[ctxT](slog.New(slog.NewTextHandler(io.Discard, nil)), checks))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return w
}

func ok(context.Context) error { return nil }

func TestReadiness(t *testing.T) {
	t.Parallel()

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()
		w := serve(t, health.Checks{"redis": ok, "postgres": ok})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		w := serve(t, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failing dependency is named", func(t *testing.T) {
		t.Parallel()
		w := serve(t, health.Checks{
			"redis":    ok,
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "postgres unavailable", w.Body.String())
	})
}

func TestLiveness(t *testing.T) {
	t.Parallel()
	r := router.New[ctxT]()
	r.Get("/livez", health.Liveness[ctxT])

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}
