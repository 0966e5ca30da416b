package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/core/router"
)

func render(t *testing.T, resp handler.Response) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, resp(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	return w
}

func TestBodies(t *testing.T) {
	t.Parallel()

	w := render(t, response.String("hello"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "hello", w.Body.String())

	w = render(t, response.StringWithStatus("nope", http.StatusForbidden))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = render(t, response.HTML("<p>hi</p>"))
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	w = render(t, response.NoContent())
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = render(t, response.JSON(map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())

	w = render(t, response.JSONWithStatus(nil, 0))
	assert.Equal(t, http.StatusNoContent, w.Code)

	t.Run("unencodable value writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := response.JSON(make(chan int))(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Error(t, err)
		assert.False(t, w.Flushed)
		assert.Empty(t, w.Header().Get("Content-Type"))
		assert.Empty(t, w.Body.String())
	})
}

func TestRedirects(t *testing.T) {
	t.Parallel()

	w := render(t, response.RedirectSeeOther("/home"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))

	w = render(t, response.RedirectWithStatus("/x", http.StatusOK))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestErrorHandlers(t *testing.T) {
	t.Parallel()

	serve := func(eh handler.ErrorHandler[*router.Context], err error) *httptest.ResponseRecorder {
		r := router.New[*router.Context](router.WithErrorHandler(eh))
		r.Get("/", func(ctx *router.Context) handler.Response { return response.Error(err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w
	}

	t.Run("plain text with retry after", func(t *testing.T) {
		w := serve(response.ErrorHandler[*router.Context], response.TooManyRequests(1500*time.Millisecond))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get("Retry-After"))
		assert.Equal(t, "Too Many Requests", w.Body.String())
	})

	t.Run("json body", func(t *testing.T) {
		w := serve(response.JSONErrorHandler[*router.Context], response.ErrCSRFFailed)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Retry-After"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "forbidden", body["code"])
		assert.Equal(t, "CSRF verification failed.", body["message"])
	})

	t.Run("plain errors become 500 with cause", func(t *testing.T) {
		w := serve(response.JSONErrorHandler[*router.Context], errors.New("db down"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "db down")
	})

	t.Run("status code interface", func(t *testing.T) {
		w := serve(response.ErrorHandler[*router.Context], router.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("router errors reach the handler", func(t *testing.T) {
		r := router.New[*router.Context](router.WithErrorHandler(response.ErrorHandler[*router.Context]))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not Found", w.Body.String())
	})
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	base := response.ErrBadRequest.WithDetails(map[string]any{"field": "email"})
	withCause := base.WithError(errors.New("empty"))

	assert.Equal(t, "empty", withCause.Details["cause"])
	assert.NotContains(t, base.Details, "cause", "WithError does not mutate the receiver")
	assert.Equal(t, http.StatusBadRequest, withCause.StatusCode())
	assert.Equal(t, "custom", response.NewHTTPError("custom").Error())
}

func TestPatchVary(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	response.PatchVary(h, "Cookie")
	response.PatchVary(h, "accept-encoding", "cookie")
	assert.Equal(t, "Cookie, accept-encoding", h.Get("Vary"))
	assert.True(t, response.HasVary(h, "COOKIE"))
	assert.False(t, response.HasVary(h, "Authorization"))

	h = http.Header{"Vary": {"*"}}
	assert.True(t, response.HasVary(h, "Cookie"))
}

func TestPatchCacheControl(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set("Cache-Control", "public, max-age=60")
	response.PatchCacheControl(h, "private", "max-age=10", "stale-if-error=30")
	assert.Equal(t, "private, max-age=10, stale-if-error=30", h.Get("Cache-Control"))

	h = http.Header{}
	response.NeverCache(h)
	assert.Equal(t, "max-age=0, no-cache, no-store, must-revalidate, private", h.Get("Cache-Control"))
	assert.NotEmpty(t, h.Get("Expires"))
}

func TestDecorators(t *testing.T) {
	t.Parallel()

	w := render(t, response.WithCache(response.String("x"), time.Minute))
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	w = render(t, response.WithCache(response.String("x"), 0))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	w = render(t, response.WithVary(
		response.WithHeaders(response.String("x"), map[string]string{"X-Test": "1"}),
		"Cookie",
	))
	assert.Equal(t, "1", w.Header().Get("X-Test"))
	assert.Equal(t, "Cookie", w.Header().Get("Vary"))

	w = render(t, response.WithCookie(response.String("x"), &http.Cookie{Name: "a", Value: "b"}))
	require.Len(t, w.Result().Cookies(), 1)
}
