package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/middleware"
)

var errLocked = errors.New("locked")

func authenticateAlice(_ context.Context, username, password string) (string, error) {
	switch {
	case username == "locked@example.com":
		return "", errLocked
	case username == "alice@example.com" && password == "secret":
		return "u-1", nil
	default:
		return "", errors.New("invalid credentials")
	}
}

func whoami(ctx ctxT) handler.Response {
	id, ok := middleware.GetBasicAuthUser(ctx)
	if !ok {
		return response.String("anonymous")
	}
	return response.String("user " + id + "\n" + page)
}

func basicRequest(username, password string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	if username != "" || password != "" {
		req.SetBasicAuth(username, password)
	}
	return req
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	r := newRouter(
		middleware.Compression[ctxT](),
		middleware.BasicAuth[ctxT](authenticateAlice),
	)
	r.Get("/whoami", whoami)

	t.Run("valid credentials resolve the user and skip compression", func(t *testing.T) {
		w := do(r, basicRequest("alice@example.com", "secret"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "Authorization", w.Header().Get("Vary"))
		assert.Equal(t, "user u-1\n"+page, body(t, w))
	})

	t.Run("anonymous requests pass through but still vary", func(t *testing.T) {
		w := do(r, basicRequest("", ""))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", body(t, w))
		assert.Equal(t, "Authorization", w.Header().Get("Vary"))
	})

	t.Run("wrong password is challenged", func(t *testing.T) {
		w := do(r, basicRequest("alice@example.com", "nope"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="armonaut", charset="UTF-8"`, w.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Authorization", w.Header().Get("Vary"))
	})

	t.Run("empty username is challenged", func(t *testing.T) {
		w := do(r, basicRequest("", "secret"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})
}

func TestBasicAuthWithConfig(t *testing.T) {
	t.Parallel()

	r := newRouter(middleware.BasicAuthWithConfig[ctxT](middleware.BasicAuthConfig{
		Authenticate: authenticateAlice,
		Required:     true,
		Realm:        "api",
		ErrorMapper: func(err error) error {
			if errors.Is(err, errLocked) {
				return response.ErrForbidden
			}
			return response.ErrUnauthorized
		},
		Skip: func(ctx handler.Context) bool {
			return ctx.Request().URL.Path == "/public"
		},
	}))
	r.Get("/whoami", whoami)
	r.Get("/public", text("public"))

	t.Run("missing credentials are rejected", func(t *testing.T) {
		w := do(r, basicRequest("", ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="api", charset="UTF-8"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("mapped errors keep their status without a challenge", func(t *testing.T) {
		w := do(r, basicRequest("locked@example.com", "secret"))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("valid credentials", func(t *testing.T) {
		w := do(r, basicRequest("alice@example.com", "secret"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("skipped routes", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/public", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Vary"))
	})

	t.Run("authenticate is required", func(t *testing.T) {
		assert.Panics(t, func() {
			middleware.BasicAuthWithConfig[ctxT](middleware.BasicAuthConfig{})
		})
	})
}
