package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/middleware"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := newRouter(
		middleware.Logging[ctxT](log),
		middleware.RequestIDWithConfig[ctxT](middleware.RequestIDConfig{Generator: func() string { return "rid" }}),
	)
	r.Get("/ok", text("hello"))
	r.Get("/limited", func(ctx ctxT) handler.Response {
		return response.Error(response.TooManyRequests(time.Minute))
	})
	r.Get("/broken", func(ctx ctxT) handler.Response {
		return response.Error(errors.New("db exploded"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.RemoteAddr = "198.51.100.4:1234"
	do(r, req)
	rec := lastRecord(t, &buf)
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "request", rec["msg"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/ok", rec["path"])
	assert.EqualValues(t, 200, rec["status_code"])
	assert.EqualValues(t, 5, rec["bytes_out"])
	assert.Equal(t, "198.51.100.4", rec["client_ip"])
	assert.Equal(t, "rid", rec["request_id"])

	do(r, httptest.NewRequest(http.MethodGet, "/limited", nil))
	rec = lastRecord(t, &buf)
	assert.Equal(t, "INFO", rec["level"])
	assert.EqualValues(t, 429, rec["status_code"])

	do(r, httptest.NewRequest(http.MethodGet, "/broken", nil))
	rec = lastRecord(t, &buf)
	assert.Equal(t, "ERROR", rec["level"])
	assert.EqualValues(t, 500, rec["status_code"])
	assert.Contains(t, rec["error"], "db exploded")
}

func TestLogging_SlowRequest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newRouter(middleware.LoggingWithConfig[ctxT](middleware.LoggingConfig{
		Logger:               slog.New(slog.NewJSONHandler(&buf, nil)),
		SlowRequestThreshold: time.Millisecond,
	}))
	r.Get("/", func(ctx ctxT) handler.Response {
		time.Sleep(5 * time.Millisecond)
		return response.NoContent()
	})

	do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	rec := lastRecord(t, &buf)
	assert.Equal(t, "WARN", rec["level"])
	assert.EqualValues(t, 204, rec["status_code"])
}
