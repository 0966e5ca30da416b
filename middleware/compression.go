package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
)

// CompressionConfig configures the compression middleware.
type CompressionConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Level is the gzip level (default: gzip.DefaultCompression)
	Level int
	// MinSize is the smallest body worth compressing (default: 256 bytes)
	MinSize int
}

// Compression gzips responses for clients that accept it.
func Compression[C handler.Context]() handler.Middleware[C] {
	return CompressionWithConfig[C](CompressionConfig{})
}

// CompressionWithConfig creates a compression middleware with custom configuration.
//
// Responses that vary on Cookie or Authorization are left alone, since
// compressing secrets next to attacker-controlled input leaks them. A body is
// only replaced if the gzip version is smaller.
func CompressionWithConfig[C handler.Context](cfg CompressionConfig) handler.Middleware[C] {
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}
	if cfg.MinSize <= 0 {
		cfg.MinSize = 256
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			accepts := acceptsGzip(ctx.Request().Header.Get("Accept-Encoding"))

			return buffered(resp, func(b *bufferedWriter, r *http.Request) {
				if response.HasVary(b.header, "Cookie") || response.HasVary(b.header, "Authorization") {
					return
				}

				response.PatchVary(b.header, "Accept-Encoding")

				if !accepts || b.header.Get("Content-Encoding") != "" {
					return
				}
				if b.body.Len() < cfg.MinSize || !bodyAllowed(b.status) {
					return
				}

				var out bytes.Buffer
				zw, err := gzip.NewWriterLevel(&out, cfg.Level)
				if err != nil {
					return
				}
				if _, err := zw.Write(b.body.Bytes()); err != nil {
					return
				}
				if err := zw.Close(); err != nil {
					return
				}
				if out.Len() >= b.body.Len() {
					return
				}

				b.body.Reset()
				_, _ = b.body.Write(out.Bytes())
				b.header.Set("Content-Encoding", "gzip")
				if etag := b.header.Get("ETag"); etag != "" && !strings.HasPrefix(etag, "W/") {
					b.header.Set("ETag", "W/"+etag)
				}
			})
		}
	}
}

// acceptsGzip reports whether an Accept-Encoding value allows gzip.
func acceptsGzip(header string) bool {
	for part := range strings.SplitSeq(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		if coding != "gzip" && coding != "*" {
			continue
		}
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v == 0 {
				continue
			}
		}
		return true
	}
	return false
}
