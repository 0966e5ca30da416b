package middleware

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
)

// Vary adds the given request headers to the response's Vary header.
func Vary[C handler.Context](headers ...string) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			return response.WithVary(next(ctx), headers...)
		}
	}
}

// CacheConfig controls the Cache-Control header set by CacheControl.
type CacheConfig struct {
	// MaxAge of zero marks the response as never cacheable
	MaxAge               time.Duration
	Public               bool
	Private              bool
	StaleWhileRevalidate time.Duration
	StaleIfError         time.Duration
	// PreventHTTPCache turns the middleware into a no-op, for development
	PreventHTTPCache bool
}

// CacheControl sets Cache-Control before the response renders.
func CacheControl[C handler.Context](cfg CacheConfig) handler.Middleware[C] {
	directives := cacheDirectives(cfg)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		if cfg.PreventHTTPCache {
			return next
		}
		return func(ctx C) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				if directives == nil {
					response.NeverCache(w.Header())
				} else {
					response.PatchCacheControl(w.Header(), directives...)
				}
				return resp(w, r)
			}
		}
	}
}

func cacheDirectives(cfg CacheConfig) []string {
	if cfg.MaxAge <= 0 {
		return nil
	}

	d := []string{response.MaxAge(cfg.MaxAge)}
	switch {
	case cfg.Public:
		d = append(d, "public")
	case cfg.Private:
		d = append(d, "private")
	}
	if cfg.StaleWhileRevalidate > 0 {
		d = append(d, "stale-while-revalidate="+seconds(cfg.StaleWhileRevalidate))
	}
	if cfg.StaleIfError > 0 {
		d = append(d, "stale-if-error="+seconds(cfg.StaleIfError))
	}
	return d
}

func seconds(d time.Duration) string {
	return strings.TrimPrefix(response.MaxAge(d), "max-age=")
}

// ConditionalGet buffers successful GET and HEAD responses, tags them with an
// MD5 ETag unless one is set, and answers 304 when If-None-Match matches.
func ConditionalGet[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			resp := next(ctx)

			method := ctx.Request().Method
			if method != http.MethodGet && method != http.MethodHead {
				return resp
			}

			return buffered(resp, func(b *bufferedWriter, r *http.Request) {
				if b.status != http.StatusOK && b.status != 0 {
					return
				}

				etag := b.header.Get("ETag")
				if etag == "" {
					sum := md5.Sum(b.body.Bytes())
					etag = `"` + hex.EncodeToString(sum[:]) + `"`
					b.header.Set("ETag", etag)
				}

				if etagMatches(r.Header.Get("If-None-Match"), etag) {
					b.status = http.StatusNotModified
					b.body.Reset()
					b.header.Del("Content-Length")
					b.header.Del("Content-Type")
				}
			})
		}
	}
}

// etagMatches applies the weak comparison of RFC 9110 section 13.1.2.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for candidate := range strings.SplitSeq(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
