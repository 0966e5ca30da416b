package response

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// PatchVary adds headers to the Vary header of h, keeping existing entries
// and skipping names already present (case-insensitively).
func PatchVary(h http.Header, headers ...string) {
	existing := splitHeader(h.Values("Vary"))
	for _, name := range headers {
		name = strings.TrimSpace(name)
		if name == "" || containsFold(existing, name) {
			continue
		}
		existing = append(existing, name)
	}
	if len(existing) > 0 {
		h.Set("Vary", strings.Join(existing, ", "))
	}
}

// HasVary reports whether the Vary header of h lists name.
func HasVary(h http.Header, name string) bool {
	vary := splitHeader(h.Values("Vary"))
	return containsFold(vary, name) || slices.Contains(vary, "*")
}

// MaxAge formats a max-age directive.
func MaxAge(d time.Duration) string {
	return "max-age=" + strconv.FormatInt(int64(d/time.Second), 10)
}

// PatchCacheControl merges directives into the Cache-Control header of h.
// A directive replaces an existing one with the same name; "public" and
// "private" replace each other.
func PatchCacheControl(h http.Header, directives ...string) {
	current := splitHeader(h.Values("Cache-Control"))
	for _, d := range directives {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name := directiveName(d)
		current = slices.DeleteFunc(current, func(c string) bool {
			cn := directiveName(c)
			if name == "public" || name == "private" {
				return cn == "public" || cn == "private"
			}
			return cn == name
		})
		current = append(current, d)
	}
	if len(current) > 0 {
		h.Set("Cache-Control", strings.Join(current, ", "))
	}
}

// NeverCache marks a response as not cacheable by browsers or proxies.
func NeverCache(h http.Header) {
	PatchCacheControl(h, "max-age=0", "no-cache", "no-store", "must-revalidate", "private")
	h.Set("Expires", time.Now().UTC().Format(http.TimeFormat))
}

func directiveName(d string) string {
	name, _, _ := strings.Cut(d, "=")
	return strings.ToLower(strings.TrimSpace(name))
}

func splitHeader(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, s) })
}
