package response

import (
	"net/http"

	"github.com/armonaut/armonaut/core/handler"
)

// Redirect creates a 302 Found (temporary redirect) response.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectSeeOther creates a 303 See Other response.
// Use it after a successful form POST such as a login.
func RedirectSeeOther(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom 3xx status.
// Statuses outside 300-308 fall back to 302.
func RedirectWithStatus(url string, status int) handler.Response {
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		status = http.StatusFound
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, status)
		return nil
	}
}
