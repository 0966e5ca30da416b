// Package cookie provides HTTP cookie management with timestamped HMAC signing
// and secret rotation.
//
// Signed values have the form
//
//	base64url(value) "." base64url(unix-seconds) "." base64url(HMAC-SHA256(salt|value|ts))
//
// so the reader can both detect tampering and reject cookies older than a
// caller-supplied maximum age without server-side state.
//
// # Basic Usage
//
//	manager, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = manager.SetSigned(w, "session_id", id, cookie.WithMaxAge(43200))
//
//	id, err := manager.GetSigned(r, "session_id", 12*time.Hour)
//	switch {
//	case errors.Is(err, cookie.ErrExpired):
//		// signed correctly but too old
//	case errors.Is(err, cookie.ErrInvalidSignature):
//		// tampered with or signed by a retired secret
//	}
//
// # Key Rotation
//
// Newest secret first. It signs new cookies; the rest still verify old ones:
//
//	manager, _ := cookie.New([]string{newSecret, oldSecret})
//
// # Configuration
//
// Config is filled from COOKIE_* environment variables; COOKIE_SECRETS takes a
// comma-separated list.
package cookie
