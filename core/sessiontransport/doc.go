// Package sessiontransport moves sessions between HTTP requests and a durable store.
//
// The Cookie transport signs the session id with a timestamp (see core/cookie)
// and stores the MessagePack-encoded payload under that id with a TTL equal to
// the cookie max-age:
//
//	store := session.NewRedisStore(redisClient)
//	cookies, _ := cookie.New([]string{secret})
//	transport, err := sessiontransport.NewCookie(store, cookies,
//		sessiontransport.WithMaxAge(12*time.Hour),
//	)
//
//	sess := transport.Load(r)    // never fails, falls back to a new session
//	sess.Set("lang", "en")
//	err = transport.Save(w, r, sess)
//
// Load treats a forged or expired cookie, a store miss, a store outage and a
// corrupt payload alike: the caller gets a fresh session and the incident is logged.
//
// Save deletes every id the session invalidated during the request, then either
// persists the session and sets the cookie, or clears the cookie when the session
// was invalidated and nothing was written afterwards. The cookie is always
// HttpOnly and SameSite=Lax, and Secure when the request arrived over HTTPS.
package sessiontransport
