// Package session provides the in-memory session model and its durable storage.
//
// A Session is a string-keyed map with change tracking, a lazily generated
// identifier, flash message queues and CSRF token management. It knows nothing
// about HTTP; see package sessiontransport for the cookie binding.
//
// # Basic Usage
//
//	import "github.com/armonaut/armonaut/core/session"
//
//	sess := session.New()
//	sess.Set("lang", "en")
//
//	if sess.ShouldSave() {
//		payload, err := session.Encode(sess)
//		if err != nil {
//			return err
//		}
//		err = store.Set(ctx, sess.ID(), payload, 12*time.Hour)
//	}
//
// # Change Tracking
//
// Every mutating operation (Set, SetDefault, Update, Delete, Pop, Clear, Flash,
// PopFlash, NewCSRFToken) marks the session as changed, except when the write
// leaves the stored value as it was: setting a key to an equal value or
// SetDefault on an existing key are no-ops. ShouldSave reports the flag.
//
// # Identifiers and Invalidation
//
// ID generates a 256-bit random identifier on first call. Invalidate clears all
// data, remembers the current identifier in InvalidatedIDs so the transport can
// purge it, and resets the session to a brand-new state. An invalidated session
// that is not written to afterwards reports ShouldSave() == false.
//
// # Flash Messages
//
// Flash messages live in top-level keys: "_flash_messages" for the default
// queue and "_flash_messages.<name>" for named ones.
//
//	sess.Flash("Saved!")
//	sess.Flash("Check your email", session.InQueue("info"), session.NoDuplicate())
//
//	msgs := sess.PopFlash("info") // returned once, then empty
//
// # CSRF Tokens
//
// CSRFToken returns the token stored under "_csrf_token", creating it on first
// use. NewCSRFToken rotates it.
//
// # Authentication
//
// Authenticate stores the principal under "auth.userid" and applies the
// session fixation defense: the identifier always changes, data survives only
// when the principal did not change, and the CSRF token is rotated.
//
//	session.Authenticate(sess, user.ID)
//	session.Logout(sess)
//
// # Invalid Sessions
//
// Routes that opt out of sessions receive Invalid(). Every method except
// IsInvalid panics with ErrInvalidUsage so that accidental use is caught
// immediately during development.
//
// # Storage
//
// Store is a byte-oriented key/value interface with TTL. RedisStore keys
// entries as "armonaut/session/data/<id>" by default and reports outages
// wrapped in ErrStorageUnavailable; MemoryStore serves tests and single
// process setups. Payloads are MessagePack encoded by Encode and Decode.
package session
