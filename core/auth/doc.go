// Package auth implements password login on top of sessions and the rate limiter.
//
// Service.CheckPassword verifies Argon2id hashes stored in PHC format and
// upgrades them when the configured parameters change. Failed attempts are
// counted per account and globally; once either limiter is exhausted further
// attempts are refused with a *ThrottledError before any hashing happens.
//
//	svc, err := auth.NewFromConfig(cfg, rlCfg, store, auth.NewPGUsers(pool), log)
//	user, err := svc.CheckPassword(ctx, email, password)
//	switch {
//	case errors.Is(err, auth.ErrTooManyFailedLogins):
//		// 429
//	case errors.Is(err, auth.ErrInvalidCredentials):
//		// 401
//	}
//	svc.Login(sess, user)
//
// Login rotates the session identifier so a pre-login session id cannot be
// reused after authentication.
package auth
