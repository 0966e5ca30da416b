// Package health provides probe handlers for load balancers and orchestrators.
//
// Liveness always answers 200 and checks nothing. Readiness runs every
// registered dependency check and answers 503 naming the first one that fails:
//
//	checks := health.Checks{
//		"redis":    redis.Healthcheck(client),
//		"postgres": pg.Healthcheck(pool),
//	}
//	r.Get("/livez", health.Liveness[*router.Context])
//	r.Get("/healthz", health.Readiness[*router.Context](log, checks))
package health
