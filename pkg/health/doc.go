// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// asks for JSON with Accept: application/json or ?format=json.
package health
