// Package redis opens go-redis clients for the Redis slug index.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Open(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// [Healthcheck] plugs into pkg/health readiness checks and [Shutdown] into
// server shutdown hooks.
package redis
