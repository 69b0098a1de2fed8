// Package logger builds slog loggers that enrich records from context and
// optionally forward warnings and errors to Sentry.
//
//	log := logger.New(logger.Config{Level: "debug"},
//		logger.CollectionExtractor(),
//		logger.RequestIDExtractor(),
//	)
//
//	ctx = logger.WithCollection(ctx, "articles")
//	log.InfoContext(ctx, "slug assigned", slog.String("slug", "hello-world"))
//	// {"level":"INFO","msg":"slug assigned","slug":"hello-world","collection":"articles"}
//
// When Config.SentryDSN is empty, or Sentry fails to initialize, logging falls
// back to the primary handler only. Libraries default to [NewNope].
package logger
