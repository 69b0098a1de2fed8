// Package middlewares provides net/http middleware for services that derive
// slugs over HTTP.
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing an upstream one when a
// known header carries it. The ID is stored with logger.WithRequestID, so a
// logger built with logger.RequestIDExtractor tags every entry:
//
//	log := logger.New(cfg, logger.RequestIDExtractor())
//	r := chi.NewRouter()
//	r.Use(middlewares.RequestID(), middlewares.Recover(log))
//
// # Recover
//
// Recover turns a panic into a 500 response and logs the panic value with a
// bounded stack trace.
package middlewares
