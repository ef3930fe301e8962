// Package middleware provides the HTTP middleware stack of the benchmark service.
//
// Middleware stack:
//   - RequestID: tags each request with an X-Request-ID and stores it in the
//     request context
//   - AccessLog: one structured zap line per request
//   - CORS: permissive cross-origin access for the read-only JSON API
//   - RateLimit / GlobalRateLimit: token bucket limiting per client IP or
//     across all clients
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.AccessLog(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.FromConfig(cfg.RateLimit)))
package middleware
