// Package server wires the benchmark API into an HTTP server.
//
// Middleware order:
//  1. Recovery
//  2. Request ID and access log
//  3. Prometheus request metrics
//  4. CORS
//  5. Global then per-IP rate limiting (optional)
//
// Server Lifecycle:
//  1. Build the benchmark provider from config (demo or live)
//  2. Register routes and /metrics
//  3. Serve until the context is cancelled
//  4. Drain in-flight requests within ShutdownTimeout
//  5. Close the provider
//
// Example Usage:
//
//	srv := server.NewServer(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
