// Package http provides the HTTP handlers of the benchmark API.
//
// Endpoints:
//   - Health: / and /health
//   - Benchmark: /benchmark[?sample_size=N]
//   - Info: /info
//
// The /metrics endpoint is mounted by the server from the monitoring package.
// Error responses are JSON objects with an "error" field. Stage failures
// also carry "stage".
//
// Example Usage:
//
//	handlers := http.NewHandlers(provider, logger)
//	handlers.Register(router)
package http
