// Package logging provides structured logging using uber/zap.
//
// Two encodings are available:
//   - Production: JSON lines for log collectors
//   - Development: coloured console output
//
// Console mode writes its report to stdout, so its logger is pointed at
// stderr (see ForConsole). Service mode logs to stdout.
//
// Example Usage:
//
//	logger := logging.ForService(cfg.Logging)
//	defer logger.Sync()
//	logger.Info("Server starting", zap.String("addr", addr))
package logging
