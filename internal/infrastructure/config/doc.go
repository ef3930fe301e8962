// Package config provides 12-factor configuration management for etlbench.
//
// Configuration is loaded from environment variables. Defaults live in the
// `default` struct tags and Default reads the same tags.
// An optional YAML file (ETL_CONFIG_FILE) sits between the defaults and the
// environment: file values replace defaults, environment variables replace
// file values. CLI flags override both.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, timeouts)
//   - Pipeline: input/output paths, result prefix, stage timeout
//   - Benchmark: demo or live mode, live result cache
//   - Logging: Log level and output format
//   - RateLimit: per-IP and global rate limiting configuration
//
// Example Usage:
//
//	cfg, err := config.LoadFile(os.Getenv(config.FileEnv))
//	fmt.Printf("Reading %s into %s\n", cfg.Pipeline.Input, cfg.Pipeline.Output)
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - ETL_INPUT, ETL_OUTPUT, ETL_FILE_PREFIX, ETL_STAGE_TIMEOUT, ETL_ROW_LIMIT,
//     ETL_COMPRESS_OUTPUT, ETL_WRITE_DATASET
//   - BENCHMARK_MODE, BENCHMARK_CACHE_TTL, BENCHMARK_REQUEST_TIMEOUT,
//     BENCHMARK_BREAKER_THRESHOLD, BENCHMARK_BREAKER_COOLDOWN
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED,
//     RATE_LIMIT_GLOBAL_RPS, RATE_LIMIT_GLOBAL_BURST
package config
