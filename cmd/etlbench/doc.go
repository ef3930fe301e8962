// Command etlbench runs the NYC taxi ETL benchmark.
//
// Without a subcommand it runs the pipeline once and prints a report.
// "etlbench serve" exposes the benchmark over HTTP.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML file named by ETL_CONFIG_FILE (environment wins)
//   - CLI flags (override both)
//
// Usage:
//
//	# Console run
//	./etlbench --input ../data/yellow_tripdata_2015-01.csv --output ../results
//
//	# Service, live pipeline per request
//	BENCHMARK_MODE=live ./etlbench serve --port 8000
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
