// Package paths provides standardized file names for benchmark inputs and results.
//
// # Result Layout
//
//	<output dir>/
//	  ├── <prefix>_daily_stats.csv[.gz]
//	  ├── <prefix>_hourly_stats.csv[.gz]
//	  ├── ...one CSV per aggregation table
//	  ├── <prefix>_summary.json
//	  └── <prefix>_metrics.json   (console mode only)
//
// # Usage
//
//	out := paths.NewOutput("../results", "go")
//	daily := out.Table("daily_stats", false)   // ../results/go_daily_stats.csv
//	summary := out.Summary()                    // ../results/go_summary.json
package paths
