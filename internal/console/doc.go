// Package console runs one benchmark from the command line and prints a
// human report.
//
// Exit codes:
//   - 0: success, or the input file is missing (one diagnostic line)
//   - 1: a stage failed or the metrics file could not be written
//
// Example Usage:
//
//	code := console.New(cfg.Pipeline, os.Stdout, console.WithLogger(logger)).Run(ctx)
//	os.Exit(code)
package console
