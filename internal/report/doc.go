// Package report renders pipeline runs for humans and persists their metrics.
//
// The console report is a banner, one progress line per finished stage and a
// closing summary with title-cased metric names and two-decimal seconds:
//
//	Load Time: 1.23s
//
// WriteMetrics stores the flattened snapshot as <prefix>_metrics.json.
package report
