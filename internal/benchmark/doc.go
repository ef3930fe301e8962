// Package benchmark produces the payloads served by the HTTP API.
//
// Two providers exist:
//
//	Demo  static demonstration numbers for the full January 2015 dataset
//	Live  runs the taxi pipeline per request, limited to sample_size rows
//
// Live results are cached process-wide. The cache key is the dataset
// identity (path, size, modification time) plus the sample size, entries
// expire after a TTL, and concurrent identical requests share one run.
// The cache is created with the provider and cleared by Close.
package benchmark
