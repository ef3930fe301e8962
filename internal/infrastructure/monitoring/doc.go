/*
Package monitoring provides Prometheus metrics for the HTTP service and the
ETL pipeline.

# Overview

Metrics live on a private registry owned by each Metrics value, so tests and
multiple servers in one process never collide on registration.

# Features

- HTTP request metrics (latency, throughput, response size)
- Stage metrics (duration, failures, rows produced) via pipeline.Observer
- Benchmark run outcomes and live result cache hits/misses
- Uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	runner := pipeline.NewRunner(stages, pipeline.WithObserver(metrics))

	timer := monitoring.NewTimer(metrics, "live")
	// ... run benchmark ...
	timer.Stop("success")
*/
package monitoring
