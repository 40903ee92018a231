/*
Package monitoring provides Prometheus metrics for persistence operations.

# Overview

This package tracks save and load throughput, latency, overwrite counts,
and rendered manifest sizes. Sessions record into a Metrics collector;
the process-wide Default collector registers on the default Prometheus
registry.

# Usage

	// Use the process-wide collector
	metrics := monitoring.Default()

	// Or register on a dedicated registry
	reg := prometheus.NewRegistry()
	metrics := monitoring.New(reg)

	// Record operations
	metrics.RecordSave("LinearScaler", elapsed, err)
	metrics.RecordLoad("LinearScaler", elapsed, nil)

# Metrics Endpoint

Expose metrics via the standard Prometheus handler:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	http.Handle("/metrics", promhttp.Handler())
*/
package monitoring
