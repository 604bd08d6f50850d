/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the backend
service, tracking HTTP requests, service calls, sandboxed script executions,
and vault store traffic.

# Features

- HTTP request metrics (latency, throughput, size)
- Service call metrics (duration, errors)
- Script execution metrics (duration, timeouts, console volume)
- Permission denial counters
- Vault store call metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.RecordExecution("success", duration, len(logs))
	metrics.RecordPermissionDenial()

	// Time operations
	timer := monitoring.NewTimer(metrics, "vault", "read")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
