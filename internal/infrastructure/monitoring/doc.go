/*
Package monitoring provides Prometheus metrics for the bridge.

# Overview

Metrics cover both peers: envelopes sent, accepted and dropped (by reason),
height reports, visibility crossings, tracked host containers, WebSocket
connections and HTTP traffic of the host service.

Each Metrics value owns its registry so several instances can coexist in
tests. A nil *Metrics records nothing, so packages can take metrics as an
optional dependency.

# Usage

	metrics := monitoring.NewMetrics(nil)
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.RecordDropped("inbound", monitoring.ReasonIdentity)
*/
package monitoring
