// Package ws carries envelopes over WebSocket connections.
//
// Each text frame holds exactly one JSON envelope. A Conn is a transport.Port
// over one connection: posts are queued to a writer goroutine so Post never
// blocks, and inbound frames land in a bounded inbox that drops on overflow.
//
// The Hub is the host's single Port over every connected component. It
// learns which connection speaks for which identifier from the "source" of
// inbound envelopes and routes commands to it, broadcasting commands for
// identifiers it has not heard from yet. Components still filter by
// "target", so a broadcast is harmless.
//
// Example Usage:
//
//	hub := ws.NewHub(ws.DefaultConfig(), logger).WithMetrics(metrics)
//	router.GET("/bridge", gin.WrapH(hub))
//
//	conn, err := ws.Dial(ctx, "ws://localhost:8000/bridge", ws.DefaultConfig(), logger)
package ws
