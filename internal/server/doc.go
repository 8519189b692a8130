// Package server provides the bridge host HTTP service.
//
// The server orchestrates:
//   - HTTP routing with the Gin framework
//   - Middleware stack (recovery, request IDs, access log, metrics, CORS, rate limiting)
//   - The websocket bridge endpoint components connect to
//   - The host router with its container and analytics handlers
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Create the websocket hub and the host router pumping it
//  4. Setup HTTP routes and middleware
//  5. Start HTTP server
//  6. Graceful shutdown on signal
//
// Routes:
//   - GET  /health
//   - GET  /bridge                           websocket upgrade
//   - GET  /components                       container snapshots
//   - GET  /components/:id
//   - POST /components/:id/watch             start tracking an identifier
//   - DELETE /components/:id/watch
//   - POST /components/:id/commands/:kind    send get-height or get-info
//   - GET  /metrics
package server
