// Package config provides 12-factor configuration for the bridge host and
// the component runner.
//
// Configuration is loaded from environment variables with defaults. CLI
// flags in cmd/ override individual values.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Bridge: websocket bridge limits and allowed origins
//   - Component: component runner identity, addresses and re-measure cadence
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Bridge listening on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST
//   - BRIDGE_ALLOWED_ORIGINS, BRIDGE_QUEUE_SIZE, BRIDGE_WRITE_TIMEOUT, BRIDGE_READ_LIMIT
//   - COMPONENT_ID, COMPONENT_URL, COMPONENT_HOST_URL, COMPONENT_SELECTOR,
//     COMPONENT_REMEASURE_INTERVAL
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
