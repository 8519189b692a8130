// Package logging provides structured logging using uber/zap.
//
// Two presets are available:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Core protocol packages take a plain *zap.Logger and default to a no-op
// logger; binaries build one here and pass logger.Logger down.
//
// Example Usage:
//
//	logger := logging.FromConfig("host", cfg.Logging.Level, cfg.Logging.Development)
//	defer logger.Close()
//	logger.Info("Bridge listening", zap.String("addr", addr))
package logging
