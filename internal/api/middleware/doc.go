// Package middleware provides the gin middleware of the bridge host API.
//
// Middleware stack includes:
//   - CORS: embedding pages allowed to call the API
//   - RateLimit: per-IP token bucket with idle eviction
//   - RequestID: X-Request-ID assignment
//   - AccessLog: one zap line per request
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.AccessLog(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
