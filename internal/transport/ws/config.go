package ws

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/framebridge/internal/shared/origin"
	"github.com/GriffinCanCode/framebridge/internal/transport"
)

// Config defines connection behavior
type Config struct {
	QueueSize      int           // Per-connection inbox/outbox buffer
	WriteTimeout   time.Duration // Deadline for a single frame write
	ReadLimit      int64         // Maximum inbound frame size in bytes
	AllowedOrigins []string      // Origin patterns allowed to connect; "*" allows any
}

// DefaultConfig returns the default connection configuration
func DefaultConfig() Config {
	return Config{
		QueueSize:      transport.DefaultQueueSize,
		WriteTimeout:   5 * time.Second,
		ReadLimit:      64 * 1024,
		AllowedOrigins: []string{"*"},
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = def.ReadLimit
	}
	return c
}

// CheckOrigin reports whether a handshake request may be upgraded. Requests
// without an Origin header come from non-browser clients and are allowed.
func (c Config) CheckOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	if o == "" {
		return true
	}
	return origin.Match(c.AllowedOrigins, o)
}
