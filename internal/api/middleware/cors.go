package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/framebridge/internal/shared/origin"
)

// CORSConfig defines which embedding pages may call the host API. Origins
// are patterns as understood by origin.Match.
type CORSConfig struct {
	AllowOrigins []string
	MaxAge       time.Duration
}

// DefaultCORSConfig allows any origin.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		MaxAge:       12 * time.Hour,
	}
}

// CORS creates a CORS middleware for the host API. Credentials are only
// allowed when origins are listed explicitly.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	wildcard := origin.AllowsAny(origins)

	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: !wildcard,
		MaxAge:           cfg.MaxAge,
	}
	if wildcard {
		c.AllowAllOrigins = true
	} else {
		c.AllowOriginFunc = func(o string) bool { return origin.Match(origins, o) }
	}
	return cors.New(c)
}
