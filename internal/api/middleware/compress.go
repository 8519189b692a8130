package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
)

// DefaultCompressMinSize is the smallest response body worth compressing.
const DefaultCompressMinSize = 1024

type gzipWriter struct {
	gin.ResponseWriter
	w http.ResponseWriter
}

func (g *gzipWriter) Header() http.Header         { return g.w.Header() }
func (g *gzipWriter) WriteHeader(code int)        { g.w.WriteHeader(code) }
func (g *gzipWriter) Write(b []byte) (int, error) { return g.w.Write(b) }

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.w.Write([]byte(s))
}

// Compress gzips responses of at least minSize bytes for clients that accept
// it. It must not be used on routes that hijack the connection.
func Compress(minSize int) gin.HandlerFunc {
	if minSize <= 0 {
		minSize = DefaultCompressMinSize
	}
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(minSize))
	if err != nil {
		panic(err)
	}

	return func(c *gin.Context) {
		orig := c.Writer
		wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Writer = &gzipWriter{ResponseWriter: orig, w: w}
			c.Request = r
			c.Next()
		})).ServeHTTP(orig, c.Request)
		c.Writer = orig
	}
}
