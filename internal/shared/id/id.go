// Package id generates identifiers for embedded instances and requests.
//
// Identifiers are prefixed ULIDs ("embed_01J...") so they sort by creation
// time and read clearly in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// InstanceID identifies one embedded component instance.
type InstanceID string

// RequestID identifies one HTTP request to the host server.
type RequestID string

const (
	InstancePrefix = "embed"
	RequestPrefix  = "req"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewInstanceID generates a component instance identifier.
func NewInstanceID() InstanceID {
	return InstanceID(Default().GenerateWithPrefix(InstancePrefix))
}

// NewRequestID generates a request identifier.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id InstanceID) String() string { return string(id) }
func (id RequestID) String() string  { return string(id) }

// Split separates a prefixed identifier into its prefix and ULID.
func Split(s string) (prefix string, u ulid.ULID, err error) {
	prefix, rest, ok := strings.Cut(s, "_")
	if !ok {
		rest, prefix = s, ""
	}
	u, err = ulid.Parse(rest)
	return prefix, u, err
}

// Timestamp extracts the creation time of a plain or prefixed identifier.
func Timestamp(s string) (time.Time, error) {
	_, u, err := Split(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}

// InstanceIssued returns the creation time of a generated instance
// identifier. Configured identifiers report false.
func InstanceIssued(s string) (time.Time, bool) {
	if !strings.HasPrefix(s, InstancePrefix+"_") {
		return time.Time{}, false
	}
	ts, err := Timestamp(s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
