package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: "9100"
bridge:
  allowed_origins:
    - https://*.shop.example
  write_timeout: 2s
component:
  id: embed-1
  remeasure_interval: 500ms
`))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9100", cfg.Server.Addr())
	assert.Equal(t, []string{"https://*.shop.example"}, cfg.Bridge.AllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.Bridge.WriteTimeout)
	assert.Equal(t, "embed-1", cfg.Component.ID)
	assert.Equal(t, 500*time.Millisecond, cfg.Component.RemeasureInterval)

	// Untouched sections keep defaults
	assert.Equal(t, 256, cfg.Bridge.QueueSize)
	assert.Equal(t, Default().RateLimit, cfg.RateLimit)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("server:\n  listen: 9000\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	want := Default()
	want.Component.ID = "embed-7"

	data, err := Marshal(want)
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
