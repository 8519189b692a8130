package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Component ComponentConfig `yaml:"component"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port" default:"8000"`
	Host string `envconfig:"HOST" yaml:"host" default:"0.0.0.0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// BridgeConfig holds websocket bridge configuration.
type BridgeConfig struct {
	AllowedOrigins []string      `envconfig:"BRIDGE_ALLOWED_ORIGINS" yaml:"allowed_origins" default:"*"`
	QueueSize      int           `envconfig:"BRIDGE_QUEUE_SIZE" yaml:"queue_size" default:"256"`
	WriteTimeout   time.Duration `envconfig:"BRIDGE_WRITE_TIMEOUT" yaml:"write_timeout" default:"5s"`
	ReadLimit      int64         `envconfig:"BRIDGE_READ_LIMIT" yaml:"read_limit" default:"65536"`
}

// ComponentConfig holds configuration of the component runner.
type ComponentConfig struct {
	ID                string        `envconfig:"COMPONENT_ID" yaml:"id"`
	URL               string        `envconfig:"COMPONENT_URL" yaml:"url" default:"http://localhost:8080/embed"`
	HostURL           string        `envconfig:"COMPONENT_HOST_URL" yaml:"host_url" default:"ws://localhost:8000/bridge"`
	Selector          string        `envconfig:"COMPONENT_SELECTOR" yaml:"selector" default:"[data-embed-content]"`
	RemeasureInterval time.Duration `envconfig:"COMPONENT_REMEASURE_INTERVAL" yaml:"remeasure_interval" default:"1s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" default:"info"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Bridge: BridgeConfig{
			AllowedOrigins: []string{"*"},
			QueueSize:      256,
			WriteTimeout:   5 * time.Second,
			ReadLimit:      64 * 1024,
		},
		Component: ComponentConfig{
			URL:               "http://localhost:8080/embed",
			HostURL:           "ws://localhost:8000/bridge",
			Selector:          "[data-embed-content]",
			RemeasureInterval: time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
