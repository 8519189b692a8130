package logging

import (
	"errors"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with bridge-specific field helpers.
type Logger struct {
	*zap.Logger
}

// Config defines logger configuration.
type Config struct {
	Service     string // stamped on every line as "service"
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

// Preset returns the production (JSON, info) or development (console,
// debug) configuration for a service.
func Preset(service string, development bool) Config {
	cfg := Config{
		Service:     service,
		Level:       "info",
		Development: development,
		OutputPaths: []string{"stdout"},
	}
	if development {
		cfg.Level = "debug"
	}
	return cfg
}

// New builds a logger from cfg.
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stdout"}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "json"
	zapCfg.EncoderConfig = zap.NewProductionEncoderConfig()
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.MessageKey = "message"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.DisableStacktrace = true
	zapCfg.Sampling = nil
	if cfg.Development {
		zapCfg.Development = true
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.DisableStacktrace = false
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = cfg.OutputPaths

	var opts []zap.Option
	if cfg.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.Service)))
	}
	logger, err := zapCfg.Build(opts...)
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// FromConfig builds a logger from the preset for service and applies
// level. An unparseable level keeps the preset's level.
func FromConfig(service, level string, development bool) *Logger {
	cfg := Preset(service, development)
	if level != "" {
		cfg.Level = level
	}
	logger, err := New(cfg)
	if err == nil {
		return logger
	}
	if logger, err = New(Preset(service, development)); err == nil {
		return logger
	}
	return Nop()
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// ForComponent scopes the logger to one component identifier.
func (l *Logger) ForComponent(identifier string) *zap.Logger {
	return l.With(zap.String("component", identifier))
}

// Close flushes buffered entries. Sync errors from terminals and pipes,
// which do not support fsync, are ignored.
func (l *Logger) Close() error {
	err := l.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF) {
		return nil
	}
	return err
}
