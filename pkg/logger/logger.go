// Package logger holds the process-wide zap logger. It starts as a no-op so
// packages can log before the command line has configured it.
package logger

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	current atomic.Pointer[zap.Logger]
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	current.Store(zap.NewNop())
}

// Configure installs a logger writing to stderr at the given level. Format
// "console" selects the human-readable encoder; anything else logs JSON.
// An empty level means info.
func Configure(lvl, format string) error {
	parsed, err := ParseLevel(lvl)
	if err != nil {
		return err
	}

	var cfg zap.Config
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = level
	level.SetLevel(parsed)

	built, err := cfg.Build(zap.Fields(zap.String("service", "nebula")))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	current.Store(built)
	return nil
}

// ParseLevel accepts zap level names in any case.
func ParseLevel(lvl string) (zapcore.Level, error) {
	lvl = strings.ToLower(strings.TrimSpace(lvl))
	if lvl == "" {
		return zapcore.InfoLevel, nil
	}
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", lvl, err)
	}
	return parsed, nil
}

// SetLevel changes the level of the logger installed by Configure without
// rebuilding it.
func SetLevel(lvl zapcore.Level) {
	level.SetLevel(lvl)
}

// Replace installs l and returns a func restoring the previous logger. Tests
// use it with zaptest/observer.
func Replace(l *zap.Logger) func() {
	if l == nil {
		l = zap.NewNop()
	}
	prev := current.Swap(l)
	return func() { current.Store(prev) }
}

// Logger returns the installed logger.
func Logger() *zap.Logger {
	return current.Load()
}

// WithModule returns a child logger tagged with module.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}

// Sync flushes buffered entries.
func Sync() error {
	return Logger().Sync()
}
