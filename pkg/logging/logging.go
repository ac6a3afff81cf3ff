// Package logging builds the zap logger and carries it through a context.
package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const contextKeyLogger contextKey = "logger"

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a logger at the given level ("debug", "info", "warn", "error") and
// format ("json" or "console").
func New(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build(zap.WithCaller(true))
}

// ParseLevel maps a level name to a zap level. An empty name means info.
func ParseLevel(level string) (zapcore.Level, error) {
	levels := map[string]zapcore.Level{
		"":        zap.InfoLevel,
		"debug":   zap.DebugLevel,
		"info":    zap.InfoLevel,
		"warn":    zap.WarnLevel,
		"warning": zap.WarnLevel,
		"error":   zap.ErrorLevel,
	}
	l, ok := levels[strings.ToLower(level)]
	if !ok {
		return zap.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// NewContext returns a context carrying logger.
func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// FromContext returns the logger carried by ctx, or the global logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.L()
}
