// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps command output clean unless something goes wrong.
const DefaultLevel = "warn"

// New returns a production zap logger writing JSON to stderr at level.
func New(level string) (*zap.Logger, error) {
	return build(level, "stderr")
}

// NewFile returns a logger like New that appends to path instead of stderr.
// The TUI uses it so log lines never land on the alternate screen.
func NewFile(level, path string) (*zap.Logger, error) {
	return build(level, path)
}

func build(level, output string) (*zap.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
