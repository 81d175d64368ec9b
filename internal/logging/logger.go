// ABOUTME: Structured logger construction for the collector CLI.
// ABOUTME: Logs go to stderr so stdout carries only the report.

package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects verbosity and encoding.
type Options struct {
	Verbose bool

	// Format is "json" or "console". Empty means json.
	Format string
}

// New builds a production logger. Without Verbose only warnings and errors
// are emitted, which keeps scheduled runs quiet.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	switch opts.Format {
	case "", "json":
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
