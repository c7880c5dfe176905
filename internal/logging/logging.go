// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
)

// New returns the logger for a CLI invocation. Verbose mode selects the
// human-readable development config at debug level; otherwise production
// JSON at info level, with timestamps and callers suitable for piping.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
