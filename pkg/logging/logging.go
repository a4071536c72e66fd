// Package logging builds the per-run session logger. Log records go to
// the terminal and to a timestamped file under the logs directory so a
// run can be reconstructed after the fact.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewSessionLogger returns a logger writing to stderr and to logPath.
// When verbose is set the level drops to debug. Callers own Sync.
func NewSessionLogger(logPath string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr", logPath}
	config.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewFileLogger returns a logger writing only to logPath. The monitor
// uses this for its activity log so the display stays uncluttered.
func NewFileLogger(logPath string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{logPath}
	config.ErrorOutputPaths = []string{logPath}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
