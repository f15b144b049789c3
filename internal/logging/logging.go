// Package logging builds the application logger.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"midi-animator/internal/config"
)

// New builds a zap logger for cfg. Development loggers write console output
// with caller and stack information, colored when stderr is a terminal;
// production loggers write JSON.
func New(cfg config.Log) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}

		level = l
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = levelEncoder(int(os.Stderr.Fd()))
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = !cfg.Development

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return log, nil
}

func levelEncoder(fd int) zapcore.LevelEncoder {
	if term.IsTerminal(fd) {
		return zapcore.CapitalColorLevelEncoder
	}

	return zapcore.CapitalLevelEncoder
}
