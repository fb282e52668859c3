// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/celsoprodesp/Antigravity/internal/infrastructure/config"
)

// New creates a logger writing to stderr
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput creates a logger writing to out
func NewWithOutput(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		return nil, fmt.Errorf("unknown log format: %q", cfg.Format)
	}

	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	logger.SetLevel(level)

	return logger, nil
}
