package config

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logger. JSON output in production so the
// log collector can parse fields, plain text everywhere else.
func NewLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	if cfg != nil && cfg.Env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}
