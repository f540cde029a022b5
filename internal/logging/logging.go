// Package logging builds the command's logrus logger.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures a logger.
type Option func(*logrus.Logger)

// WithDebug lowers the level to debug.
func WithDebug(enabled bool) Option {
	return func(l *logrus.Logger) {
		if enabled {
			l.SetLevel(logrus.DebugLevel)
		}
	}
}

// New returns a logger writing text lines without timestamps to w, at info
// level unless an option says otherwise.
func New(w io.Writer, opts ...Option) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}
