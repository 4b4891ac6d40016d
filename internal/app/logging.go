package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/keyward/internal/config"
)

// ParseLogLevel parses a level name. Unknown names yield info.
func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(s) {
	case "warning":
		return logrus.WarnLevel
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// NewLogger builds the application logger from cfg. Output goes to
// cfg.File when set, otherwise to w. The returned closer releases the log
// file and is never nil.
func NewLogger(cfg config.LogConfig, w io.Writer) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetLevel(ParseLogLevel(cfg.Level))

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)
	return log, closer, nil
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(log *logrus.Logger, component string) *logrus.Entry {
	return log.WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
