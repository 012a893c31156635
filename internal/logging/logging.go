// Package logging builds the logrus loggers used by the CLI and the panel.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Output formats accepted by New
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to out at the given level and format.
// Text output gets full timestamps when out is a terminal.
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", FormatText:
		formatter := &logrus.TextFormatter{}
		if isTerminal(out) {
			formatter.FullTimestamp = true
			formatter.TimestampFormat = time.Kitchen
		}
		logger.SetFormatter(formatter)
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s)", format, FormatText, FormatJSON)
	}

	return logger, nil
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// hook forwards log entries to a callback
type hook struct {
	levels []logrus.Level
	fire   func(*logrus.Entry)
}

func (h *hook) Levels() []logrus.Level { return h.levels }

func (h *hook) Fire(entry *logrus.Entry) error {
	h.fire(entry)
	return nil
}

// NewForwarder returns a logger that writes nothing itself and hands each
// entry at or above level to fire. The panel uses it to show controller
// diagnostics inside the alt screen.
func NewForwarder(level string, fire func(*logrus.Entry)) (*logrus.Logger, error) {
	logger, err := New(level, FormatText, io.Discard)
	if err != nil {
		return nil, err
	}

	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if logger.IsLevelEnabled(l) {
			levels = append(levels, l)
		}
	}
	logger.AddHook(&hook{levels: levels, fire: fire})
	return logger, nil
}
