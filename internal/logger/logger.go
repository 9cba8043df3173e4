// Package logger builds the *slog.Logger used by the vecbench commands and
// libraries.
package logger

import (
	"io"
	"log/slog"
	"math"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// New returns a logger writing text to stderr by default. Progress and
// diagnostics go to stderr so stdout stays free for command output.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(c)
	}
	var w io.Writer = os.Stderr
	if len(c.writers) == 1 {
		w = c.writers[0]
	} else if len(c.writers) > 1 {
		w = io.MultiWriter(c.writers...)
	}

	switch {
	case c.json:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.level, AddSource: c.source}))
	case c.pretty:
		h := charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			ReportCaller:    c.source,
			Level:           charmLevel(c.level),
		})
		return slog.New(h)
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.level, AddSource: c.source}))
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

func charmLevel(l slog.Level) charmlog.Level {
	if l <= slog.LevelDebug {
		return charmlog.DebugLevel
	}
	return charmlog.InfoLevel
}
