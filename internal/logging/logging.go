// Package logging builds the structured logger used by the intcalc command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/zephyrtronium/intcalc/internal/config"
)

// Level parses a configured log level name.
func Level(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return l, nil
}

// New creates a logger writing to w according to cfg. If verbose is set, the
// level is debug regardless of cfg.
func New(cfg config.LogConfig, w io.Writer, verbose bool) (*slog.Logger, error) {
	level, err := Level(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return slog.New(h), nil
}

// Session returns a logger tagged with a new session ID, and the ID.
func Session(l *slog.Logger) (*slog.Logger, string) {
	id := uuid.New().String()
	return l.With(slog.String("session", id)), id
}

// Discard returns a logger that writes nothing.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
