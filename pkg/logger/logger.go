// Package logger provides opinionated logging capabilities for rehearse.
// Every component logs through a *slog.Logger; this package decides which
// handler backs it.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level     slog.Level
	format    Format
	component string
	writer    io.Writer
}

// New builds a *slog.Logger. The default is the pretty handler at Info
// level writing to os.Stderr.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		format: FormatPretty,
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level}

	var l *slog.Logger
	switch c.format {
	case FormatJSON:
		l = slog.New(slog.NewJSONHandler(c.writer, handlerOpts))
	case FormatText:
		l = slog.New(slog.NewTextHandler(c.writer, handlerOpts))
	default:
		// charmbracelet/log levels share slog's numeric values.
		return slog.New(charmlog.NewWithOptions(c.writer, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          c.component,
		}))
	}

	if c.component != "" {
		l = l.With("component", c.component)
	}
	return l
}

// OpenFile appends JSON records to the file at path, creating it when
// needed. The returned func closes the file.
func OpenFile(path string, opts ...Option) (*slog.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	opts = append(opts, WithWriter(f), WithFormat(FormatJSON))
	return New(opts...), f.Close, nil
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
