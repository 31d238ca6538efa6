package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the handler behind a logger built by New.
type Format string

const (
	// FormatPretty is the colorized charmbracelet/log output used on a terminal.
	FormatPretty Format = "pretty"

	// FormatJSON is one JSON object per record, for log files and collectors.
	FormatJSON Format = "json"

	// FormatText is slog's key=value output.
	FormatText Format = "text"
)

// ParseFormat accepts a format name case-insensitively. The empty string
// selects FormatPretty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want pretty, json or text)", s)
	}
}

// Option configures a logger created with New.
type Option func(*config)

// WithDebug lowers the level to Debug.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = slog.LevelDebug
		} else {
			c.level = slog.LevelInfo
		}
	}
}

// WithFormat picks the output format. Defaults to FormatPretty.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithWriter overrides the destination. Defaults to os.Stderr so that
// command output on stdout stays clean.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.writer = w
	}
}

// WithComponent tags every record with the emitting component. The pretty
// handler shows it as a prefix, the others as a "component" attribute.
func WithComponent(name string) Option {
	return func(c *config) {
		c.component = name
	}
}
