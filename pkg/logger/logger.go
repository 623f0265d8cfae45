package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the log encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures NewHandler. A nil *Options logs colored text at info level to stdout.
type Options struct {
	Writer io.Writer
	Format Format
	Level  slog.Level
}

// NewHandler returns a tint handler for text output and a JSON handler otherwise.
func NewHandler(opts *Options) slog.Handler {
	if opts == nil {
		opts = &Options{}
	}
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == FormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.TimeOnly,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
