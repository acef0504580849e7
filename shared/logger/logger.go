package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogger *slog.Logger

// Options controls where and how the default logger writes.
type Options struct {
	Environment string
	Debug       bool
	// File, when set, receives a copy of every record with size-based rotation.
	File string
}

// Init initializes the default logger with appropriate handler based on environment
func Init(opts Options) *slog.Logger {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	defaultLogger = slog.New(NewHandler(out, opts.Environment, opts.Debug))
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

// NewHandler picks a text handler for development (human-readable) and a
// JSON handler for everything else.
func NewHandler(w io.Writer, env string, debug bool) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if debug || env == "development" {
		handlerOpts.Level = slog.LevelDebug
		return slog.NewTextHandler(w, handlerOpts)
	}
	return slog.NewJSONHandler(w, handlerOpts)
}

// Default returns the default logger instance
func Default() *slog.Logger {
	if defaultLogger == nil {
		// Fallback to text handler if not initialized
		defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return defaultLogger
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}
