package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

type Logger struct {
	*slog.Logger
	counts *levelCounts
}

// Options select the level, encoding and destination of a logger.
type Options struct {
	Level  string
	Format string
	Output string
}

type levelCounts struct {
	warnings atomic.Int64
	errors   atomic.Int64
}

// DefaultLogger creates a logger using slog.Default()
func DefaultLogger() *Logger {
	counts := &levelCounts{}
	return &Logger{
		Logger: slog.New(&countingHandler{Handler: slog.Default().Handler(), counts: counts}),
		counts: counts,
	}
}

// NewLogger creates a configured logger based on environment variables:
// - HOLO_LOG_LEVEL: DEBUG, INFO, WARN, ERROR (default: INFO)
// - HOLO_LOG_FORMAT: json or text (default: text)
// - HOLO_LOG_OUTPUT: stdout, stderr, or file path (default: stdout)
func NewLogger() *Logger {
	return New(Options{
		Level:  os.Getenv("HOLO_LOG_LEVEL"),
		Format: os.Getenv("HOLO_LOG_FORMAT"),
		Output: os.Getenv("HOLO_LOG_OUTPUT"),
	})
}

// New creates a logger from explicit options. Empty fields fall back to
// INFO, text and stdout.
func New(opts Options) *Logger {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "text"
	}

	output := opts.Output
	if output == "" {
		output = "stdout"
	}

	var writer io.Writer
	switch output {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// Fallback to stdout if file can't be opened
			writer = os.Stdout
		} else {
			writer = file
		}
	}

	return NewWithWriter(writer, format, ParseLevel(opts.Level))
}

// NewWithWriter builds a logger on an arbitrary writer.
func NewWithWriter(w io.Writer, format string, level slog.Level) *Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	counts := &levelCounts{}
	return &Logger{
		Logger: slog.New(&countingHandler{Handler: handler, counts: counts}),
		counts: counts,
	}
}

// ParseLevel parses log level from string
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefaultLogger sets the logger as the default slog logger
func SetDefaultLogger(l *Logger) {
	slog.SetDefault(l.Logger)
}

// SLog exposes the underlying slog.Logger for libraries that need it.
func (l *Logger) SLog() *slog.Logger {
	return l.Logger
}

// Warnings is the number of WARN records written so far.
func (l *Logger) Warnings() int64 {
	return l.counts.warnings.Load()
}

// Errors is the number of ERROR records written so far.
func (l *Logger) Errors() int64 {
	return l.counts.errors.Load()
}

// countingHandler tallies warn and error records. Counts include records
// dropped by the level filter of the wrapped handler.
type countingHandler struct {
	slog.Handler
	counts *levelCounts
}

func (h *countingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelWarn {
		return true
	}
	return h.Handler.Enabled(ctx, level)
}

func (h *countingHandler) Handle(ctx context.Context, r slog.Record) error {
	switch {
	case r.Level >= slog.LevelError:
		h.counts.errors.Add(1)
	case r.Level >= slog.LevelWarn:
		h.counts.warnings.Add(1)
	}
	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

func (h *countingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &countingHandler{Handler: h.Handler.WithAttrs(attrs), counts: h.counts}
}

func (h *countingHandler) WithGroup(name string) slog.Handler {
	return &countingHandler{Handler: h.Handler.WithGroup(name), counts: h.counts}
}
