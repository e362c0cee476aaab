package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/infrastructure/config"
)

// Logger wraps slog.Logger with ets2hass-specific functionality.
//
// It provides structured logging with default fields and level-based
// filtering, and counts the warnings and errors it has seen so a run can
// be summarised even when those levels are filtered from the output.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
	counts *counts
}

// New creates a new Logger with the specified configuration.
//
// It configures:
//   - Output format (text for terminals, JSON for machines)
//   - Log level filtering
//   - Default fields (service name, version)
//   - Output destination (stderr by default, keeping stdout for generated data)
//
// Parameters:
//   - cfg: Logging configuration
//   - version: Application version for default field
//
// Returns:
//   - *Logger: Configured logger ready for use
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	default:
		output = os.Stderr
	}
	return NewWriter(cfg, version, output)
}

// NewWriter is New with an explicit destination; cfg.Output is ignored.
func NewWriter(cfg config.LoggingConfig, version string, output io.Writer) *Logger {
	// Parse log level
	level := parseLevel(cfg.Level)

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	// Add default fields
	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "ets2hass"),
		slog.String("version", version),
	})

	c := &counts{}
	return &Logger{
		Logger: slog.New(&countingHandler{next: handler, counts: c}),
		counts: c,
	}
}

// parseLevel converts a string log level to slog.Level.
//
// Supported levels: debug, info, warn, error
// Defaults to info if unrecognised.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a new Logger with additional default attributes.
// The child shares its parent's counters.
//
// Example:
//
//	importLogger := logger.With("component", "etsimport")
//	importLogger.Info("project loaded") // Includes component=etsimport
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		counts: l.counts,
	}
}

// Warnings returns the number of warning records logged so far.
func (l *Logger) Warnings() int {
	return int(l.counts.warnings.Load())
}

// Errors returns the number of error records logged so far.
func (l *Logger) Errors() int {
	return int(l.counts.errors.Load())
}

// Default creates a default logger for use before configuration is loaded.
//
// This logger writes text to stderr at warn level.
//
// Returns:
//   - *Logger: Default logger
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "warn",
		Format: "text",
		Output: "stderr",
	}, "dev")
}
