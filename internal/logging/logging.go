// Package logging provides structured logging using Go's slog package.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// defaultLogger is the global logger instance.
var defaultLogger *slog.Logger

func init() {
	InitLogger(LevelInfo, FormatText)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// InitLogger initializes the global logger with the specified level and
// format, writing to stderr.
func InitLogger(level Level, format Format) {
	InitLoggerWriter(level, format, os.Stderr)
}

// InitLoggerWriter initializes the global logger writing to w.
func InitLoggerWriter(level Level, format Format, w io.Writer) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// ValidationIssues logs the outcome of validating one page.
func ValidationIssues(pageID, count int, args ...any) {
	allArgs := []any{
		"page_id", pageID,
		"violations", count,
	}
	allArgs = append(allArgs, args...)
	if count > 0 {
		defaultLogger.Warn("validation_issues", allArgs...)
		return
	}
	defaultLogger.Info("validation_ok", allArgs...)
}

// PublishRun logs the outcome of assembling one output text.
func PublishRun(slug string, sections, blocks int, args ...any) {
	allArgs := []any{
		"slug", slug,
		"sections", sections,
		"blocks", blocks,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("publish_run", allArgs...)
}

// StorageApply logs what one republish changed in storage.
func StorageApply(slug string, inserted, updated, deleted, unchanged int, args ...any) {
	allArgs := []any{
		"slug", slug,
		"inserted", inserted,
		"updated", updated,
		"deleted", deleted,
		"unchanged", unchanged,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("storage_apply", allArgs...)
}

// ExportWritten logs a finished export artifact.
func ExportWritten(path, format string, bytes int, args ...any) {
	allArgs := []any{
		"path", path,
		"format", format,
		"bytes", bytes,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("export_written", allArgs...)
}
