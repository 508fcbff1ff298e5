package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// DefaultLogger is a simple stdout logger. Debug lines are only written
// when Verbose is set. The zero value is ready to use.
type DefaultLogger struct {
	once    sync.Once
	logger  *log.Logger
	Verbose bool
}

// NewDefaultLogger creates a logger writing to stdout
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{logger: log.New(os.Stdout, "", 0)}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	if !l.Verbose {
		return
	}
	l.log("DEBUG", msg, fields...)
}

func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.log("INFO", msg, fields...)
}

func (l *DefaultLogger) Error(msg string, fields ...Field) {
	l.log("ERROR", msg, fields...)
}

func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.log("WARN", msg, fields...)
}

func (l *DefaultLogger) log(level, msg string, fields ...Field) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", timestamp, level, msg)
	if len(fields) > 0 {
		sb.WriteString(" |")
		for _, f := range fields {
			fmt.Fprintf(&sb, " %s=%v", f.Key, sanitizeValue(f.Value))
		}
	}

	l.once.Do(func() {
		if l.logger == nil {
			l.logger = log.New(os.Stdout, "", 0)
		}
	})
	l.logger.Println(sb.String())
}

// Request paths and header values come straight off the wire, keep them short
func sanitizeValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		if len(s) > 100 {
			return s[:100] + "...[truncated]"
		}
	}
	return v
}

// SlogLogger adapts a *slog.Logger
type SlogLogger struct {
	L *slog.Logger
}

// NewOTelLogger returns a logger whose records go to the global
// OpenTelemetry LoggerProvider.
func NewOTelLogger(name string) SlogLogger {
	return SlogLogger{L: otelslog.NewLogger(name)}
}

func (s SlogLogger) Debug(msg string, fields ...Field) {
	s.log(slog.LevelDebug, msg, fields)
}

func (s SlogLogger) Info(msg string, fields ...Field) {
	s.log(slog.LevelInfo, msg, fields)
}

func (s SlogLogger) Error(msg string, fields ...Field) {
	s.log(slog.LevelError, msg, fields)
}

func (s SlogLogger) Warn(msg string, fields ...Field) {
	s.log(slog.LevelWarn, msg, fields)
}

func (s SlogLogger) log(level slog.Level, msg string, fields []Field) {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, sanitizeValue(f.Value)))
	}
	s.L.LogAttrs(context.Background(), level, msg, attrs...)
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, fields ...Field) {}
func (n *NullLogger) Info(msg string, fields ...Field)  {}
func (n *NullLogger) Error(msg string, fields ...Field) {}
func (n *NullLogger) Warn(msg string, fields ...Field)  {}
