// Package logging provides a shared, structured logger for pass-tui.
//
// It wraps [log/slog] with a single base logger so all components share the
// same output and level. Records are formatted by charmbracelet/log. The
// level is read from the PASS_TUI_LOG_LEVEL environment variable at first
// use (debug, info, warn, error; default info) and can be changed later with
// SetLevel.
//
// Usage:
//
//	log := logging.New("store")
//	log.Info("index built", "entries", n)
//	log.Error("remove failed", "error", err)
//
// Output goes to stderr until SetOutput redirects it. The TUI points it at a
// file so log lines never land on the alternate screen.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// EnvLogLevel names the environment variable read for the initial level.
const EnvLogLevel = "PASS_TUI_LOG_LEVEL"

var (
	initLogger sync.Once

	baseLogger *slog.Logger
	level      = new(slog.LevelVar)
	output     = &switchWriter{w: os.Stderr}
)

// New returns a structured logger scoped to the given component name.
//
// If component is empty, the base logger is returned without any additional
// attributes.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		level.Set(parseLevel(os.Getenv(EnvLogLevel)))
		// The charm logger copies its writer and level into every child
		// logger, so both are held here and consulted on each record.
		formatter := charmlog.NewWithOptions(output, charmlog.Options{
			ReportTimestamp: true,
			Level:           charmlog.DebugLevel,
		})
		baseLogger = slog.New(leveledHandler{level: level, inner: formatter})
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// SetOutput redirects every logger, including ones created earlier.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	output.set(w)
}

// SetLevel changes the minimum level of every logger. Unknown values fall
// back to info.
func SetLevel(value string) {
	level.Set(parseLevel(value))
}

// Level reports the current minimum level.
func Level() slog.Level {
	return level.Level()
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "warn", "warning" → slog.LevelWarn
//   - "error"           → slog.LevelError
//   - anything else     → slog.LevelInfo (the default)
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

type leveledHandler struct {
	level *slog.LevelVar
	inner slog.Handler
}

func (h leveledHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h leveledHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h leveledHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return leveledHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h leveledHandler) WithGroup(name string) slog.Handler {
	return leveledHandler{level: h.level, inner: h.inner.WithGroup(name)}
}

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
