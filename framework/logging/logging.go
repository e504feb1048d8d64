// Package logging provides named loggers on top of gookit/slog.
//
// Loggers can be created before Init runs; the level and the output handlers
// are looked up when a record is written.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

var (
	currentLevel atomic.Int64
	outputs      = &dispatchHandler{}
)

func init() {
	currentLevel.Store(int64(slog.InfoLevel))
	outputs.set(newConsoleHandler())
}

// Init sets the process-wide level by name (see Name2Level).
func Init(level string) {
	SetLevel(Name2Level(level))
}

// SetLevel sets the process-wide level.
func SetLevel(level slog.Level) {
	currentLevel.Store(int64(level))
}

// Level returns the process-wide level.
func Level() slog.Level {
	return slog.Level(currentLevel.Load())
}

// AddHandler adds an output next to the console.
func AddHandler(h slog.Handler) {
	outputs.add(h)
}

// ResetHandlers drops every output except the console.
func ResetHandlers() {
	outputs.set(newConsoleHandler())
}

func newConsoleHandler() slog.Handler {
	consoleHandler := handler.NewConsoleHandler(slog.AllLevels)
	consoleHandler.TextFormatter().SetTemplate(
		"[{{datetime}}] [{{level}}] {{message}} {{data}} {{extra}}\n",
	)
	return &consoleHandlerSyncAdapter{ConsoleHandler: consoleHandler}
}

type consoleHandlerSyncAdapter struct {
	*handler.ConsoleHandler
	mutex sync.Mutex
}

func (h *consoleHandlerSyncAdapter) Handle(record *slog.Record) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.ConsoleHandler.Handle(record)
}

// ── Logger ────────────────────────────────────────────────────────────────────

// Logger prefixes every message with its name.
type Logger struct {
	slogger *slog.Logger
	name    string
}

// NewLogger creates a named logger.
func NewLogger(name string) *Logger {
	slogger := slog.NewWithName(name, func(l *slog.Logger) {
		l.CallerSkip = l.CallerSkip + 2
		l.AddHandler(outputs)
	})
	return &Logger{slogger: slogger, name: name}
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) Tracef(format string, args ...any) {
	l.logf(slog.TraceLevel, format, args)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(slog.DebugLevel, format, args)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(slog.InfoLevel, format, args)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(slog.WarnLevel, format, args)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(slog.ErrorLevel, format, args)
}

// Enabled reports whether records of level are written.
func (l *Logger) Enabled(level slog.Level) bool {
	return Level() >= level
}

func (l *Logger) logf(level slog.Level, format string, args []any) {
	if !l.Enabled(level) {
		return
	}
	format = strings.TrimSuffix(format, "\n")
	l.slogger.Logf(level, fmt.Sprintf("[%s] %s", l.name, format), args...)
}

// Name2Level maps a level name to its slog level; unknown names are info.
func Name2Level(ln string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(ln)) {
	case "panic":
		return slog.PanicLevel
	case "fatal":
		return slog.FatalLevel
	case "error":
		return slog.ErrorLevel
	case "warn", "warning":
		return slog.WarnLevel
	case "notice":
		return slog.NoticeLevel
	case "debug":
		return slog.DebugLevel
	case "trace":
		return slog.TraceLevel
	default:
		return slog.InfoLevel
	}
}

// ── dispatchHandler ───────────────────────────────────────────────────────────

// dispatchHandler fans records out to the current outputs. Every logger
// shares it, so outputs can change after loggers were created.
type dispatchHandler struct {
	mu       sync.RWMutex
	handlers []slog.Handler
}

func (d *dispatchHandler) set(handlers ...slog.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = handlers
}

func (d *dispatchHandler) add(h slog.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

func (d *dispatchHandler) snapshot() []slog.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]slog.Handler(nil), d.handlers...)
}

func (d *dispatchHandler) IsHandling(slog.Level) bool {
	return true
}

func (d *dispatchHandler) Handle(record *slog.Record) error {
	for _, h := range d.snapshot() {
		if !h.IsHandling(record.Level) {
			continue
		}
		if err := h.Handle(record); err != nil {
			return err
		}
	}
	return nil
}

func (d *dispatchHandler) Flush() error {
	for _, h := range d.snapshot() {
		if err := h.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (d *dispatchHandler) Close() error {
	return nil
}
