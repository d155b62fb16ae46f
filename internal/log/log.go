// Package log is the process-wide structured logger.
//
// Call sites use key/value pairs: log.Info("Nodes persisted", "count", n).
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/paularlott/logger"
	logslog "github.com/paularlott/logger/slog"
	"golang.org/x/term"
)

var (
	mu            sync.RWMutex
	defaultLogger logger.Logger = logger.NewNullLogger()
)

// Configure replaces the global logger writing to stderr.
// level is one of trace, debug, info, warn, error.
// format is console, json or auto (console on a terminal, json otherwise).
func Configure(level, format string) {
	ConfigureWriter(level, format, os.Stderr)
}

// ConfigureWriter is Configure with an explicit destination
func ConfigureWriter(level, format string, w io.Writer) {
	Set(logslog.New(logslog.Config{
		Level:  strings.ToLower(level),
		Format: resolveFormat(format),
		Writer: w,
	}))
}

func resolveFormat(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "json"
	case "auto":
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return "console"
		}
		return "json"
	default:
		return "console"
	}
}

// Set installs l as the global logger; nil installs a no-op logger
func Set(l logger.Logger) {
	if l == nil {
		l = logger.NewNullLogger()
	}
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// GetLogger returns the global logger for components that accept logger.Logger
func GetLogger() logger.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// With returns a child logger carrying key=value
func With(key string, value any) logger.Logger {
	return GetLogger().With(key, value)
}

// WithError returns a child logger carrying the error
func WithError(err error) logger.Logger {
	return GetLogger().WithError(err)
}

func Trace(msg string, keysAndValues ...any) {
	GetLogger().Trace(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	GetLogger().Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	GetLogger().Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	GetLogger().Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	GetLogger().Error(msg, keysAndValues...)
}
