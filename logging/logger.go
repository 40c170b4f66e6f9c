// Package logging holds the *slog.Logger used by every pdf2docx package.
//
// Library code logs at debug level only; nothing is printed unless a
// program installs a logger:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
package logging

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// SetLogger installs the package-level logger. nil restores the discard
// logger. Safe for concurrent use.
func SetLogger(sl *slog.Logger) {
	if sl == nil {
		sl = discard()
	}
	logger.Store(sl)
}

// Logger returns the package-level logger, a discard logger by default.
// Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	l := discard()
	logger.CompareAndSwap(nil, l)
	return logger.Load()
}

// ParseLevel maps a configuration level name to a slog level
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
