// Package logging configures structured logging for the server.
//
// Usage:
//
//	logging.Setup("info", true)               // colored tint output on stderr
//	logging.Setup("debug", false)             // JSON lines on stdout
//	logging.SetupWithLevel(slog.LevelDebug)   // explicit level override
//
// Level names: debug, info, warn, error (default: info).
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures logging at the named level. Development gets colored
// output for humans; other environments get JSON for log collectors.
func Setup(level string, development bool) {
	if development {
		SetupWithLevel(ParseLevel(level))
		return
	}
	SetupJSON(ParseLevel(level))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

// SetupJSON configures JSON logging on stdout at the given level.
func SetupJSON(level slog.Level) {
	slog.SetDefault(slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	))
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
