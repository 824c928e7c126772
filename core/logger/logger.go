// Package logger is a thin keyvalue logging facade used across the codebase.
// Call sites pass a "Component:Method:Step" message followed by key/value pairs.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu  sync.RWMutex
	std = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init reconfigures the backend. Development gets debug level output.
func Init(env string) {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	mu.Lock()
	std = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	mu.Unlock()
}

func logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// normalize tolerates a single trailing value (commonly a bare error)
// by keying it as "error".
func normalize(args []any) []any {
	if len(args) == 1 {
		return []any{"error", args[0]}
	}
	if len(args)%2 == 1 {
		return append(args, "(MISSING)")
	}
	return args
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	logger().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, normalize(args)...)
}
