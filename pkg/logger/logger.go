package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Init configures the package logger. Production writes JSON, everything else
// writes human readable text. LOG_LEVEL overrides the default info level.
func Init(env string) *slog.Logger {
	return InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, w io.Writer) *slog.Logger {
	return InitWithLevel(env, w, parseLevel(os.Getenv("LOG_LEVEL")))
}

func InitWithLevel(env string, w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(env) {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
	return log
}

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

func Logger() *slog.Logger {
	return log
}

func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}

// Fatal logs at error level and exits the process.
func Fatal(msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}
