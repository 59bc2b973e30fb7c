package cmd

import (
	"io"
	"log/slog"
)

func buildLogger(level string, format string, out io.Writer) *slog.Logger {
	var programLevel = new(slog.LevelVar)
	switch level {
	case "debug":
		programLevel.Set(slog.LevelDebug)
	case "info":
		programLevel.Set(slog.LevelInfo)
	case "warn":
		programLevel.Set(slog.LevelWarn)
	case "error":
		programLevel.Set(slog.LevelError)
	default:
		programLevel.Set(slog.LevelInfo)
	}

	options := &slog.HandlerOptions{Level: programLevel}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(out, options))
	case "json":
		return slog.New(slog.NewJSONHandler(out, options))
	default:
		return slog.New(slog.NewTextHandler(out, options))
	}
}
