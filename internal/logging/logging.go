// Package logging configures the process-wide slog logger for dnslens.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls how the logger is built.
type Config struct {
	Level       string            // DEBUG, INFO, WARN, ERROR (case-insensitive)
	Format      string            // "text" or "json"
	IncludePID  bool              // attach the process ID to every record
	ExtraFields map[string]string // static attrs attached to every record
}

// Configure builds a slog.Logger from cfg, installs it as the default
// logger, and returns it.
func Configure(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	out := io.Writer(os.Stderr)

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	attrs := make([]slog.Attr, 0, len(cfg.ExtraFields)+1)
	for k, v := range cfg.ExtraFields {
		attrs = append(attrs, slog.String(k, v))
	}
	if cfg.IncludePID {
		attrs = append(attrs, slog.Int("pid", os.Getpid()))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
