package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New builds a slog handler writing to w in the given format ("text" or
// "json") at the given level ("debug", "info", "warn", "error").
func New(w io.Writer, level, format string) (slog.Handler, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("log level must be one of: debug, info, warn, error; got %q", level)
	}

	ho := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text", "":
		return slog.NewTextHandler(w, ho), nil
	case "json":
		return slog.NewJSONHandler(w, ho), nil
	default:
		return nil, fmt.Errorf("log format must be json or text; got %q", format)
	}
}

// Setup installs the handler as the slog default.
func Setup(w io.Writer, level, format string) error {
	h, err := New(w, level, format)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(h))
	return nil
}
