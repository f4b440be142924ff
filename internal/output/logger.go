/*
PURPOSE:
  Provides a structured logger for diabetes-check.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - Every API call is observable for diagnostics.
  - Results go to stdout; diagnostics must not interleave with them.

  Implementation-discovered:
  - Needs Debug/Info/Warn/Error levels and an optional JSON format.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

ERROR HANDLING:
  - Unknown levels fall back to info.

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).
  - Log to stderr.

USAGE:
  output.Logger.Info("message", "key", "value")
*/

package output

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// Configure installs a logger for the given level ("debug", "info", ...)
// and format ("text" or "json").
func Configure(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		SetLogger(slog.New(slog.NewJSONHandler(w, opts)))
		return
	}
	SetLogger(slog.New(slog.NewTextHandler(w, opts)))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
