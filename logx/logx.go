// Package logx configures the process-wide slog logger.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
)

// UserLevel is the minimum level written by the default logger.
var UserLevel = slog.LevelInfo

// LevelFromString parses debug, info, warn or error.
func LevelFromString(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewHandler returns a text handler that colours the level column when w is
// a terminal.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.LevelKey {
				return a
			}
			lvl, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			return slog.String(slog.LevelKey, colorLevel(out, lvl))
		},
	})
}

func colorLevel(out *termenv.Output, lvl slog.Level) string {
	s := out.String(lvl.String())
	switch {
	case lvl >= slog.LevelError:
		s = s.Foreground(out.Color("1")).Bold()
	case lvl >= slog.LevelWarn:
		s = s.Foreground(out.Color("3"))
	case lvl >= slog.LevelInfo:
		s = s.Foreground(out.Color("4"))
	default:
		s = s.Faint()
	}
	return s.String()
}

// SetDefaultLogger installs a logger writing to w at the given level and
// records the level in UserLevel.
func SetDefaultLogger(w io.Writer, level slog.Level) *slog.Logger {
	UserLevel = level
	l := slog.New(NewHandler(w, level))
	slog.SetDefault(l)
	return l
}

// Or returns l, or the default logger when l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
