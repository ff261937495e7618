// Package logging builds the slog loggers used by the command line tool.
//
// Library packages never build their own logger: they take a *slog.Logger in their options
// and fall back to slog.Default(). The CLI builds one with New and passes it down.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is the minimum severity of logged messages.
type Level int

const (
	// LevelDebug logs everything, including per-node inference details.
	LevelDebug Level = iota
	// LevelInfo logs normal operation.
	LevelInfo
	// LevelWarn logs truncations and partial failures.
	LevelWarn
	// LevelError logs failures only.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel returns the level whose name is s, ignoring case.
func ParseLevel(s string) (Level, error) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if strings.EqualFold(l.String(), s) {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config describes a logger.
type Config struct {
	Level   Level
	JSON    bool      // JSON output instead of human-readable text.
	Writer  io.Writer // Destination; os.Stderr if nil.
	Service string    // If not empty, added to every record.
}

// New returns a logger configured by config.
//
//	logger := logging.New(logging.Config{Level: logging.LevelDebug})
//	slog.SetDefault(logger)
func New(config Config) *slog.Logger {
	w := config.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}
	return slog.New(handler)
}
