package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Supported severities, lowest first.
const (
	LevelTrace   = "TRACE"
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
	LevelOff     = "OFF"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// trace logs everything, off logs nothing
const (
	traceLevel = slog.Level(-8)
	offLevel   = slog.Level(12)
)

// ParseLevel maps a severity name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case LevelTrace:
		return traceLevel, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelWarning, "WARN":
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	case LevelOff:
		return offLevel, nil
	}
	return 0, fmt.Errorf("unsupported log level: %v", level)
}

// New creates a logger writing to w in the given format at the given level.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	programLevel := new(slog.LevelVar)
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	programLevel.Set(lvl)
	opts := &slog.HandlerOptions{Level: programLevel}
	switch strings.ToLower(format) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unsupported log format: %v", format)
}
