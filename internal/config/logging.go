package config

import (
	"io"
	"log/slog"
	"strings"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = map[LogLevel]slog.Level{
	LogLevelDebug: slog.LevelDebug,
	LogLevelInfo:  slog.LevelInfo,
	LogLevelWarn:  slog.LevelWarn,
	LogLevelError: slog.LevelError,
}

// ParseLogLevel normalizes raw (case and surrounding space insensitive).
func ParseLogLevel(raw string) (LogLevel, error) {
	l := LogLevel(strings.ToLower(strings.TrimSpace(raw)))
	if l == "warning" {
		l = LogLevelWarn
	}
	if _, ok := logLevels[l]; !ok {
		return "", ferrors.ConfigError("invalid log level").WithContext("level", raw).Build()
	}
	return l, nil
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// ParseLogFormat normalizes raw.
func ParseLogFormat(raw string) (LogFormat, error) {
	switch f := LogFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case LogFormatJSON, LogFormatText:
		return f, nil
	default:
		return "", ferrors.ConfigError("invalid log format").WithContext("format", raw).Build()
	}
}

// NewLogger builds the process logger. Invalid values fall back to info/text;
// Validate reports them before this is called.
func NewLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if l, err := ParseLogLevel(string(cfg.Level)); err == nil {
		level = logLevels[l]
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if f, err := ParseLogFormat(string(cfg.Format)); err == nil && f == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
