package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Log levels accepted in configuration.
const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// ParseLevel parses debug, info, warn (or warning) and error, ignoring case
// and surrounding space.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseLevelOrDefault is ParseLevel with a fallback for empty or unknown
// input.
func ParseLevelOrDefault(s string, def zapcore.Level) zapcore.Level {
	level, err := ParseLevel(s)
	if err != nil {
		return def
	}
	return level
}
