package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// JSON keys used in log file entries.
const (
	FieldTimestamp  = "time"
	FieldLevel      = "level"
	FieldComponent  = "component"
	FieldMessage    = "msg"
	FieldStacktrace = "stack"
	FieldCaller     = "caller"
)

// NewEncoderConfig returns the encoder configuration for the JSON log file:
// RFC3339 timestamps with milliseconds, lowercase levels and durations in
// milliseconds.
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       FieldTimestamp,
		LevelKey:      FieldLevel,
		NameKey:       FieldComponent,
		CallerKey:     FieldCaller,
		MessageKey:    FieldMessage,
		StacktraceKey: FieldStacktrace,
		LineEnding:    zapcore.DefaultLineEnding,

		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00"),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

// NewConsoleEncoderConfig returns the encoder configuration for terminal
// output. Colored levels are used only when color is true.
func NewConsoleEncoderConfig(color bool) zapcore.EncoderConfig {
	cfg := NewEncoderConfig()
	cfg.EncodeTime = shortTimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

// shortTimeEncoder writes 15:04:05.000.
func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}
