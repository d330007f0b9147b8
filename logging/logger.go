// Package logging wraps zap for the CLI. Entries are teed to the terminal
// and to a rotating JSON file, and secrets are redacted from fields before
// they are written.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is the minimum level written to the log file.
	Level zapcore.Level

	// File is the log file path. Empty disables file output.
	File string

	// FileConfig controls rotation of File.
	FileConfig FileWriterConfig

	// Development logs debug entries to the console in a readable format.
	// Otherwise the console only shows warnings and errors as JSON.
	Development bool

	// Console receives terminal output. Defaults to os.Stderr so log lines
	// never mix with the summary printed on stdout.
	Console io.Writer
}

// Logger is a zap logger that redacts sensitive fields.
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
	file  string
}

// New builds a Logger from opts.
func New(opts Options) *Logger {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleLevel := zapcore.WarnLevel
	if opts.Development {
		consoleLevel = zapcore.DebugLevel
	}

	var fileWriter zapcore.WriteSyncer
	if opts.File != "" {
		fileWriter = NewFileWriter(opts.File, opts.FileConfig)
	}

	core := NewMultiCore(consoleLevel, opts.Level, zapcore.AddSync(console), fileWriter, opts.Development)
	zapOpts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if opts.Development {
		zapOpts = append(zapOpts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return wrap(zap.New(core, zapOpts...), opts.File)
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return wrap(zap.NewNop(), "")
}

func wrap(z *zap.Logger, file string) *Logger {
	return &Logger{zap: z, sugar: z.Sugar(), file: file}
}

// Sync flushes buffered entries. Call it before exiting.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(RedactSensitiveData(msg), redactFields(fields)...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(RedactSensitiveData(msg), redactFields(fields)...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(RedactSensitiveData(msg), redactFields(fields)...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(RedactSensitiveData(msg), redactFields(fields)...)
}

// Debugw logs loosely typed key-value pairs at debug level.
func (l *Logger) Debugw(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, redactKeysAndValues(keysAndValues)...)
}

func (l *Logger) Infow(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, redactKeysAndValues(keysAndValues)...)
}

func (l *Logger) Warnw(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, redactKeysAndValues(keysAndValues)...)
}

func (l *Logger) Errorw(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, redactKeysAndValues(keysAndValues)...)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return wrap(l.zap.With(redactFields(fields)...), l.file)
}

// Named returns a child logger whose entries carry the component name.
func (l *Logger) Named(name string) *Logger {
	return wrap(l.zap.Named(name), l.file)
}

// Zap returns the underlying logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// LogFilePath returns the log file path, or "" when file output is off.
func (l *Logger) LogFilePath() string {
	return l.file
}

func redactFields(fields []zap.Field) []zap.Field {
	if len(fields) == 0 {
		return fields
	}
	result := make([]zap.Field, len(fields))
	for i, field := range fields {
		result[i] = redactField(field)
	}
	return result
}

func redactField(field zap.Field) zap.Field {
	if IsSensitiveField(field.Key) {
		return zap.String(field.Key, RedactedPlaceholder)
	}
	switch field.Type {
	case zapcore.StringType:
		if redacted := RedactSensitiveData(field.String); redacted != field.String {
			return zap.String(field.Key, redacted)
		}
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			if msg := err.Error(); ContainsSensitiveData(msg) {
				return zap.String(field.Key, RedactSensitiveData(msg))
			}
		}
	}
	return field
}

func redactKeysAndValues(keysAndValues []any) []any {
	if len(keysAndValues) == 0 {
		return keysAndValues
	}
	result := make([]any, len(keysAndValues))
	copy(result, keysAndValues)

	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if IsSensitiveField(key) {
			result[i+1] = RedactedPlaceholder
			continue
		}
		switch v := result[i+1].(type) {
		case string:
			result[i+1] = RedactSensitiveData(v)
		case error:
			if msg := v.Error(); ContainsSensitiveData(msg) {
				result[i+1] = RedactSensitiveData(msg)
			}
		}
	}
	return result
}
