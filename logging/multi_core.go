package logging

import (
	"go.uber.org/zap/zapcore"
)

// NewMultiCore tees log entries to the console and, when fileWriter is not
// nil, to a JSON log file. Each side has its own minimum level so the
// terminal can stay quiet while the file records everything.
//
// The console uses the human-readable encoder in development and JSON
// otherwise.
func NewMultiCore(consoleLevel, fileLevel zapcore.LevelEnabler, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig(true))
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}

	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder, consoleWriter, consoleLevel)}
	if fileWriter != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(NewEncoderConfig()),
			fileWriter,
			fileLevel,
		))
	}
	return zapcore.NewTee(cores...)
}
