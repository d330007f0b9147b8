package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunMetrics describes one summarization run for the log file.
type RunMetrics struct {
	RunID            string
	Input            string
	Model            string
	InputPages       int
	Chunks           int
	PromptTokens     int
	CompletionTokens int
	SummaryChars     int
	OutputPages      int
	Duration         time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m RunMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("run_id", m.RunID)
	enc.AddString("input", m.Input)
	enc.AddString("model", m.Model)
	enc.AddInt("input_pages", m.InputPages)
	enc.AddInt("chunks", m.Chunks)
	enc.AddInt("prompt_tokens", m.PromptTokens)
	enc.AddInt("completion_tokens", m.CompletionTokens)
	enc.AddInt("summary_chars", m.SummaryChars)
	enc.AddInt("output_pages", m.OutputPages)
	enc.AddInt64("duration_ms", m.Duration.Milliseconds())
	return nil
}

// RunFields logs m as a nested "run" object.
func RunFields(m RunMetrics) zap.Field {
	return zap.Object("run", m)
}

// StageFields describes a finished pipeline stage.
func StageFields(stage string, elapsed time.Duration) []zap.Field {
	return []zap.Field{
		zap.String("stage", stage),
		zap.Duration("elapsed", elapsed),
	}
}

// TokenFields reports model usage.
func TokenFields(prompt, completion int) []zap.Field {
	return []zap.Field{
		zap.Int("prompt_tokens", prompt),
		zap.Int("completion_tokens", completion),
		zap.Int("total_tokens", prompt+completion),
	}
}
