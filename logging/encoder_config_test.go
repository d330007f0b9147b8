package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewEncoderConfig_Keys(t *testing.T) {
	cfg := NewEncoderConfig()
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"TimeKey", cfg.TimeKey, FieldTimestamp},
		{"LevelKey", cfg.LevelKey, FieldLevel},
		{"NameKey", cfg.NameKey, FieldComponent},
		{"CallerKey", cfg.CallerKey, FieldCaller},
		{"MessageKey", cfg.MessageKey, FieldMessage},
		{"StacktraceKey", cfg.StacktraceKey, FieldStacktrace},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestNewEncoderConfig_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), zapcore.AddSync(&buf), zapcore.DebugLevel)
	zap.New(core).Named("render").Info("page drawn", zap.Duration("elapsed", 1500*time.Millisecond))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry[FieldLevel] != "info" {
		t.Errorf("level = %v, want info", entry[FieldLevel])
	}
	if entry[FieldComponent] != "render" {
		t.Errorf("component = %v, want render", entry[FieldComponent])
	}
	if entry["elapsed"] != float64(1500) {
		t.Errorf("elapsed = %v, want 1500 (ms)", entry["elapsed"])
	}
	if _, err := time.Parse("2006-01-02T15:04:05.000Z07:00", entry[FieldTimestamp].(string)); err != nil {
		t.Errorf("timestamp %v: %v", entry[FieldTimestamp], err)
	}
}

func TestNewConsoleEncoderConfig(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(NewConsoleEncoderConfig(false)), zapcore.AddSync(&buf), zapcore.DebugLevel)
	zap.New(core).Warn("low disk")

	line := buf.String()
	if !strings.Contains(line, "WARN") || !strings.Contains(line, "low disk") {
		t.Errorf("console line = %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Errorf("uncolored config produced escape codes: %q", line)
	}
	if strings.HasPrefix(strings.TrimSpace(line), "{") {
		t.Errorf("console output should not be JSON: %q", line)
	}
}
