package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFileWriterConfig(t *testing.T) {
	cfg := DefaultFileWriterConfig()
	if cfg.MaxSizeMB != DefaultMaxSizeMB || cfg.MaxBackups != DefaultMaxBackups || cfg.MaxAgeDays != DefaultMaxAgeDays {
		t.Errorf("DefaultFileWriterConfig() = %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("Compress should default to true")
	}
}

func TestApplyFileWriterDefaults(t *testing.T) {
	tests := []struct {
		name   string
		config FileWriterConfig
		want   FileWriterConfig
	}{
		{
			name:   "zero values",
			config: FileWriterConfig{},
			want:   FileWriterConfig{MaxSizeMB: DefaultMaxSizeMB, MaxBackups: DefaultMaxBackups, MaxAgeDays: DefaultMaxAgeDays},
		},
		{
			name:   "negative values",
			config: FileWriterConfig{MaxSizeMB: -1, MaxBackups: -2, MaxAgeDays: -3, Compress: true},
			want:   FileWriterConfig{MaxSizeMB: DefaultMaxSizeMB, MaxBackups: DefaultMaxBackups, MaxAgeDays: DefaultMaxAgeDays, Compress: true},
		},
		{
			name:   "explicit values kept",
			config: FileWriterConfig{MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3, LocalTime: true},
			want:   FileWriterConfig{MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3, LocalTime: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyFileWriterDefaults(tt.config); got != tt.want {
				t.Errorf("applyFileWriterDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewFileWriter_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "app.log")
	w := NewFileWriter(path, DefaultFileWriterConfig())

	if _, err := w.Write([]byte("first line\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "first line\n" {
		t.Errorf("log content = %q", data)
	}
}

func TestNewFileWriter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewFileWriter(path, FileWriterConfig{})
	if _, err := w.Write([]byte("new\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "old\nnew\n" {
		t.Errorf("log content = %q, want appended", data)
	}
}
