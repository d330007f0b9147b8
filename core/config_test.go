package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pdf_summarizer/layout"
	"pdf_summarizer/llm"
)

var configEnvVars = []string{
	"GENAI_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
	"LLM_BASE_URL", "LLM_MODEL", "LLM_MAX_TOKENS", "LLM_TEMPERATURE", "AI_TIMEOUT",
	"LAYOUT_LEFT_MARGIN", "LAYOUT_TOP_START", "LAYOUT_BOTTOM_MARGIN", "LAYOUT_MAX_WIDTH", "LAYOUT_LINE_HEIGHT",
	"FONT_FAMILY", "FONT_SIZE", "PAGE_SIZE",
	"OUTPUT_PATH", "DISPLAY_LIMIT", "MAX_FILE_SIZE",
	"HISTORY_ENABLED", "HISTORY_DB_PATH", "LOG_FILE", "LOG_LEVEL", "DEV_MODE",
}

// clearConfigEnv blanks every variable LoadConfig reads.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Layout != layout.DefaultGeometry() {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" || cfg.LLM.BaseURL != llm.GeminiBaseURL {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.OutputPath != "Summary.pdf" || cfg.DisplayLimit != 500 {
		t.Errorf("output = %q, limit %d", cfg.OutputPath, cfg.DisplayLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "" || cfg.APIKeySource != "" {
		t.Errorf("APIKey = %q from %q, want none", cfg.LLM.APIKey, cfg.APIKeySource)
	}
	if cfg.History.DBPath != "./data/history.db" {
		t.Errorf("DBPath = %q", cfg.History.DBPath)
	}
}

func TestLoadConfig_APIKeyPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantKey    string
		wantSource string
	}{
		{"genai first", map[string]string{"GENAI_API_KEY": "g", "GEMINI_API_KEY": "m", "OPENAI_API_KEY": "o"}, "g", "GENAI_API_KEY"},
		{"gemini fallback", map[string]string{"GEMINI_API_KEY": "m", "OPENAI_API_KEY": "o"}, "m", "GEMINI_API_KEY"},
		{"openai fallback", map[string]string{"OPENAI_API_KEY": "o"}, "o", "OPENAI_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig("")
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.LLM.APIKey != tt.wantKey || cfg.APIKeySource != tt.wantSource {
				t.Errorf("key = %q from %q, want %q from %q", cfg.LLM.APIKey, cfg.APIKeySource, tt.wantKey, tt.wantSource)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LLM_MODEL", "gemini-2.5-pro")
	t.Setenv("AI_TIMEOUT", "45")
	t.Setenv("LAYOUT_MAX_WIDTH", "520")
	t.Setenv("LAYOUT_LINE_HEIGHT", "14")
	t.Setenv("PAGE_SIZE", "letter")
	t.Setenv("OUTPUT_PATH", "out/summary.pdf")
	t.Setenv("HISTORY_ENABLED", "false")
	t.Setenv("DEV_MODE", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Layout.MaxWidth != 520 || cfg.Layout.LineHeight != 14 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Render.PageSize != "letter" {
		t.Errorf("PageSize = %q", cfg.Render.PageSize)
	}
	if cfg.OutputPath != "out/summary.pdf" || cfg.History.Enabled || !cfg.DevMode {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "pdf_summarizer.yaml")
	yaml := `
llm:
  model: from-file
  timeout: 30s
layout:
  line_height: 12
display_limit: 200
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DISPLAY_LIMIT", "300")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Model != "from-file" || cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Layout.LineHeight != 12 || cfg.Layout.MaxWidth != 500 {
		t.Errorf("Layout = %+v, want file line height and default width", cfg.Layout)
	}
	if cfg.DisplayLimit != 300 {
		t.Errorf("DisplayLimit = %d, env should win over file", cfg.DisplayLimit)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("layout: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if GetErrorCode(err) != ErrCodeInvalidConfigFile {
		t.Errorf("err = %v, want INVALID_CONFIG_FILE", err)
	}
}

func TestLoadConfig_InvalidGeometry(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LAYOUT_LINE_HEIGHT", "0")

	_, err := LoadConfig("")
	if GetErrorCode(err) != ErrCodeInvalidGeometry {
		t.Fatalf("err = %v, want INVALID_GEOMETRY", err)
	}
	if !errors.Is(err, layout.ErrInvalidGeometry) {
		t.Error("error should wrap layout.ErrInvalidGeometry")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"page size", func(c *Config) { c.Render.PageSize = "B7" }},
		{"font size", func(c *Config) { c.Render.FontSize = -2 }},
		{"output path", func(c *Config) { c.OutputPath = "" }},
		{"display limit", func(c *Config) { c.DisplayLimit = -1 }},
		{"max file size", func(c *Config) { c.MaxFileSize = 0 }},
		{"history path", func(c *Config) { c.History.DBPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if GetErrorCode(cfg.Validate()) != ErrCodeInvalidValue {
				t.Errorf("Validate() = %v, want INVALID_VALUE", cfg.Validate())
			}
		})
	}

	cfg := DefaultConfig()
	cfg.History.Enabled = false
	cfg.History.DBPath = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled history needs no path: %v", err)
	}
}

func TestConfig_RequireAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	if GetErrorCode(cfg.RequireAPIKey()) != ErrCodeMissingAuth {
		t.Errorf("missing key should be MISSING_AUTH")
	}
	cfg.LLM.APIKey = "AIzaTest"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey: %v", err)
	}
	cfg.LLM.Model = ""
	if GetErrorCode(cfg.RequireAPIKey()) != ErrCodeInvalidValue {
		t.Errorf("missing model should be INVALID_VALUE")
	}
}

func TestConfig_ProcessorConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Model = "gemini-2.5-pro"
	cfg.Layout.LineHeight = 18
	cfg.OutputPath = "x.pdf"

	pc := cfg.ProcessorConfig()
	if pc.SummarizerConfig.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", pc.SummarizerConfig.Model)
	}
	if pc.Geometry.LineHeight != 18 || pc.OutputPath != "x.pdf" {
		t.Errorf("pc = %+v", pc)
	}
	if !strings.HasPrefix(pc.SummarizerConfig.Prompt, "Could you summarize") {
		t.Errorf("Prompt = %q", pc.SummarizerConfig.Prompt)
	}
}

func TestSaveAndLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pdf_summarizer.yaml")
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "AIzaSecret"
	cfg.Layout.MaxWidth = 480

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "AIzaSecret") {
		t.Error("API key must not be written to the config file")
	}

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if loaded.Layout.MaxWidth != 480 || loaded.LLM.Timeout != cfg.LLM.Timeout {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdf_summarizer.yaml")

	created, err := InitConfigFile(path)
	if err != nil || !created {
		t.Fatalf("InitConfigFile = %v, %v; want created", created, err)
	}
	if err := os.WriteFile(path, []byte("display_limit: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = InitConfigFile(path)
	if err != nil || created {
		t.Errorf("second InitConfigFile = %v, %v; want existing file kept", created, err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil || cfg.DisplayLimit != 10 {
		t.Errorf("existing file was overwritten: %+v, %v", cfg, err)
	}
}

func TestGetVersionInfo(t *testing.T) {
	if got := GetVersionInfo(); !strings.HasPrefix(got, Version+" (built ") {
		t.Errorf("GetVersionInfo() = %q", got)
	}
}
