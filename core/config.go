package core

import (
	"errors"
	"fmt"

	"pdf_summarizer/layout"
	"pdf_summarizer/llm"
	"pdf_summarizer/pdfprocessor"
	"pdf_summarizer/render"
)

// APIKeyEnvVars are checked in order for the LLM API key.
var APIKeyEnvVars = []string{"GENAI_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"}

// DefaultMaxFileSize is the largest input PDF accepted (50 MB).
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

// HistoryConfig controls the SQLite run history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// LogConfig controls logging.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Config holds all configuration values
type Config struct {
	LLM     llm.Config                 `yaml:"llm"`
	Layout  layout.Geometry            `yaml:"layout"`
	Render  render.Config              `yaml:"render"`
	Chunker pdfprocessor.ChunkerConfig `yaml:"chunker"`

	OutputPath   string `yaml:"output_path"`
	DisplayLimit int    `yaml:"display_limit"`
	MaxFileSize  int64  `yaml:"max_file_size"`

	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	DevMode bool          `yaml:"dev_mode"`

	// APIKeySource names the environment variable the key came from.
	APIKeySource string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM:          llm.DefaultConfig(),
		Layout:       layout.DefaultGeometry(),
		Render:       render.DefaultConfig(),
		Chunker:      pdfprocessor.DefaultChunkerConfig(),
		OutputPath:   pdfprocessor.DefaultOutputPath,
		DisplayLimit: pdfprocessor.DefaultDisplayLimit,
		MaxFileSize:  DefaultMaxFileSize,
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "./data/history.db",
		},
		Log: LogConfig{
			File:  "pdf_summarizer.log",
			Level: "info",
		},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (skipped when it does not exist) and the environment, then validates it.
// The API key is not required here; see RequireAPIKey.
func LoadConfig(path string) (*Config, error) {
	cfg, err := LoadConfigFileOrDefault(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() {
	if key, source := FirstEnv(APIKeyEnvVars...); key != "" {
		c.LLM.APIKey = key
		c.APIKeySource = source
	}
	c.LLM.BaseURL = GetEnvOrDefault("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = GetEnvOrDefault("LLM_MODEL", c.LLM.Model)
	c.LLM.MaxTokens = ParseIntEnv("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Temperature = float32(ParseFloat64Env("LLM_TEMPERATURE", float64(c.LLM.Temperature)))
	c.LLM.Timeout = ParseDurationEnv("AI_TIMEOUT", c.LLM.Timeout)

	c.Layout.LeftMargin = ParseFloat64Env("LAYOUT_LEFT_MARGIN", c.Layout.LeftMargin)
	c.Layout.TopStart = ParseFloat64Env("LAYOUT_TOP_START", c.Layout.TopStart)
	c.Layout.BottomMargin = ParseFloat64Env("LAYOUT_BOTTOM_MARGIN", c.Layout.BottomMargin)
	c.Layout.MaxWidth = ParseFloat64Env("LAYOUT_MAX_WIDTH", c.Layout.MaxWidth)
	c.Layout.LineHeight = ParseFloat64Env("LAYOUT_LINE_HEIGHT", c.Layout.LineHeight)

	c.Render.FontFamily = GetEnvOrDefault("FONT_FAMILY", c.Render.FontFamily)
	c.Render.FontSize = ParseFloat64Env("FONT_SIZE", c.Render.FontSize)
	c.Render.PageSize = GetEnvOrDefault("PAGE_SIZE", c.Render.PageSize)

	c.OutputPath = GetEnvOrDefault("OUTPUT_PATH", c.OutputPath)
	c.DisplayLimit = ParseIntEnv("DISPLAY_LIMIT", c.DisplayLimit)
	c.MaxFileSize = ParseInt64Env("MAX_FILE_SIZE", c.MaxFileSize)

	c.History.Enabled = ParseBoolEnv("HISTORY_ENABLED", c.History.Enabled)
	c.History.DBPath = GetEnvOrDefault("HISTORY_DB_PATH", c.History.DBPath)

	c.Log.File = GetEnvOrDefault("LOG_FILE", c.Log.File)
	c.Log.Level = GetEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.DevMode = ParseBoolEnv("DEV_MODE", c.DevMode)
}

// Validate checks the settings that do not depend on the command being run.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return ErrInvalidGeometry(err)
	}
	if _, err := render.NormalizePageSize(c.Render.PageSize); err != nil {
		return ErrInvalidValue("PAGE_SIZE", c.Render.PageSize, "unknown page size")
	}
	if c.Render.FontSize <= 0 {
		return ErrInvalidValue("FONT_SIZE", c.Render.FontSize, "must be positive")
	}
	if c.OutputPath == "" {
		return ErrInvalidValue("OUTPUT_PATH", `""`, "must not be empty")
	}
	if c.DisplayLimit < 0 {
		return ErrInvalidValue("DISPLAY_LIMIT", c.DisplayLimit, "must not be negative")
	}
	if c.MaxFileSize <= 0 {
		return ErrInvalidValue("MAX_FILE_SIZE", c.MaxFileSize, "must be positive")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return ErrInvalidValue("HISTORY_DB_PATH", `""`, "required when history is enabled")
	}
	return nil
}

// RequireAPIKey checks the LLM settings needed to summarize.
func (c *Config) RequireAPIKey() error {
	err := c.LLM.Validate()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, llm.ErrMissingAPIKey):
		return ErrMissingAuth("the LLM API")
	default:
		return ErrInvalidValue("LLM_MODEL", fmt.Sprintf("%q", c.LLM.Model), err.Error())
	}
}

// ProcessorConfig returns the pipeline configuration for these settings.
func (c *Config) ProcessorConfig() pdfprocessor.ProcessorConfig {
	pc := pdfprocessor.DefaultProcessorConfig()
	pc.ChunkerConfig = c.Chunker
	pc.SummarizerConfig.Model = c.LLM.Model
	pc.SummarizerConfig.MaxTokens = c.LLM.MaxTokens
	pc.SummarizerConfig.Temperature = c.LLM.Temperature
	pc.Geometry = c.Layout
	pc.RenderConfig = c.Render
	pc.OutputPath = c.OutputPath
	pc.DisplayLimit = c.DisplayLimit
	return pc
}
