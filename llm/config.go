// Package llm builds the chat-completions client used for summarization.
//
// Gemini is reached through its OpenAI-compatible endpoint, so the same
// go-openai client also works against OpenAI or a local server by changing
// BaseURL. The API key travels in Config; nothing is read from the
// environment here.
package llm

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	// GeminiBaseURL is Gemini's OpenAI-compatible API root.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds one summarization request.
	DefaultTimeout = 2 * time.Minute
)

var (
	// ErrMissingAPIKey is returned by Validate when no key is configured.
	ErrMissingAPIKey = errors.New("llm: API key is not set")

	// ErrMissingModel is returned by Validate when no model is configured.
	ErrMissingModel = errors.New("llm: model is not set")
)

// Config is everything needed to talk to the model.
type Config struct {
	APIKey      string        `yaml:"-"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultConfig targets gemini-2.5-flash. The API key is left empty.
func DefaultConfig() Config {
	return Config{
		BaseURL:     GeminiBaseURL,
		Model:       DefaultModel,
		Temperature: 0.3,
		Timeout:     DefaultTimeout,
	}
}

// Validate checks that a request can be made with c. Local endpoints do not
// need an API key.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" && !IsLocalEndpoint(c.BaseURL) {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(c.Model) == "" {
		return ErrMissingModel
	}
	return nil
}

// HTTPClient returns an http.Client with the configured timeout.
func (c Config) HTTPClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// ResolveBaseURL returns the primary URL if non-empty, otherwise the fallback.
//
//	ResolveBaseURL("", llm.GeminiBaseURL) // GeminiBaseURL
func ResolveBaseURL(primary, fallback string) string {
	if primary = strings.TrimSpace(primary); primary != "" {
		return strings.TrimSuffix(primary, "/")
	}
	return fallback
}

// IsLocalEndpoint reports whether url points at this machine, for servers
// such as Ollama or llama.cpp that need no API key.
func IsLocalEndpoint(url string) bool {
	url = strings.ToLower(url)
	for _, pattern := range []string{"127.0.0.1", "localhost", "0.0.0.0", "[::1]"} {
		if strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}
