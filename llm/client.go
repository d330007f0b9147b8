package llm

import (
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// NewClient returns a go-openai client for cfg. A nil httpClient uses
// cfg.HTTPClient.
//
//	cfg := llm.DefaultConfig()
//	cfg.APIKey = apiKey
//	client, err := llm.NewClient(cfg, nil)
func NewClient(cfg Config, httpClient *http.Client) (*openai.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = ResolveBaseURL(cfg.BaseURL, GeminiBaseURL)
	if httpClient == nil {
		httpClient = cfg.HTTPClient()
	}
	clientConfig.HTTPClient = httpClient

	return openai.NewClientWithConfig(clientConfig), nil
}
