package pdfprocessor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyText is returned when there is nothing to summarize.
var ErrEmptyText = errors.New("no text provided for summarization")

// ErrEmptyResponse is returned when the model answers with no content.
var ErrEmptyResponse = errors.New("AI returned empty response")

// ChatClient is the part of *openai.Client the Summarizer uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// SummarizerConfig holds the model settings and prompts.
type SummarizerConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`

	// Prompt prefixes the document when it fits in one message.
	Prompt string `yaml:"prompt"`

	// SystemPromptTemplate announces a chunked document; %d is the chunk count.
	SystemPromptTemplate string `yaml:"system_prompt_template"`

	// ChunkTemplate wraps each chunk: number, total, content, number.
	ChunkTemplate string `yaml:"chunk_template"`

	// FinalPrompt asks for the summary after the last chunk.
	FinalPrompt string `yaml:"final_prompt"`
}

// DefaultSummarizerConfig returns the prompts used by the CLI.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		Model:                "gemini-2.5-flash",
		MaxTokens:            0,
		Temperature:          0.3,
		Prompt:               "Could you summarize the following text:\n",
		SystemPromptTemplate: "You will receive %d chunks of a document. Do not respond until you receive the final chunk. After the last chunk, I will ask you for a summary of the entire document.",
		ChunkTemplate:        "#--- chunk %d of %d ---#\n%s\n#--- end of chunk %d ---#",
		FinalPrompt:          "You have now received all chunks. Could you summarize the entire document as plain text paragraphs?",
	}
}

// SummaryResult is the outcome of one summarization request.
type SummaryResult struct {
	Content string

	// PromptTokens and CompletionTokens come from the API usage block when
	// the provider reports it, otherwise they are estimates.
	PromptTokens     int
	CompletionTokens int

	ChunksProcessed int
	Truncated       bool
	Model           string
}

// Summarizer asks a chat model for a summary of a document.
type Summarizer struct {
	config  SummarizerConfig
	client  ChatClient
	chunker *Chunker
}

// NewSummarizer creates a Summarizer. A nil chunker uses DefaultChunkerConfig.
func NewSummarizer(config SummarizerConfig, client ChatClient, chunker *Chunker) *Summarizer {
	if chunker == nil {
		chunker = NewChunker(DefaultChunkerConfig())
	}
	return &Summarizer{config: config, client: client, chunker: chunker}
}

// Model returns the configured model name.
func (s *Summarizer) Model() string {
	return s.config.Model
}

// Summarize sends text to the model in one request. Text that fits in a
// single chunk is sent as one message; longer text is split and sent with
// the chunk protocol.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var (
		messages  []openai.ChatCompletionMessage
		chunks    = 1
		truncated bool
	)
	if s.chunker.Fits(text) {
		messages = []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: s.config.Prompt + text,
		}}
	} else {
		split := s.chunker.SplitIntoChunks(text)
		messages = s.chunkMessages(split.Texts())
		chunks = split.TotalChunks
		truncated = split.Truncated
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("AI summarization failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	// Leading and trailing newlines are part of the layout.
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}

	result := &SummaryResult{
		Content:          content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		ChunksProcessed:  chunks,
		Truncated:        truncated,
		Model:            s.config.Model,
	}
	if resp.Model != "" {
		result.Model = resp.Model
	}
	if result.PromptTokens == 0 {
		result.PromptTokens = estimateMessageTokens(messages)
	}
	if result.CompletionTokens == 0 {
		result.CompletionTokens = EstimateTokenCount(content)
	}
	return result, nil
}

func (s *Summarizer) chunkMessages(chunks []string) []openai.ChatCompletionMessage {
	total := len(chunks)
	messages := make([]openai.ChatCompletionMessage, 0, total+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(s.config.SystemPromptTemplate, total),
	})
	for i, chunk := range chunks {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(s.config.ChunkTemplate, i+1, total, chunk, i+1),
		})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: s.config.FinalPrompt,
	})
}

func estimateMessageTokens(messages []openai.ChatCompletionMessage) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokenCount(m.Content)
	}
	return total
}
