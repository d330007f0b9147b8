package pdfprocessor

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewChunker_Defaults(t *testing.T) {
	c := NewChunker(ChunkerConfig{})
	if c.config.ParagraphSeparator != "\n\n" {
		t.Errorf("ParagraphSeparator = %q, want %q", c.config.ParagraphSeparator, "\n\n")
	}
	if c.config.MaxChunkTokens != DefaultChunkerConfig().MaxChunkTokens {
		t.Errorf("MaxChunkTokens = %d, want default", c.config.MaxChunkTokens)
	}
}

func TestChunker_SplitIntoChunks_Empty(t *testing.T) {
	result := NewChunker(DefaultChunkerConfig()).SplitIntoChunks("")
	if result.TotalChunks != 0 || len(result.Chunks) != 0 {
		t.Errorf("TotalChunks = %d, want 0", result.TotalChunks)
	}
	if result.Texts() != nil {
		t.Error("Texts() should be nil for no chunks")
	}
}

func TestChunker_SplitIntoChunks_SingleParagraph(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 1000, PreserveParagraphs: true})
	text := "This is a single paragraph of text that should not be chunked."

	result := c.SplitIntoChunks(text)
	if result.TotalChunks != 1 {
		t.Fatalf("TotalChunks = %d, want 1", result.TotalChunks)
	}
	if got := result.Chunks[0]; got.Text != text || got.StartOffset != 0 || got.EndOffset != len(text) {
		t.Errorf("chunk = %+v", got)
	}
}

func TestChunker_SplitIntoChunks_Paragraphs(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 50, PreserveParagraphs: true})
	paras := []string{
		strings.Repeat("a", 100),
		strings.Repeat("b", 100),
		strings.Repeat("c", 100),
	}
	text := strings.Join(paras, "\n\n")

	result := c.SplitIntoChunks(text)
	if result.TotalChunks != 2 {
		t.Fatalf("TotalChunks = %d, want 2", result.TotalChunks)
	}
	if want := paras[0] + "\n\n" + paras[1]; result.Chunks[0].Text != want {
		t.Errorf("chunk 0 = %q, want first two paragraphs", result.Chunks[0].Text)
	}
	if result.Chunks[1].Text != paras[2] {
		t.Errorf("chunk 1 = %q, want %q", result.Chunks[1].Text, paras[2])
	}
	for i, chunk := range result.Chunks {
		if chunk.Index != i {
			t.Errorf("Chunks[%d].Index = %d", i, chunk.Index)
		}
		if text[chunk.StartOffset:chunk.EndOffset] != chunk.Text {
			t.Errorf("Chunks[%d] offsets do not match text", i)
		}
	}
}

func TestChunker_SplitIntoChunks_MaxChunks(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 10, MaxChunks: 3})
	result := c.SplitIntoChunks(strings.Repeat("word ", 500))

	if result.TotalChunks != 3 {
		t.Errorf("TotalChunks = %d, want 3", result.TotalChunks)
	}
	if !result.Truncated {
		t.Error("Truncated should be true when MaxChunks limits output")
	}
}

func TestChunker_SplitIntoChunks_ByTokens(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 5})
	text := strings.Repeat("x", 45)

	result := c.SplitIntoChunks(text)
	if result.TotalChunks != 3 {
		t.Fatalf("TotalChunks = %d, want 3", result.TotalChunks)
	}
	if strings.Join(result.Texts(), "") != text {
		t.Error("chunks should reassemble the text")
	}
}

func TestChunker_SplitIntoChunks_ByTokensKeepsRunes(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 1})
	text := strings.Repeat("é", 20)

	result := c.SplitIntoChunks(text)
	for i, chunk := range result.Chunks {
		if !utf8.ValidString(chunk.Text) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk.Text)
		}
	}
	if strings.Join(result.Texts(), "") != text {
		t.Error("chunks should reassemble the text")
	}
}

func TestChunker_SplitIntoChunks_Overlap(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 5, OverlapTokens: 1})
	text := strings.Repeat("0123456789", 4)

	result := c.SplitIntoChunks(text)
	if result.TotalChunks < 2 {
		t.Fatalf("TotalChunks = %d, want at least 2", result.TotalChunks)
	}
	first, second := result.Chunks[0], result.Chunks[1]
	if second.StartOffset != first.EndOffset-4 {
		t.Errorf("second chunk starts at %d, want %d", second.StartOffset, first.EndOffset-4)
	}
}

func TestChunker_Fits(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 10})
	if !c.Fits(strings.Repeat("a", 40)) {
		t.Error("40 bytes should fit in 10 tokens")
	}
	if c.Fits(strings.Repeat("a", 44)) {
		t.Error("44 bytes should not fit in 10 tokens")
	}
}

func TestChunker_EstimateChunkCount(t *testing.T) {
	c := NewChunker(ChunkerConfig{MaxChunkTokens: 10, MaxChunks: 3})
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{strings.Repeat("a", 40), 1},
		{strings.Repeat("a", 80), 2},
		{strings.Repeat("a", 400), 3},
	}
	for _, tt := range tests {
		if got := c.EstimateChunkCount(tt.text); got != tt.want {
			t.Errorf("EstimateChunkCount(len %d) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}
