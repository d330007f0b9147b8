package pdfprocessor

import (
	"strings"
	"unicode/utf8"
)

// charsPerToken matches the EstimateTokenCount heuristic.
const charsPerToken = 4

// ChunkerConfig controls how long documents are split before summarizing.
type ChunkerConfig struct {
	// MaxChunkTokens is the estimated token budget of one chunk.
	MaxChunkTokens int `yaml:"max_chunk_tokens"`

	// MaxChunks caps the number of chunks; 0 is unlimited. Text beyond the
	// cap is dropped and the result is marked Truncated.
	MaxChunks int `yaml:"max_chunks"`

	// OverlapTokens repeats the tail of a chunk at the start of the next.
	OverlapTokens int `yaml:"overlap_tokens"`

	// PreserveParagraphs cuts only between paragraphs when true.
	PreserveParagraphs bool `yaml:"preserve_paragraphs"`

	// ParagraphSeparator defaults to "\n\n".
	ParagraphSeparator string `yaml:"paragraph_separator"`
}

// DefaultChunkerConfig returns a configuration sized for Gemini Flash.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MaxChunkTokens:     20000,
		MaxChunks:          10,
		PreserveParagraphs: true,
		ParagraphSeparator: "\n\n",
	}
}

// ChunkResult is one chunk and its byte offsets in the source text. With
// paragraph overlap the offsets cover only the new paragraphs.
type ChunkResult struct {
	Text            string
	Index           int
	EstimatedTokens int
	StartOffset     int
	EndOffset       int
}

// ChunkerResult holds every chunk of a text.
type ChunkerResult struct {
	Chunks                 []ChunkResult
	TotalChunks            int
	TotalTokensEstimate    int
	Truncated              bool
	OriginalTokensEstimate int
}

// Texts returns the chunk contents in order.
func (r *ChunkerResult) Texts() []string {
	if r == nil || len(r.Chunks) == 0 {
		return nil
	}
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Text
	}
	return texts
}

// Chunker splits text into chunks that fit the model's context. It is
// stateless and safe for concurrent use.
type Chunker struct {
	config ChunkerConfig
}

// NewChunker creates a Chunker, filling in defaults for zero fields.
func NewChunker(config ChunkerConfig) *Chunker {
	if config.ParagraphSeparator == "" {
		config.ParagraphSeparator = "\n\n"
	}
	if config.MaxChunkTokens <= 0 {
		config.MaxChunkTokens = DefaultChunkerConfig().MaxChunkTokens
	}
	return &Chunker{config: config}
}

// Fits reports whether text fits in a single chunk.
func (c *Chunker) Fits(text string) bool {
	return EstimateTokenCount(text) <= c.config.MaxChunkTokens
}

// SplitIntoChunks divides text into chunks. Empty text yields no chunks.
func (c *Chunker) SplitIntoChunks(text string) *ChunkerResult {
	result := &ChunkerResult{OriginalTokensEstimate: EstimateTokenCount(text)}
	if text == "" {
		return result
	}

	if c.config.PreserveParagraphs {
		result.Chunks = c.byParagraphs(text)
	} else {
		result.Chunks = c.byTokens(text)
	}

	if c.config.MaxChunks > 0 && len(result.Chunks) > c.config.MaxChunks {
		result.Chunks = result.Chunks[:c.config.MaxChunks]
		result.Truncated = true
	}

	result.TotalChunks = len(result.Chunks)
	for _, chunk := range result.Chunks {
		result.TotalTokensEstimate += chunk.EstimatedTokens
	}
	return result
}

func (c *Chunker) byParagraphs(text string) []ChunkResult {
	sep := c.config.ParagraphSeparator
	var (
		chunks []ChunkResult
		sb     strings.Builder
		tokens int
		start  int
		offset int
		end    int
	)

	flush := func() {
		body := strings.TrimSuffix(sb.String(), sep)
		chunks = append(chunks, ChunkResult{
			Text:            body,
			Index:           len(chunks),
			EstimatedTokens: EstimateTokenCount(body),
			StartOffset:     start,
			EndOffset:       end,
		})
		sb.Reset()
		tokens = 0
	}

	first := true
	for para := range strings.SplitSeq(text, sep) {
		if !first {
			offset += len(sep)
		}
		first = false

		paraTokens := EstimateTokenCount(para)
		if tokens > 0 && tokens+paraTokens > c.config.MaxChunkTokens {
			prev := strings.TrimSuffix(sb.String(), sep)
			flush()
			start = offset
			if overlap := c.overlap(prev); overlap != "" {
				sb.WriteString(overlap)
				sb.WriteString(sep)
				tokens = EstimateTokenCount(overlap)
			}
		}

		sb.WriteString(para)
		sb.WriteString(sep)
		tokens += paraTokens + EstimateTokenCount(sep)
		offset += len(para)
		end = offset
	}
	if sb.Len() > 0 {
		flush()
	}
	return chunks
}

func (c *Chunker) byTokens(text string) []ChunkResult {
	maxBytes := c.config.MaxChunkTokens * charsPerToken
	overlap := c.config.OverlapTokens * charsPerToken

	var chunks []ChunkResult
	for offset := 0; offset < len(text); {
		end := runeBoundary(text, min(offset+maxBytes, len(text)))
		if end <= offset {
			// A single rune wider than the budget.
			_, size := utf8.DecodeRuneInString(text[offset:])
			end = offset + size
		}
		body := text[offset:end]
		chunks = append(chunks, ChunkResult{
			Text:            body,
			Index:           len(chunks),
			EstimatedTokens: EstimateTokenCount(body),
			StartOffset:     offset,
			EndOffset:       end,
		})

		if overlap > 0 && end < len(text) {
			next := runeBoundary(text, max(end-overlap, 0))
			if next > offset {
				offset = next
				continue
			}
		}
		offset = end
	}
	return chunks
}

func (c *Chunker) overlap(text string) string {
	n := c.config.OverlapTokens * charsPerToken
	if n <= 0 {
		return ""
	}
	if n >= len(text) {
		return text
	}
	return text[runeBoundary(text, len(text)-n):]
}

// runeBoundary moves i back to the start of the rune containing it.
func runeBoundary(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// EstimateChunkCount predicts how many chunks SplitIntoChunks will produce,
// for progress output before chunking.
func (c *Chunker) EstimateChunkCount(text string) int {
	if text == "" {
		return 0
	}
	tokens := EstimateTokenCount(text)
	if tokens <= c.config.MaxChunkTokens {
		return 1
	}
	n := (tokens + c.config.MaxChunkTokens - 1) / c.config.MaxChunkTokens
	if c.config.MaxChunks > 0 && n > c.config.MaxChunks {
		return c.config.MaxChunks
	}
	return n
}
