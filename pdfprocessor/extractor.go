package pdfprocessor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ErrNoPDFContent is returned when no page of a PDF yields text.
var ErrNoPDFContent = errors.New("no text extracted from the document")

// ErrEmptyPath is returned when an empty file path is provided.
var ErrEmptyPath = errors.New("empty PDF path provided")

// ErrNilReader is returned by ExtractFromReader for a nil reader.
var ErrNilReader = errors.New("nil PDF reader provided")

// PageResult is the text of one PDF page.
type PageResult struct {
	// PageNumber is 1-indexed.
	PageNumber      int
	Text            string
	EstimatedTokens int
	Error           error
}

// ExtractionResult is the text of a whole PDF together with per-page detail.
type ExtractionResult struct {
	Text            string
	TotalPages      int
	ExtractedPages  int
	SkippedPages    int
	EstimatedTokens int
	Pages           []PageResult
	Errors          []error
}

// ExtractorConfig controls text extraction.
type ExtractorConfig struct {
	// SkipEmptyPages leaves pages without text out of Pages.
	SkipEmptyPages bool `yaml:"skip_empty_pages"`

	// PageSeparator is inserted between page texts. Defaults to "\n\n".
	PageSeparator string `yaml:"page_separator"`

	// ContinueOnError keeps going when a single page fails to decode.
	ContinueOnError bool `yaml:"continue_on_error"`

	// MaxPages limits extraction to the first N pages; 0 reads all of them.
	MaxPages int `yaml:"max_pages"`
}

// DefaultExtractorConfig returns the configuration used by the CLI.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		SkipEmptyPages:  true,
		PageSeparator:   "\n\n",
		ContinueOnError: true,
	}
}

// Extractor reads the plain text of PDF files. It is stateless and safe for
// concurrent use.
type Extractor struct {
	config ExtractorConfig
}

// NewExtractor creates an Extractor, filling in the default separator.
func NewExtractor(config ExtractorConfig) *Extractor {
	if config.PageSeparator == "" {
		config.PageSeparator = "\n\n"
	}
	return &Extractor{config: config}
}

// NewDefaultExtractor creates an Extractor with DefaultExtractorConfig.
func NewDefaultExtractor() *Extractor {
	return NewExtractor(DefaultExtractorConfig())
}

// Extract opens the PDF at path and returns its text. When no page yields
// text the partial result is returned together with ErrNoPDFContent.
func (e *Extractor) Extract(path string) (*ExtractionResult, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	return e.extract(r)
}

// ExtractFromReader extracts text from an already opened PDF.
func (e *Extractor) ExtractFromReader(r *pdf.Reader) (*ExtractionResult, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	return e.extract(r)
}

func (e *Extractor) extract(r *pdf.Reader) (*ExtractionResult, error) {
	total := r.NumPage()
	limit := total
	if e.config.MaxPages > 0 && e.config.MaxPages < total {
		limit = e.config.MaxPages
	}

	result := &ExtractionResult{
		TotalPages: total,
		Pages:      make([]PageResult, 0, limit),
	}

	var sb strings.Builder
	// ledongthuc/pdf pages are 1-indexed.
	for i := 1; i <= limit; i++ {
		page := e.extractPage(r, i)

		if page.Error != nil {
			result.Pages = append(result.Pages, page)
			result.Errors = append(result.Errors, fmt.Errorf("page %d: %w", i, page.Error))
			result.SkippedPages++
			if !e.config.ContinueOnError {
				return result, page.Error
			}
			continue
		}

		if page.Text == "" {
			result.SkippedPages++
			if !e.config.SkipEmptyPages {
				result.Pages = append(result.Pages, page)
			}
			continue
		}

		result.Pages = append(result.Pages, page)
		result.ExtractedPages++
		if sb.Len() > 0 {
			sb.WriteString(e.config.PageSeparator)
		}
		sb.WriteString(page.Text)
	}

	result.Text = sb.String()
	result.EstimatedTokens = EstimateTokenCount(result.Text)
	if result.Text == "" {
		return result, ErrNoPDFContent
	}
	return result, nil
}

func (e *Extractor) extractPage(r *pdf.Reader, index int) PageResult {
	result := PageResult{PageNumber: index}

	p := r.Page(index)
	if p.V.IsNull() {
		return result
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		result.Error = fmt.Errorf("failed to extract text: %w", err)
		return result
	}

	// Decomposed accents from some producers would otherwise be measured and
	// drawn as two glyphs.
	result.Text = norm.NFC.String(strings.TrimSpace(text))
	result.EstimatedTokens = EstimateTokenCount(result.Text)
	return result
}

// ExtractText extracts the text of the PDF at path with the default
// configuration.
func ExtractText(path string) (string, error) {
	result, err := NewDefaultExtractor().Extract(path)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
