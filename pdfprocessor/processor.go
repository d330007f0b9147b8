package pdfprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdf_summarizer/layout"
	"pdf_summarizer/render"
)

// Pipeline stage names reported to ProgressCallback and StageError.
const (
	StageExtraction  = "extraction"
	StageSummarizing = "summarizing"
	StageLayout      = "layout"
	StageRendering   = "rendering"
)

// DefaultOutputPath is where the summary PDF is written.
const DefaultOutputPath = "Summary.pdf"

// ErrProcessorNotConfigured is returned when the processor has no summarizer.
var ErrProcessorNotConfigured = errors.New("processor not properly configured")

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ProcessorConfig holds configuration for every stage.
type ProcessorConfig struct {
	ExtractorConfig  ExtractorConfig
	ChunkerConfig    ChunkerConfig
	SummarizerConfig SummarizerConfig
	Geometry         layout.Geometry
	RenderConfig     render.Config

	// OutputPath is the summary PDF; defaults to DefaultOutputPath.
	OutputPath string

	// DisplayLimit truncates ProcessResult.DisplayText; 0 disables.
	DisplayLimit int
}

// DefaultProcessorConfig returns the configuration used by the CLI.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		ExtractorConfig:  DefaultExtractorConfig(),
		ChunkerConfig:    DefaultChunkerConfig(),
		SummarizerConfig: DefaultSummarizerConfig(),
		Geometry:         layout.DefaultGeometry(),
		RenderConfig:     render.DefaultConfig(),
		OutputPath:       DefaultOutputPath,
		DisplayLimit:     DefaultDisplayLimit,
	}
}

// ProcessResult is the outcome of a full run.
type ProcessResult struct {
	Summary     string
	DisplayText string
	OutputPath  string
	OutputPages int

	ExtractionResult *ExtractionResult
	SummaryResult    *SummaryResult

	ProcessingTime time.Duration
	Stages         ProcessingStages
}

// ProcessingStages holds the time spent in each stage.
type ProcessingStages struct {
	ExtractionTime  time.Duration
	SummarizingTime time.Duration
	LayoutTime      time.Duration
	RenderingTime   time.Duration
}

// ProgressCallback receives stage progress from 0.0 to 1.0.
type ProgressCallback func(stage string, progress float64, message string)

// Processor runs extraction, summarization, layout and rendering.
type Processor struct {
	config     ProcessorConfig
	extractor  *Extractor
	summarizer *Summarizer
	progress   ProgressCallback
}

// NewProcessor creates a Processor that summarizes with client.
func NewProcessor(config ProcessorConfig, client ChatClient) *Processor {
	if config.OutputPath == "" {
		config.OutputPath = DefaultOutputPath
	}
	var summarizer *Summarizer
	if client != nil {
		summarizer = NewSummarizer(config.SummarizerConfig, client, NewChunker(config.ChunkerConfig))
	}
	return &Processor{
		config:     config,
		extractor:  NewExtractor(config.ExtractorConfig),
		summarizer: summarizer,
	}
}

// SetProgressCallback sets or replaces the progress callback.
func (p *Processor) SetProgressCallback(progress ProgressCallback) {
	p.progress = progress
}

// Config returns the processor configuration.
func (p *Processor) Config() ProcessorConfig {
	return p.config
}

// Process summarizes the PDF at pdfPath and writes the summary PDF.
//
//	result, err := processor.Process(ctx, "report.pdf")
//	var stageErr *StageError
//	if errors.As(err, &stageErr) {
//	    log.Printf("stage %s: %v", stageErr.Stage, stageErr.Err)
//	}
func (p *Processor) Process(ctx context.Context, pdfPath string) (*ProcessResult, error) {
	if p.summarizer == nil {
		return nil, ErrProcessorNotConfigured
	}

	start := time.Now()
	result := &ProcessResult{}

	p.reportProgress(StageExtraction, 0.0, "Extracting text from "+pdfPath)
	stageStart := time.Now()
	extraction, err := p.extractor.Extract(pdfPath)
	if err != nil {
		return nil, &StageError{Stage: StageExtraction, Err: err}
	}
	result.ExtractionResult = extraction
	result.Stages.ExtractionTime = time.Since(stageStart)
	p.reportProgress(StageExtraction, 1.0, fmt.Sprintf("Extracted %d of %d pages, ~%d tokens",
		extraction.ExtractedPages, extraction.TotalPages, extraction.EstimatedTokens))

	if err := p.summarizeAndRender(ctx, extraction.Text, result); err != nil {
		return nil, err
	}
	result.ProcessingTime = time.Since(start)
	return result, nil
}

// ProcessText summarizes already extracted text and writes the summary PDF.
func (p *Processor) ProcessText(ctx context.Context, text string) (*ProcessResult, error) {
	if p.summarizer == nil {
		return nil, ErrProcessorNotConfigured
	}

	start := time.Now()
	result := &ProcessResult{}
	if err := p.summarizeAndRender(ctx, text, result); err != nil {
		return nil, err
	}
	result.ProcessingTime = time.Since(start)
	return result, nil
}

func (p *Processor) summarizeAndRender(ctx context.Context, text string, result *ProcessResult) error {
	p.reportProgress(StageSummarizing, 0.0, "Sending text to "+p.summarizer.Model())
	stageStart := time.Now()
	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		return &StageError{Stage: StageSummarizing, Err: err}
	}
	result.SummaryResult = summary
	result.Summary = summary.Content
	result.DisplayText = DisplayText(summary.Content, p.config.DisplayLimit)
	result.Stages.SummarizingTime = time.Since(stageStart)
	p.reportProgress(StageSummarizing, 1.0, fmt.Sprintf("Summary received, %d chunk(s)", summary.ChunksProcessed))

	pages, err := p.renderSummary(summary.Content, result)
	if err != nil {
		return err
	}
	result.OutputPath = p.config.OutputPath
	result.OutputPages = pages
	return nil
}

func (p *Processor) renderSummary(summary string, result *ProcessResult) (int, error) {
	p.reportProgress(StageLayout, 0.0, "Laying out summary")
	stageStart := time.Now()
	canvas, err := render.NewCanvas(p.config.RenderConfig)
	if err != nil {
		return 0, &StageError{Stage: StageLayout, Err: err}
	}
	flow, err := layout.New(summary, p.config.Geometry, canvas.Measure)
	if err != nil {
		return 0, &StageError{Stage: StageLayout, Err: err}
	}
	result.Stages.LayoutTime = time.Since(stageStart)
	p.reportProgress(StageLayout, 1.0, fmt.Sprintf("%d page(s)", flow.PageCount()))

	p.reportProgress(StageRendering, 0.0, "Writing "+p.config.OutputPath)
	stageStart = time.Now()
	pages, err := canvas.Draw(flow)
	if err != nil {
		return 0, &StageError{Stage: StageRendering, Err: err}
	}
	if err := canvas.WriteFile(p.config.OutputPath); err != nil {
		return 0, &StageError{Stage: StageRendering, Err: err}
	}
	result.Stages.RenderingTime = time.Since(stageStart)
	p.reportProgress(StageRendering, 1.0, fmt.Sprintf("Summary saved to %s", p.config.OutputPath))
	return pages, nil
}

func (p *Processor) reportProgress(stage string, progress float64, message string) {
	if p.progress != nil {
		p.progress(stage, progress, message)
	}
}
