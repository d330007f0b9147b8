package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"pdf_summarizer/core"
	"pdf_summarizer/core/validation"
	"pdf_summarizer/db"
	"pdf_summarizer/llm"
	"pdf_summarizer/logging"
	"pdf_summarizer/pdfprocessor"
	"pdf_summarizer/render"
	"pdf_summarizer/shutdown"
)

// Shutdown handler priorities; lower runs first.
const (
	priorityStaleOutput = 10
	priorityHistory     = 20
)

// summarize extracts, summarizes and lays out one PDF.
func (a *app) summarize(args []string) int {
	fs := a.newFlagSet("summarize")
	var opts options
	opts.register(fs)
	if code, stop := a.parse(fs, args); stop {
		return code
	}
	if opts.version {
		return a.printVersion()
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return core.ExitCodeUsage
	}
	input := fs.Arg(0)

	cfg, err := opts.loadConfig()
	if err != nil {
		return a.fail(nil, "Failed to load configuration", err)
	}
	logger := a.newLogger(cfg)
	defer syncLogger(logger, a.stderr)

	printHeader(a.stdout)
	printSelected(a.stdout, input)

	if code := a.runStartupValidation(logger, cfg, input); code != core.ExitCodeSuccess {
		return code
	}

	mgr := shutdown.NewManager(context.Background(), logger)
	mgr.Register("stale-output", priorityStaleOutput, shutdown.RemoveStale(logger, render.TempGlob(cfg.OutputPath)))
	mgr.Start()
	defer mgr.Shutdown()

	history := openHistory(cfg, logger, mgr)

	client, err := llm.NewClient(cfg.LLM, nil)
	if err != nil {
		return a.fail(logger, "Failed to create LLM client", err)
	}

	logger.Info("Starting summary",
		zap.String("input", input),
		zap.String("output", cfg.OutputPath),
		zap.String("model", cfg.LLM.Model),
		zap.String("base_url", cfg.LLM.BaseURL),
	)

	processor := pdfprocessor.NewProcessor(cfg.ProcessorConfig(), client)
	processor.SetProgressCallback(a.progress(logger))

	start := time.Now()
	result, err := processor.Process(mgr.Context(), input)
	run := runRecord(input, cfg, result, err, time.Since(start))
	history.record(run)

	if err != nil {
		if mgr.Interrupted() {
			logger.Warn("Summary cancelled", zap.String("run_id", run.RunID))
			errorColor.Fprintln(a.stderr, "Cancelled.")
			return shutdown.ExitCodeForSignal(mgr.Signal())
		}
		return a.fail(logger, "Failed to summarize "+input, err)
	}

	logger.Info("Summary complete", logging.RunFields(logging.RunMetrics{
		RunID:            run.RunID,
		Input:            input,
		Model:            result.SummaryResult.Model,
		InputPages:       result.ExtractionResult.TotalPages,
		Chunks:           result.SummaryResult.ChunksProcessed,
		PromptTokens:     result.SummaryResult.PromptTokens,
		CompletionTokens: result.SummaryResult.CompletionTokens,
		SummaryChars:     len([]rune(result.Summary)),
		OutputPages:      result.OutputPages,
		Duration:         result.ProcessingTime,
	}))
	printSummary(a.stdout, result)
	return core.ExitCodeSuccess
}

// runStartupValidation prints the startup checklist and returns the exit
// code to stop with, or ExitCodeSuccess.
func (a *app) runStartupValidation(logger *logging.Logger, cfg *core.Config, input string) int {
	result := validation.NewValidationSuite(cfg).
		WithOutput(a.stdout).
		WithInput(input).
		WithRequireAPIKey(true).
		Validate()

	if !result.Success {
		for _, step := range result.Steps {
			if step.Status == validation.StepFailed {
				logger.Error("Validation step failed",
					zap.String("step", step.Name),
					zap.Error(step.Error),
				)
			}
		}
		return core.ExitCodeFor(result.GetFirstError())
	}

	logger.Debug("Startup validation passed",
		zap.Int("checks_passed", result.PassedSteps),
		zap.Duration("duration", result.Duration),
	)
	return core.ExitCodeSuccess
}

// progress prints stage lines and logs stage timings.
func (a *app) progress(logger *logging.Logger) pdfprocessor.ProgressCallback {
	printer := progressPrinter(a.stdout)
	starts := make(map[string]time.Time)
	return func(stage string, progress float64, message string) {
		if progress == 0 {
			starts[stage] = time.Now()
			logger.Debug(message, zap.String("stage", stage))
		} else if progress >= 1.0 {
			logger.Info(message, logging.StageFields(stage, time.Since(starts[stage]))...)
		}
		printer(stage, progress, message)
	}
}

// runRecord describes a finished or failed run for the history table.
func runRecord(input string, cfg *core.Config, result *pdfprocessor.ProcessResult, err error, elapsed time.Duration) db.SummaryRun {
	run := db.SummaryRun{
		RunID:      db.NewRunID(),
		SourcePath: input,
		OutputPath: cfg.OutputPath,
		Model:      cfg.LLM.Model,
		DurationMS: elapsed.Milliseconds(),
	}
	if err != nil {
		run.Status = db.StatusFailed
		run.ErrorMessage = err.Error()
		var stageErr *pdfprocessor.StageError
		if errors.As(err, &stageErr) && stageErr.Stage == pdfprocessor.StageExtraction {
			run.OutputPath = ""
		}
		return run
	}

	run.Status = db.StatusSuccess
	run.OutputPath = result.OutputPath
	run.OutputPages = result.OutputPages
	if result.ExtractionResult != nil {
		run.SourcePages = result.ExtractionResult.TotalPages
	}
	if result.SummaryResult != nil {
		run.Model = result.SummaryResult.Model
		run.InputTokens = result.SummaryResult.PromptTokens
		run.OutputTokens = result.SummaryResult.CompletionTokens
	}
	return run
}

// historyRecorder writes runs to the history database. A nil recorder
// drops them.
type historyRecorder struct {
	repo   *db.Repository
	logger *logging.Logger
}

// openHistory opens the history database when enabled. History is best
// effort: a database that cannot be opened is logged and the run goes on.
func openHistory(cfg *core.Config, logger *logging.Logger, mgr *shutdown.Manager) *historyRecorder {
	if !cfg.History.Enabled {
		return nil
	}
	database, err := db.Open(cfg.History.DBPath)
	if err != nil {
		logger.Warn("Run history disabled", zap.String("path", cfg.History.DBPath), zap.Error(err))
		return nil
	}
	mgr.Register("history-db", priorityHistory, func(context.Context) error {
		return database.Close()
	})
	return &historyRecorder{repo: db.NewRepository(database), logger: logger}
}

func (h *historyRecorder) record(run db.SummaryRun) {
	if h == nil {
		return
	}
	// The command context may already be cancelled by a signal.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	saved, err := h.repo.InsertRun(ctx, run)
	if err != nil {
		h.logger.Warn("Failed to record run", zap.String("run_id", run.RunID), zap.Error(err))
		return
	}
	h.logger.Debug("Recorded run", zap.String("run_id", saved.RunID), zap.Int64("id", saved.ID))
}
