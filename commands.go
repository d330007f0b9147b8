package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"pdf_summarizer/core"
	"pdf_summarizer/core/validation"
	"pdf_summarizer/db"
	"pdf_summarizer/render"
)

// layout renders an existing text file without calling the model.
func (a *app) layout(args []string) int {
	fs := a.newFlagSet("layout")
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

	text, err := readText(input)
	if err != nil {
		return a.fail(logger, "Failed to read "+input, err)
	}
	if err := validation.CheckOutputPath(cfg.OutputPath); err != nil {
		return a.fail(logger, "Cannot write output", err)
	}

	start := time.Now()
	pages, err := render.RenderFile(text, cfg.Layout, cfg.Render, cfg.OutputPath)
	if err != nil {
		return a.fail(logger, "Failed to lay out "+input, err)
	}
	words := len(strings.Fields(text))
	logger.Info("Layout complete",
		zap.String("input", input),
		zap.String("output", cfg.OutputPath),
		zap.Int("words", words),
		zap.Int("pages", pages),
		zap.Duration("elapsed", time.Since(start)),
	)

	successColor.Fprint(a.stdout, "Saved ")
	fmt.Fprintf(a.stdout, "%s (%d word%s, %d page%s)\n", cfg.OutputPath, words, plural(words), pages, plural(pages))
	return core.ExitCodeSuccess
}

// readText reads path, or stdin when path is "-".
func readText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	if err := validation.CheckFileExists(path); err != nil {
		return "", core.ErrInputNotFound(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// history lists recent runs and optionally prunes old ones.
func (a *app) history(args []string) int {
	fs := a.newFlagSet("history")
	var opts options
	opts.register(fs)
	limit := fs.Int("n", db.DefaultListLimit, "number of runs to show")
	pruneDays := fs.Int("prune", 0, "delete runs older than this many days")
	if code, stop := a.parse(fs, args); stop {
		return code
	}
	if opts.version {
		return a.printVersion()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return a.fail(nil, "Failed to load configuration", err)
	}
	logger := a.newLogger(cfg)
	defer syncLogger(logger, a.stderr)

	if !cfg.History.Enabled {
		labelColor.Fprintln(a.stdout, "Run history is disabled.")
		return core.ExitCodeSuccess
	}

	database, err := db.Open(cfg.History.DBPath)
	if err != nil {
		return a.fail(logger, "Failed to open run history", err)
	}
	defer database.Close()
	repo := db.NewRepository(database)
	ctx := context.Background()

	if *pruneDays > 0 {
		result, err := repo.Prune(ctx, time.Duration(*pruneDays)*24*time.Hour)
		if err != nil {
			return a.fail(logger, "Failed to prune run history", err)
		}
		logger.Info("Pruned run history",
			zap.Int64("deleted", result.Deleted),
			zap.Int64("remaining", result.Remaining),
			zap.Bool("vacuumed", result.Vacuumed),
		)
		fmt.Fprintf(a.stdout, "Deleted %d run%s older than %d day%s.\n",
			result.Deleted, plural(int(result.Deleted)), *pruneDays, plural(*pruneDays))
	}

	runs, err := repo.ListRecentRuns(ctx, *limit)
	if err != nil {
		return a.fail(logger, "Failed to list runs", err)
	}
	total, err := repo.CountRuns(ctx)
	if err != nil {
		return a.fail(logger, "Failed to count runs", err)
	}
	printRuns(a.stdout, runs, total)
	return core.ExitCodeSuccess
}

// initConfig writes the default configuration file.
func (a *app) initConfig(args []string) int {
	fs := a.newFlagSet("init-config")
	if code, stop := a.parse(fs, args); stop {
		return code
	}
	path := core.DefaultConfigFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	created, err := core.InitConfigFile(path)
	if err != nil {
		return a.fail(nil, "Failed to write config file", err)
	}
	if !created {
		actionColor.Fprintf(a.stdout, "%s already exists, leaving it unchanged.\n", path)
		return core.ExitCodeSuccess
	}
	successColor.Fprint(a.stdout, "Wrote ")
	fmt.Fprintln(a.stdout, path)
	labelColor.Fprintln(a.stdout, "Put the API key in .env as GENAI_API_KEY; it is never stored in the config file.")
	return core.ExitCodeSuccess
}
