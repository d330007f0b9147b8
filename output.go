package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"pdf_summarizer/core"
	"pdf_summarizer/db"
	"pdf_summarizer/pdfprocessor"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgHiBlack)
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	actionColor  = color.New(color.FgYellow)
)

// stageLabels are the progress line prefixes for each pipeline stage.
var stageLabels = map[string]string{
	pdfprocessor.StageExtraction:  "Extracting",
	pdfprocessor.StageSummarizing: "Summarizing",
	pdfprocessor.StageLayout:      "Laying out",
	pdfprocessor.StageRendering:   "Rendering",
}

func printHeader(w io.Writer) {
	headerColor.Fprintln(w, "PDF Summarizer")
}

func printSelected(w io.Writer, path string) {
	labelColor.Fprint(w, "Selected file: ")
	fmt.Fprintln(w, path)
}

// progressPrinter prints one line per finished stage.
func progressPrinter(w io.Writer) pdfprocessor.ProgressCallback {
	return func(stage string, progress float64, message string) {
		if progress < 1.0 {
			return
		}
		label := stageLabels[stage]
		if label == "" {
			label = stage
		}
		successColor.Fprint(w, "  ✓ ")
		fmt.Fprintf(w, "%-12s", label)
		labelColor.Fprintln(w, message)
	}
}

// printSummary shows the truncated summary the way the summary panel did,
// followed by where the full text was written.
func printSummary(w io.Writer, result *pdfprocessor.ProcessResult) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, "Summary")
	fmt.Fprintln(w, result.DisplayText)
	fmt.Fprintln(w)
	successColor.Fprint(w, "Summary saved to ")
	fmt.Fprintf(w, "%s (%d page%s, %v)\n", result.OutputPath, result.OutputPages,
		plural(result.OutputPages), result.ProcessingTime.Round(time.Millisecond))
}

// printError shows err with the ConfigError action, when there is one, on
// its own line.
func printError(w io.Writer, msg string, err error) {
	errorColor.Fprintf(w, "Error: %s\n", msg)
	if configErr, ok := core.IsConfigError(err); ok {
		fmt.Fprintf(w, "  %s\n", configErr.Message)
		if configErr.Action != "" {
			actionColor.Fprintf(w, "  %s\n", configErr.Action)
		}
		return
	}
	fmt.Fprintf(w, "  %v\n", err)
}

// printRuns lists history rows, newest first.
func printRuns(w io.Writer, runs []db.SummaryRun, total int64) {
	if len(runs) == 0 {
		labelColor.Fprintln(w, "No runs recorded yet.")
		return
	}
	headerColor.Fprintf(w, "Recent runs (%d of %d)\n", len(runs), total)
	for _, run := range runs {
		status := successColor.Sprint("✓")
		if !run.Succeeded() {
			status = errorColor.Sprint("✗")
		}
		fmt.Fprintf(w, "%s %s  %s", status, labelColor.Sprint(humanize.Time(run.CreatedAt)), run.SourcePath)
		if run.Succeeded() {
			fmt.Fprintf(w, " → %s (%d page%s, %s tokens, %v)\n", run.OutputPath, run.OutputPages,
				plural(run.OutputPages), humanize.Comma(int64(run.InputTokens+run.OutputTokens)),
				(time.Duration(run.DurationMS) * time.Millisecond).Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(w, " %s\n", errorColor.Sprint(firstLine(run.ErrorMessage)))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// isSyncUnsupported reports the error zap returns when syncing a terminal.
func isSyncUnsupported(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
