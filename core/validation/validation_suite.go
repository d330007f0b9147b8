package validation

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"pdf_summarizer/core"
)

// ValidationStep represents a single validation step with its status.
type ValidationStep struct {
	Name    string
	Status  StepStatus
	Message string
	Error   error
	Latency time.Duration
}

// StepStatus represents the status of a validation step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepPassed
	StepFailed
	StepWarning
	StepSkipped
)

// String returns the string representation of a step status.
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepRunning:
		return "running"
	case StepPassed:
		return "passed"
	case StepFailed:
		return "failed"
	case StepWarning:
		return "warning"
	case StepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SuiteResult represents the complete result of validation suite execution.
type SuiteResult struct {
	Steps       []ValidationStep
	TotalSteps  int
	PassedSteps int
	FailedSteps int
	Warnings    int
	Duration    time.Duration
	Success     bool
}

// check is one step. A non-nil error fails the step unless status says
// otherwise.
type check struct {
	name string
	fn   func() (StepStatus, string, error)
}

// ValidationSuite checks that a command can run before any work is done.
type ValidationSuite struct {
	output         io.Writer
	config         *core.Config
	inputPath      string
	requireAPIKey  bool
	showProgress   bool
	failFast       bool
	minOutputSpace int64
}

// NewValidationSuite creates a suite for cfg that writes to stdout.
func NewValidationSuite(cfg *core.Config) *ValidationSuite {
	return &ValidationSuite{
		output:         os.Stdout,
		config:         cfg,
		requireAPIKey:  true,
		showProgress:   true,
		minOutputSpace: MinOutputSpace,
	}
}

// WithOutput sets the output writer for progress messages.
func (s *ValidationSuite) WithOutput(w io.Writer) *ValidationSuite {
	s.output = w
	return s
}

// WithInput sets the PDF to check. No input check runs when empty.
func (s *ValidationSuite) WithInput(path string) *ValidationSuite {
	s.inputPath = path
	return s
}

// WithRequireAPIKey controls whether a missing API key fails the suite.
func (s *ValidationSuite) WithRequireAPIKey(require bool) *ValidationSuite {
	s.requireAPIKey = require
	return s
}

// WithShowProgress enables or disables progress output.
func (s *ValidationSuite) WithShowProgress(show bool) *ValidationSuite {
	s.showProgress = show
	return s
}

// WithFailFast stops validation on first failure if enabled.
func (s *ValidationSuite) WithFailFast(failFast bool) *ValidationSuite {
	s.failFast = failFast
	return s
}

// WithMinOutputSpace sets the free space required at the output location.
func (s *ValidationSuite) WithMinOutputSpace(bytes int64) *ValidationSuite {
	s.minOutputSpace = bytes
	return s
}

// Validate runs every check in order.
func (s *ValidationSuite) Validate() SuiteResult {
	start := time.Now()
	if s.showProgress {
		s.printHeader("PDF Summarizer Startup Checks")
	}

	steps := make([]ValidationStep, 0, 4)
	for _, c := range s.checks() {
		step := s.runStep(c)
		steps = append(steps, step)
		if s.failFast && step.Status == StepFailed {
			break
		}
	}

	result := s.buildResult(steps, start)
	if s.showProgress {
		s.printSummary(result)
	}
	return result
}

func (s *ValidationSuite) checks() []check {
	return []check{
		{"Configuration", s.checkConfig},
		{"API Key", s.checkAPIKey},
		{"Input File", s.checkInput},
		{"Output Location", s.checkOutput},
	}
}

func (s *ValidationSuite) checkConfig() (StepStatus, string, error) {
	if err := s.config.Validate(); err != nil {
		return StepFailed, "", err
	}
	g := s.config.Layout
	return StepPassed, fmt.Sprintf("%s %gpt, %d lines per page", s.config.Render.FontFamily, s.config.Render.FontSize, g.LinesPerPage()), nil
}

func (s *ValidationSuite) checkAPIKey() (StepStatus, string, error) {
	if !s.requireAPIKey {
		return StepSkipped, "not needed for this command", nil
	}
	if err := s.config.RequireAPIKey(); err != nil {
		return StepFailed, "", err
	}
	if s.config.LLM.APIKey == "" {
		return StepPassed, "local endpoint, no key needed", nil
	}
	source := s.config.APIKeySource
	if source == "" {
		source = "config"
	}
	return StepPassed, fmt.Sprintf("%s from %s", MaskKey(s.config.LLM.APIKey), source), nil
}

func (s *ValidationSuite) checkInput() (StepStatus, string, error) {
	if s.inputPath == "" {
		return StepSkipped, "no input file", nil
	}
	if err := CheckPDFFile(s.inputPath, s.config.MaxFileSize); err != nil {
		return StepFailed, "", err
	}
	return StepPassed, s.inputPath, nil
}

func (s *ValidationSuite) checkOutput() (StepStatus, string, error) {
	path := s.config.OutputPath
	if err := CheckOutputPath(path); err != nil {
		return StepFailed, "", err
	}
	if err := CheckDiskSpace(path, s.minOutputSpace); err != nil {
		var spaceErr *DiskSpaceError
		if errors.As(err, &spaceErr) {
			return StepFailed, "", err
		}
		return StepWarning, "free space unknown", err
	}
	return StepPassed, path, nil
}

func (s *ValidationSuite) runStep(c check) ValidationStep {
	if s.showProgress {
		fmt.Fprintf(s.output, "  ◌ %s...", c.name)
	}

	start := time.Now()
	status, message, err := c.fn()
	step := ValidationStep{
		Name:    c.name,
		Status:  status,
		Message: message,
		Error:   err,
		Latency: time.Since(start),
	}

	if s.showProgress {
		s.printStep(step)
	}
	return step
}

func (s *ValidationSuite) buildResult(steps []ValidationStep, start time.Time) SuiteResult {
	result := SuiteResult{
		Steps:      steps,
		TotalSteps: len(steps),
		Duration:   time.Since(start),
		Success:    true,
	}
	for _, step := range steps {
		switch step.Status {
		case StepPassed:
			result.PassedSteps++
		case StepFailed:
			result.FailedSteps++
			result.Success = false
		case StepWarning:
			result.Warnings++
		}
	}
	return result
}

func (s *ValidationSuite) printHeader(title string) {
	fmt.Fprintln(s.output)
	color.New(color.FgCyan, color.Bold).Fprintf(s.output, "━━━ %s ━━━\n", title)
	fmt.Fprintln(s.output)
}

func (s *ValidationSuite) printStep(step ValidationStep) {
	var icon string
	var clr *color.Color

	switch step.Status {
	case StepPassed:
		icon, clr = "✓", color.New(color.FgGreen)
	case StepFailed:
		icon, clr = "✗", color.New(color.FgRed)
	case StepWarning:
		icon, clr = "!", color.New(color.FgYellow)
	case StepSkipped:
		icon, clr = "○", color.New(color.FgHiBlack)
	default:
		icon, clr = "?", color.New(color.FgWhite)
	}

	// Overwrite the "running" line.
	fmt.Fprintf(s.output, "\r")
	clr.Fprintf(s.output, "  %s %s", icon, step.Name)
	if step.Message != "" {
		color.New(color.FgHiBlack).Fprintf(s.output, " - %s", step.Message)
	}
	fmt.Fprintln(s.output)

	if step.Error != nil && (step.Status == StepFailed || step.Status == StepWarning) {
		clr.Fprintf(s.output, "    └─ %s\n", step.Error.Error())
	}
}

func (s *ValidationSuite) printSummary(result SuiteResult) {
	fmt.Fprintln(s.output)
	if result.Success {
		ok := color.New(color.FgGreen, color.Bold)
		ok.Fprintf(s.output, "━━━ Checks Passed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d/%d in %v)",
			result.PassedSteps, result.TotalSteps, result.Duration.Round(time.Millisecond))
		ok.Fprintln(s.output, " ━━━")
	} else {
		fail := color.New(color.FgRed, color.Bold)
		fail.Fprintf(s.output, "━━━ Checks Failed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d passed, %d failed)",
			result.PassedSteps, result.FailedSteps)
		fail.Fprintln(s.output, " ━━━")
	}
	fmt.Fprintln(s.output)
}

// GetFirstError returns the first error from failed steps, or nil if all passed.
func (r SuiteResult) GetFirstError() error {
	for _, step := range r.Steps {
		if step.Status == StepFailed && step.Error != nil {
			return step.Error
		}
	}
	return nil
}

// Summary returns a human-readable summary string.
func (r SuiteResult) Summary() string {
	var sb strings.Builder
	if r.Success {
		sb.WriteString("Validation Passed: ")
	} else {
		sb.WriteString("Validation Failed: ")
	}
	fmt.Fprintf(&sb, "%d/%d checks passed", r.PassedSteps, r.TotalSteps)
	if r.FailedSteps > 0 {
		fmt.Fprintf(&sb, ", %d failed", r.FailedSteps)
	}
	if r.Warnings > 0 {
		fmt.Fprintf(&sb, ", %d warnings", r.Warnings)
	}
	fmt.Fprintf(&sb, " (took %v)", r.Duration.Round(time.Millisecond))
	return sb.String()
}

// MaskKey shows the first four and last four characters of key.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "…" + key[len(key)-4:]
}
