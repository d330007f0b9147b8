package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"pdf_summarizer/core"
	"pdf_summarizer/logging"
)

const usageText = `Usage:
  pdf_summarizer [flags] <file.pdf>          summarize a PDF into Summary.pdf
  pdf_summarizer layout [flags] <file.txt>   lay out a text file as a PDF, no LLM
  pdf_summarizer history [-n N] [-prune D]   list recent runs
  pdf_summarizer init-config [path]          write a default config file

Flags:
  -config path   YAML config file (default pdf_summarizer.yaml)
  -o path        output PDF (default Summary.pdf)
  -model name    LLM model
  -no-history    do not record the run
  -dev           verbose console logging
  -version       print the version and exit
`

// app holds the writers every command prints to.
type app struct {
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// run dispatches to a command and returns the process exit code.
func (a *app) run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "summarize":
			return a.summarize(args[1:])
		case "layout":
			return a.layout(args[1:])
		case "history":
			return a.history(args[1:])
		case "init-config":
			return a.initConfig(args[1:])
		case "help":
			fmt.Fprint(a.stdout, usageText)
			return core.ExitCodeSuccess
		}
	}
	return a.summarize(args)
}

// options are the flags shared by the commands that load configuration.
type options struct {
	configPath string
	output     string
	model      string
	noHistory  bool
	dev        bool
	version    bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", core.DefaultConfigFile, "YAML config file")
	fs.StringVar(&o.output, "o", "", "output PDF path")
	fs.StringVar(&o.model, "model", "", "LLM model")
	fs.BoolVar(&o.noHistory, "no-history", false, "do not record the run")
	fs.BoolVar(&o.dev, "dev", false, "verbose console logging")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
}

// loadConfig layers the flags over file and environment configuration.
func (o *options) loadConfig() (*core.Config, error) {
	cfg, err := core.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.output != "" {
		cfg.OutputPath = o.output
	}
	if o.model != "" {
		cfg.LLM.Model = o.model
	}
	if o.noHistory {
		cfg.History.Enabled = false
	}
	if o.dev {
		cfg.DevMode = true
	}
	return cfg, nil
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() { fmt.Fprint(a.stderr, usageText) }
	return fs
}

// parse parses args and returns the exit code to stop with, if any.
func (a *app) parse(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitCodeSuccess, true
		}
		return core.ExitCodeUsage, true
	}
	return 0, false
}

func (a *app) printVersion() int {
	fmt.Fprintf(a.stdout, "pdf_summarizer %s\n", core.GetVersionInfo())
	return core.ExitCodeSuccess
}

// newLogger builds the logger described by cfg. Console lines go to stderr.
func (a *app) newLogger(cfg *core.Config) *logging.Logger {
	return logging.New(logging.Options{
		Level:       logging.ParseLevelOrDefault(cfg.Log.Level, logging.InfoLevel),
		File:        cfg.Log.File,
		FileConfig:  logging.DefaultFileWriterConfig(),
		Development: cfg.DevMode,
		Console:     a.stderr,
	})
}

// fail prints err and returns its exit code.
func (a *app) fail(logger *logging.Logger, msg string, err error) int {
	if logger != nil {
		logger.Error(msg, zap.Error(err), zap.String("code", core.GetErrorCode(err)))
	}
	printError(a.stderr, msg, err)
	return core.ExitCodeFor(err)
}

func syncLogger(logger *logging.Logger, stderr io.Writer) {
	if err := logger.Sync(); err != nil && !isSyncUnsupported(err) {
		fmt.Fprintf(stderr, "Failed to sync logger: %v\n", err)
	}
}
