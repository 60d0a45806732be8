// Package main is the entry point for the extract-files application.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/meg/extract-files/internal/config"
	"github.com/meg/extract-files/internal/extract"
	"github.com/meg/extract-files/internal/journal"
	"github.com/meg/extract-files/internal/tui"
	"github.com/meg/extract-files/internal/tui/shared"
	pkgerrors "github.com/meg/extract-files/pkg/errors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if suggestions := pkgerrors.FormatSuggestions(err); suggestions != "" {
			fmt.Fprintln(os.Stderr, suggestions)
		}

		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseFlags()
	if err != nil {
		return err
	}

	// Only bring up the TUI on a real terminal
	interactive := !cfg.Plain && term.IsTerminal(int(os.Stdout.Fd()))

	logger, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := extract.NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	if cfg.Journal != "" {
		recorder, err := journal.Open(cfg.Journal, logger)
		if err != nil {
			return err
		}

		defer func() {
			if err := recorder.Close(); err != nil {
				logger.WithError(err).Warn("failed to close journal")
			}
		}()

		engine.RegisterEmitter(recorder)
		logger.WithFields(logrus.Fields{
			"journal": cfg.Journal,
			"run_id":  recorder.RunID(),
		}).Debug("journal attached")
	}

	if !interactive {
		return runPlain(engine)
	}

	return runTUI(engine, cfg)
}

// newLogger builds the run logger. Interactive runs write to a debug log
// file so log lines stay off the alternate screen; plain runs log to stderr.
func newLogger(cfg *config.Config, interactive bool) (*logrus.Logger, func(), error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	logger.SetLevel(level)

	closeLog := func() {}

	if interactive {
		logFile, err := os.Create(debugLogPath())
		if err != nil {
			// No log file, no log lines; the run itself is unaffected
			logger.SetOutput(io.Discard)

			return logger, closeLog, nil
		}

		logger.SetOutput(logFile)
		closeLog = func() { _ = logFile.Close() }
	}

	return logger, closeLog, nil
}

// debugLogPath returns where interactive runs write their log, overridable
// for debugging sessions.
func debugLogPath() string {
	if path := os.Getenv("EXTRACT_FILES_LOG"); path != "" {
		return path
	}

	return filepath.Join(os.TempDir(), "extract-files-debug.log")
}

// runPlain drives the engine without the terminal UI. Per-file progress
// comes from the engine's own log lines; the closing summary goes to stdout.
func runPlain(engine *extract.Engine) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		engine.Cancel()
		signal.Stop(sigChan) // a second interrupt kills the process
	}()

	result, runErr := engine.Run()
	if result != nil {
		printSummary(os.Stdout, engine, result)
	}

	if runErr != nil {
		return runErr
	}

	if result != nil && result.Failed > 0 {
		return fmt.Errorf("%d of %d matched files failed", result.Failed, result.Matched)
	}

	return nil
}

func printSummary(writer io.Writer, engine *extract.Engine, result *extract.RunResult) {
	headline := "Extraction complete"
	if result.Cancelled {
		headline = "Extraction cancelled"
	}

	fmt.Fprintf(writer, "%s: placed %d of %d matched files (%s) in %s\n",
		headline,
		result.Placed,
		result.Matched,
		shared.FormatBytes(result.Bytes),
		shared.FormatDuration(result.Duration))
	fmt.Fprintf(writer, "Target: %s\n", engine.TargetPath)

	status := engine.GetStatus()
	if len(status.Errors) == 0 {
		return
	}

	fmt.Fprintln(writer, "Failed files:")

	for _, fileErr := range status.Errors {
		fmt.Fprintf(writer, "  %s: %v\n", fileErr.FilePath, fileErr.Error)
	}
}

func runTUI(engine *extract.Engine, cfg *config.Config) error {
	program := tea.NewProgram(tui.NewAppModel(engine, cfg), tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	return nil
}
