// Package app wires configuration, the ignore engine, walker and output together
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/pmorell/ignoretree/internal/config"
	"github.com/pmorell/ignoretree/internal/logger"
	"github.com/pmorell/ignoretree/internal/printer"
	"github.com/pmorell/ignoretree/internal/setup"
	"github.com/pmorell/ignoretree/internal/summary"
	"github.com/pmorell/ignoretree/internal/walker"
)

// App encapsulates the main application functionality
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	Output io.Writer
}

// New creates a new App instance
func New(cfg *config.Config) *App {
	// Configure color globally
	color.NoColor = !cfg.UseColors

	var output io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		file, err := os.Create(cfg.OutputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		// Note: file will be closed by main function
		output = file
	}

	log := logger.New(os.Stderr, cfg.Verbose, cfg.UseColors)
	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}

	return &App{
		cfg:    cfg,
		log:    log,
		Output: output,
	}
}

// Run executes the main application logic
func (a *App) Run() {
	startTime := time.Now()

	if a.cfg.ShowVersion {
		fmt.Printf("ignoretree version %s\n", a.cfg.Version)
		os.Exit(0)
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if a.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), a.cfg.Timeout)
		defer cancel()

		go func() {
			<-ctx.Done()
			if ctx.Err() == context.DeadlineExceeded {
				fmt.Fprintf(os.Stderr, "\nTimeout of %v reached. Exiting.\n", a.cfg.Timeout)
				os.Exit(1)
			}
		}()
	} else {
		ctx, cancel = context.WithCancel(context.Background())
		defer cancel()
	}

	// Helper for info messages, suppressed by quiet flag
	infoLog := func(format string, args ...interface{}) {
		if !a.cfg.Quiet {
			a.log.Info(format, args...)
		}
	}

	// --- Directory validation ---
	absRootDir, err := filepath.Abs(a.cfg.RootDir)
	if err != nil {
		a.log.Error("Invalid root directory path '%s': %v", a.cfg.RootDir, err)
		os.Exit(1)
	}

	dirInfo, err := os.Stat(absRootDir)
	if err != nil {
		if os.IsNotExist(err) {
			a.log.Error("Root directory '%s' not found.", absRootDir)
		} else {
			a.log.Error("Could not access root directory '%s': %v", absRootDir, err)
		}
		os.Exit(1)
	}
	if !dirInfo.IsDir() {
		a.log.Error("Specified path '%s' is not a directory.", absRootDir)
		os.Exit(1)
	}

	// --- Engine and walker configuration ---
	engine, walkOptions, err := setup.ConfigureWalker(setup.WalkerConfig{
		RootDir:       absRootDir,
		RuleFile:      a.cfg.RuleFile,
		Concurrent:    a.cfg.Concurrent,
		MaxWorkers:    a.cfg.MaxWorkers,
		MaxFileSizeMB: a.cfg.MaxFileSizeMB,
		Extensions:    a.cfg.Extensions,
		IgnoreHidden:  a.cfg.IgnoreHidden,
		CustomIgnore:  a.cfg.CustomIgnore,
		ListOnly:      a.cfg.ListOnly,
		ShowProgress:  a.cfg.ShowProgress,
		Quiet:         a.cfg.Quiet,
		Context:       ctx,
		Logger:        a.log,
	}, infoLog)
	if err != nil {
		a.log.Error("%v", err)
		os.Exit(1)
	}

	// --- Create the printer ---
	p := printer.New()
	p.WithOutput(a.Output)
	p.WithColors(a.cfg.UseColors)
	p.WithListOnly(a.cfg.ListOnly)

	if a.cfg.JSONOutput {
		p.WithJSON(true)
		p.WithColors(false)
	} else if a.cfg.MarkdownOutput {
		p.WithMarkdown(true)
		p.WithColors(false)
	}

	printFunc := func(relativePath string, content []byte, err error) error {
		if err != nil {
			a.log.Warn("Skipping file '%s' due to error: %v", relativePath, err)
			return nil // Error handled by logging
		}
		p.PrintFile(relativePath, content)
		return nil
	}

	// --- Start the directory walk ---
	infoLog("Scanning directory: %s", absRootDir)
	if a.cfg.Concurrent {
		infoLog("Using concurrent processing with %d workers.", a.cfg.MaxWorkers)
	}

	skippedItems, err := walker.Walk(engine, printFunc, walkOptions...)
	if err != nil {
		a.log.Error("Critical error during directory walk: %v", err)
		os.Exit(1)
	}

	// Finalize the printer (important for JSON output to close the array)
	p.Finalize()

	summary.DisplayResults(a.log, p.GetCount(), time.Since(startTime), a.cfg.Quiet)
	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, skippedItems, os.Stderr, a.cfg.Quiet)
	}
}
