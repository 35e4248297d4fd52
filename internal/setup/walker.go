// Package setup provides initialization and configuration functions
package setup

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pmorell/ignoretree/internal/ignore"
	"github.com/pmorell/ignoretree/internal/utils"
	"github.com/pmorell/ignoretree/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure the engine and walker
type WalkerConfig struct {
	RootDir       string
	RuleFile      string
	Concurrent    bool
	MaxWorkers    int
	MaxFileSizeMB int64
	Extensions    string
	IgnoreHidden  bool
	CustomIgnore  string
	ListOnly      bool
	ShowProgress  bool
	Quiet         bool
	Context       context.Context
	Logger        utils.Logger
}

// ConfigureWalker builds the ignore engine and walker options from the config
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) (
	*ignore.Engine,
	[]walker.Option,
	error,
) {
	// --- Parse custom ignore patterns ---
	var customPatterns []string
	if cfg.CustomIgnore != "" {
		for _, pattern := range strings.Split(cfg.CustomIgnore, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				customPatterns = append(customPatterns, pattern)
			}
		}
		infoLog("Using custom ignore patterns: %v", customPatterns)
	}

	// --- Initialize the ignore engine ---
	engineOptions := []ignore.Option{
		ignore.WithRuleFileName(cfg.RuleFile),
		ignore.WithLogger(cfg.Logger),
	}
	if len(customPatterns) > 0 {
		engineOptions = append(engineOptions, ignore.WithBaseRules(customPatterns))
	}

	engine, err := ignore.New(cfg.RootDir, engineOptions...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing ignore rules: %w", err)
	}

	// --- Parse file extensions ---
	var extensions []string
	if cfg.Extensions != "" {
		for _, ext := range strings.Split(cfg.Extensions, ",") {
			cleanExt := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
			if cleanExt != "" {
				extensions = append(extensions, cleanExt)
			}
		}
		infoLog("Filtering enabled. Only including extensions: .%s", strings.Join(extensions, ", ."))
	}

	if cfg.IgnoreHidden {
		infoLog("Skipping hidden files/directories (starting with '.').")
	}

	// --- Set up walk options ---
	walkOptions := []walker.Option{
		walker.WithLogger(cfg.Logger),
		walker.WithConcurrency(cfg.Concurrent),
		walker.WithMaxWorkers(cfg.MaxWorkers),
		walker.WithIgnoreHidden(cfg.IgnoreHidden),
		walker.WithSkipContent(cfg.ListOnly),
	}

	if len(extensions) > 0 {
		walkOptions = append(walkOptions, walker.WithExtensions(extensions))
	}

	if cfg.MaxFileSizeMB > 0 {
		maxSizeBytes := cfg.MaxFileSizeMB * 1024 * 1024
		walkOptions = append(walkOptions, walker.WithMaxFileSize(maxSizeBytes))
		infoLog("Ignoring files larger than %d MB.", cfg.MaxFileSizeMB)
	}

	if cfg.Context != nil {
		walkOptions = append(walkOptions, walker.WithContext(cfg.Context))
	}

	if cfg.ShowProgress {
		walkOptions = append(walkOptions, walker.WithProgress(func(stats walker.ProgressStats) {
			if cfg.Quiet {
				return
			}

			var statusLine string
			if stats.CurrentFilePath != "" {
				path := stats.CurrentFilePath
				if len(path) > 40 {
					path = "..." + path[len(path)-37:]
				}
				statusLine = fmt.Sprintf("\rProcessing: %-40s | Files: %d/%d | Dirs: %d",
					path, stats.ProcessedFiles, stats.TotalFiles, stats.TotalDirs)
			} else {
				statusLine = fmt.Sprintf("\rScanning... | Files: %d/%d | Dirs: %d",
					stats.ProcessedFiles, stats.TotalFiles, stats.TotalDirs)
			}

			// Carriage return keeps the status on one line.
			fmt.Fprint(os.Stderr, statusLine)
		}))
	}

	return engine, walkOptions, nil
}
