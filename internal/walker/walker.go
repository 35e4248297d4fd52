// Package walker handles directory traversal honoring ignore rules
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pmorell/ignoretree/internal/ignore"
)

// Walk traverses the tree rooted at the engine's tree root, consulting the
// engine for every entry and pruning ignored directories. It returns a list
// of skipped items and any critical error that occurred.
func Walk(engine *ignore.Engine, walkFn WalkFunc, opts ...Option) ([]SkippedItem, error) {
	startTime := time.Now()

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	rootDir := engine.Root()
	tracker := NewSkippedTracker(100)

	var stats struct {
		totalFiles     atomic.Int64
		processedFiles atomic.Int64
		skippedFiles   atomic.Int64
		totalDirs      atomic.Int64
		skippedDirs    atomic.Int64
	}

	if options.ProgressFn != nil {
		progressCtx, progressCancel := context.WithCancel(context.Background())
		defer progressCancel()

		go func() {
			ticker := time.NewTicker(300 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-progressCtx.Done():
					return
				case <-ticker.C:
					options.ProgressFn(ProgressStats{
						TotalFiles:     stats.totalFiles.Load(),
						ProcessedFiles: stats.processedFiles.Load(),
						SkippedFiles:   stats.skippedFiles.Load(),
						TotalDirs:      stats.totalDirs.Load(),
						SkippedDirs:    stats.skippedDirs.Load(),
					})
				}
			}
		}()
	}

	options.Logger.Debug("walker.Walk started. Root: %s, Concurrent: %v, Workers: %d",
		rootDir, options.Concurrent, options.MaxWorkers)

	// Decides the fate of one entry; shared by sequential and concurrent
	// modes. The returned bool reports whether the file should be processed.
	processEntry := func(path string, d fs.DirEntry, err error) (error, bool) {
		select {
		case <-options.Context.Done():
			return options.Context.Err(), false
		default:
		}

		isDir := d != nil && d.IsDir()
		if isDir {
			stats.totalDirs.Add(1)
		} else {
			stats.totalFiles.Add(1)
		}

		relativePath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			options.Logger.Error("Walker: Path calculation failed for %q: %v", path, relErr)
			tracker.Track(path, ReasonSkippedPathError, isDir)
			if isDir {
				stats.skippedDirs.Add(1)
			} else {
				stats.skippedFiles.Add(1)
			}
			return nil, false
		}

		if err != nil {
			reason := ReasonSkippedWalkError
			if os.IsPermission(err) {
				reason = ReasonSkippedPermError
			}
			options.Logger.Error("Walker: Walk error for %q: %v", relativePath, err)
			tracker.Track(relativePath, reason, isDir)
			if isDir {
				stats.skippedDirs.Add(1)
				if reason == ReasonSkippedPermError {
					return filepath.SkipDir, false
				}
			} else {
				stats.skippedFiles.Add(1)
			}
			return nil, false
		}

		// The root itself is never a subject.
		if path == rootDir || relativePath == "." {
			return nil, false
		}

		if options.IgnoreHidden && strings.HasPrefix(filepath.Base(path), ".") {
			options.Logger.Debug("Walker: Hidden entry %q skipped", relativePath)
			tracker.Track(relativePath, ReasonIgnoredHidden, isDir)
			if isDir {
				stats.skippedDirs.Add(1)
				return filepath.SkipDir, false
			}
			stats.skippedFiles.Add(1)
			return nil, false
		}

		if engine.IsIgnored(path, isDir) {
			options.Logger.Debug("Walker: %q ignored by rule files", relativePath)
			tracker.Track(relativePath, ReasonIgnoredRule, isDir)
			if isDir {
				stats.skippedDirs.Add(1)
				// Everything beneath an ignored directory is ignored too.
				return filepath.SkipDir, false
			}
			stats.skippedFiles.Add(1)
			return nil, false
		}

		if isDir {
			return nil, false
		}

		if len(options.ExtensionMap) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relativePath), "."))
			if _, allowed := options.ExtensionMap[ext]; !allowed {
				tracker.Track(relativePath, ReasonFilteredExtension, false)
				stats.skippedFiles.Add(1)
				return nil, false
			}
		}

		stats.processedFiles.Add(1)
		return nil, true
	}

	if options.Concurrent {
		var wg sync.WaitGroup
		filesChan := make(chan struct{ path, relativePath string }, options.MaxWorkers*2)

		options.Logger.Debug("Starting %d workers for concurrent processing.", options.MaxWorkers)
		for i := 0; i < options.MaxWorkers; i++ {
			wg.Add(1)
			go fileProcessorWorker(i+1, filesChan, &wg, options, walkFn, tracker)
		}

		done := make(chan error, 1)
		walkFinished := make(chan struct{})

		go func() {
			walkErr := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
				decisionErr, shouldProcess := processEntry(path, d, err)
				if decisionErr != nil {
					return decisionErr
				}
				if !shouldProcess {
					return nil
				}

				relativePath, relErr := filepath.Rel(rootDir, path)
				if relErr != nil {
					tracker.Track(path, ReasonSkippedPathError, false)
					stats.skippedFiles.Add(1)
					return nil
				}

				select {
				case <-options.Context.Done():
					return options.Context.Err()
				case filesChan <- struct{ path, relativePath string }{path, relativePath}:
				}
				return nil
			})

			done <- walkErr
			close(walkFinished)
		}()

		select {
		case <-options.Context.Done():
			<-walkFinished
		case <-walkFinished:
		}

		close(filesChan)
		wg.Wait()

		var walkErr error
		select {
		case walkErr = <-done:
		default:
			walkErr = fmt.Errorf("walker: internal error - missing walk result")
		}

		options.Logger.Debug("Walker: Total walk and processing time: %s", time.Since(startTime))
		return tracker.Items(), walkErr
	}

	walkErr := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		decisionErr, shouldProcess := processEntry(path, d, err)
		if decisionErr != nil {
			return decisionErr
		}
		if !shouldProcess {
			return nil
		}

		relativePath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			tracker.Track(path, ReasonSkippedPathError, false)
			stats.skippedFiles.Add(1)
			return nil
		}

		processFile(path, relativePath, options, walkFn, tracker)
		return nil
	})

	options.Logger.Debug("Walker: Total walk and processing time: %s", time.Since(startTime))
	return tracker.Items(), walkErr
}
