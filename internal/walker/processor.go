// Package walker handles directory traversal honoring ignore rules
package walker

import (
	"fmt"
	"os"
	"sync"
)

// processFile checks size constraints, reads the file (unless content is
// disabled) and hands it to walkFn.
func processFile(path, relativePath string, options WalkOptions, walkFn WalkFunc, tracker *SkippedTracker) {
	if options.ProgressFn != nil {
		options.ProgressFn(ProgressStats{
			CurrentFilePath: relativePath,
		})
	}

	if options.MaxFileSize > 0 {
		info, err := os.Lstat(path)
		if err != nil {
			options.Logger.Error("processFile [%s]: failed to get file info: %v", relativePath, err)
			tracker.Track(relativePath, ReasonSkippedInfoError, false)
			walkFn(relativePath, nil, fmt.Errorf("failed to get file info: %w", err))
			return
		}

		if !info.Mode().IsRegular() {
			tracker.Track(relativePath, ReasonSkippedNotRegular, false)
			return
		}

		if info.Size() > options.MaxFileSize {
			options.Logger.Debug("processFile [%s]: exceeds size limit (%d > %d bytes)",
				relativePath, info.Size(), options.MaxFileSize)
			tracker.Track(relativePath, ReasonSkippedSizeLimit, false)
			walkFn(relativePath, nil, fmt.Errorf("file size %d exceeds limit %d bytes", info.Size(), options.MaxFileSize))
			return
		}
	}

	if options.SkipContent {
		if err := walkFn(relativePath, nil, nil); err != nil {
			options.Logger.Error("processFile [%s]: callback returned error: %v", relativePath, err)
		}
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		options.Logger.Error("processFile [%s]: failed to read file: %v", relativePath, err)
		tracker.Track(relativePath, ReasonSkippedReadError, false)
		walkFn(relativePath, nil, fmt.Errorf("failed to read file: %w", err))
		return
	}

	if err := walkFn(relativePath, content, nil); err != nil {
		options.Logger.Error("processFile [%s]: callback returned error: %v", relativePath, err)
	}
}

// fileProcessorWorker is the goroutine function for concurrent processing.
func fileProcessorWorker(
	id int,
	filesChan <-chan struct{ path, relativePath string },
	wg *sync.WaitGroup,
	options WalkOptions,
	walkFn WalkFunc,
	tracker *SkippedTracker,
) {
	defer wg.Done()

	for item := range filesChan {
		select {
		case <-options.Context.Done():
			options.Logger.Debug("Worker %d: received cancellation signal", id)
			return
		default:
			processFile(item.path, item.relativePath, options, walkFn, tracker)
		}
	}
}
