package walker

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmorell/ignoretree/internal/ignore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newTestTree lays out a small project with nested rule files.
func newTestTree(t *testing.T) (string, *ignore.Engine) {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "debug.log"), "noise\n")
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "temp/\n")
	writeFile(t, filepath.Join(root, "sub", "keep.txt"), "keep\n")
	writeFile(t, filepath.Join(root, "sub", "temp", "scratch.txt"), "gone\n")

	engine, err := ignore.New(root)
	require.NoError(t, err)
	return root, engine
}

// collectWalk runs Walk and returns the sorted surviving relative paths.
func collectWalk(t *testing.T, engine *ignore.Engine, opts ...Option) ([]string, []SkippedItem) {
	t.Helper()

	var mu sync.Mutex
	var paths []string
	skipped, err := Walk(engine, func(relativePath string, content []byte, err error) error {
		require.NoError(t, err)
		mu.Lock()
		paths = append(paths, filepath.ToSlash(relativePath))
		mu.Unlock()
		return nil
	}, opts...)
	require.NoError(t, err)

	sort.Strings(paths)
	return paths, skipped
}

func skippedPaths(items []SkippedItem) []string {
	var paths []string
	for _, item := range items {
		paths = append(paths, filepath.ToSlash(item.Path))
	}
	sort.Strings(paths)
	return paths
}

func TestWalkHonorsNestedRuleFiles(t *testing.T) {
	_, engine := newTestTree(t)

	paths, skipped := collectWalk(t, engine)

	assert.Equal(t, []string{".gitignore", "main.go", "sub/.gitignore", "sub/keep.txt"}, paths)
	// The ignored directory is pruned, so its contents never surface.
	assert.Equal(t, []string{"debug.log", "sub/temp"}, skippedPaths(skipped))
}

func TestWalkSkipsHiddenEntries(t *testing.T) {
	_, engine := newTestTree(t)

	paths, skipped := collectWalk(t, engine, WithIgnoreHidden(true))

	assert.Equal(t, []string{"main.go", "sub/keep.txt"}, paths)
	assert.Contains(t, skippedPaths(skipped), ".gitignore")
	assert.Contains(t, skippedPaths(skipped), "sub/.gitignore")
}

func TestWalkExtensionFilter(t *testing.T) {
	_, engine := newTestTree(t)

	paths, skipped := collectWalk(t, engine, WithExtensions([]string{"go"}))

	assert.Equal(t, []string{"main.go"}, paths)
	for _, item := range skipped {
		if item.Path == "sub/keep.txt" {
			assert.Equal(t, ReasonFilteredExtension, item.Reason)
		}
	}
}

func TestWalkSkipContent(t *testing.T) {
	_, engine := newTestTree(t)

	sawContent := false
	_, err := Walk(engine, func(relativePath string, content []byte, err error) error {
		require.NoError(t, err)
		if content != nil {
			sawContent = true
		}
		return nil
	}, WithSkipContent(true))
	require.NoError(t, err)

	assert.False(t, sawContent)
}

func TestWalkReadsContent(t *testing.T) {
	_, engine := newTestTree(t)

	contents := map[string]string{}
	var mu sync.Mutex
	_, err := Walk(engine, func(relativePath string, content []byte, err error) error {
		require.NoError(t, err)
		mu.Lock()
		contents[filepath.ToSlash(relativePath)] = string(content)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "package main\n", contents["main.go"])
	assert.Equal(t, "keep\n", contents["sub/keep.txt"])
}

func TestWalkConcurrentMatchesSequential(t *testing.T) {
	_, engine := newTestTree(t)

	sequential, _ := collectWalk(t, engine)
	concurrent, _ := collectWalk(t, engine, WithConcurrency(true), WithMaxWorkers(4))

	assert.Equal(t, sequential, concurrent)
}

func TestWalkMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.txt"), "ok\n")
	writeFile(t, filepath.Join(root, "big.txt"), string(make([]byte, 2*1024*1024)))

	engine, err := ignore.New(root)
	require.NoError(t, err)

	var mu sync.Mutex
	var paths []string
	skipped, err := Walk(engine, func(relativePath string, content []byte, err error) error {
		if err != nil {
			return nil // size violations arrive as errors
		}
		mu.Lock()
		paths = append(paths, relativePath)
		mu.Unlock()
		return nil
	}, WithMaxFileSize(1024*1024))
	require.NoError(t, err)

	assert.Equal(t, []string{"small.txt"}, paths)
	assert.Equal(t, []string{"big.txt"}, skippedPaths(skipped))
}
