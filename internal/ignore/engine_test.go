package ignore

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine builds an engine rooted at /proj over an in-memory
// filesystem seeded with the given files.
func newTestEngine(t *testing.T, files map[string]string, opts ...Option) (*Engine, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	e, err := New("/proj", append([]Option{WithFs(fs)}, opts...)...)
	require.NoError(t, err)
	return e, fs
}

func TestNoRuleFilesIgnoresNothing(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	assert.False(t, e.IsIgnored("/proj/main.go", false))
	assert.False(t, e.IsIgnored("/proj/src", true))
	assert.False(t, e.IsIgnored("/proj/src/deep/nested/file.txt", false))
}

func TestTreeRootNeverIgnored(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore": "*\n",
	})

	assert.False(t, e.IsIgnored("/proj", true))
	assert.False(t, e.IsIgnored("/proj/.", true))
	// Children still match the catch-all.
	assert.True(t, e.IsIgnored("/proj/anything", false))
}

func TestRootPatternsApplyToWholeTree(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore": "*.log\nnode_modules\n",
	})

	assert.True(t, e.IsIgnored("/proj/a.log", false))
	assert.True(t, e.IsIgnored("/proj/src/deep/b.log", false))
	assert.True(t, e.IsIgnored("/proj/node_modules", true))
	assert.True(t, e.IsIgnored("/proj/src/node_modules", true))
	assert.False(t, e.IsIgnored("/proj/src/main.go", false))
}

func TestNegationOrdering(t *testing.T) {
	t.Run("negation after exclusion re-includes", func(t *testing.T) {
		e, _ := newTestEngine(t, map[string]string{
			"/proj/.gitignore": "*.log\n!keep.log\n",
		})
		assert.True(t, e.IsIgnored("/proj/debug.log", false))
		assert.False(t, e.IsIgnored("/proj/keep.log", false))
	})

	t.Run("negation before exclusion has no effect", func(t *testing.T) {
		e, _ := newTestEngine(t, map[string]string{
			"/proj/.gitignore": "!keep.log\n*.log\n",
		})
		assert.True(t, e.IsIgnored("/proj/keep.log", false))
	})
}

func TestNegationAcrossRuleFiles(t *testing.T) {
	// A nested rule file is appended after the root's, so its negation
	// overrides a root-level exclusion for paths in its scope.
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore":     "*.log\n",
		"/proj/sub/.gitignore": "!keep.log\n",
	})

	assert.True(t, e.IsIgnored("/proj/a.log", false))
	assert.False(t, e.IsIgnored("/proj/sub/keep.log", false))
	assert.True(t, e.IsIgnored("/proj/sub/other.log", false))
}

func TestNestedRulesDoNotLeakToSiblings(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/a/.gitignore": "temp\n",
	})

	assert.True(t, e.IsIgnored("/proj/a/temp", true))
	assert.True(t, e.IsIgnored("/proj/a/temp/inner.txt", false))
	assert.False(t, e.IsIgnored("/proj/b/temp", true))
	// Even a path that repeats the declaring directory's name deeper in a
	// sibling stays out of scope.
	assert.False(t, e.IsIgnored("/proj/b/a/temp", true))
}

func TestDirectoryOnlyPatterns(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore": "build/\n",
	})

	assert.True(t, e.IsIgnored("/proj/build", true))
	assert.True(t, e.IsIgnored("/proj/build/out.bin", false))
	assert.True(t, e.IsIgnored("/proj/build/cache", true))
	// A plain file named like the directory must not match.
	assert.False(t, e.IsIgnored("/proj/build", false))
}

func TestHierarchyScenario(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore":     "node_modules\n*.log\n!keep.log\n",
		"/proj/src/.gitignore": "/temp\n",
	})

	assert.True(t, e.IsIgnored("/proj/node_modules", true))
	assert.True(t, e.IsIgnored("/proj/a.log", false))
	assert.False(t, e.IsIgnored("/proj/keep.log", false))
	assert.True(t, e.IsIgnored("/proj/src/temp", true))
	// "/temp" is anchored to src; a root-level temp is out of its scope.
	assert.False(t, e.IsIgnored("/proj/temp", true))
	assert.False(t, e.IsIgnored("/proj/src/deeper/temp", true))
}

func TestResetPicksUpChangedRules(t *testing.T) {
	e, fs := newTestEngine(t, map[string]string{
		"/proj/.gitignore": "*.log\n",
	})

	assert.True(t, e.IsIgnored("/proj/a.log", false))

	require.NoError(t, afero.WriteFile(fs, "/proj/.gitignore", []byte("*.tmp\n"), 0o644))

	// Stale until the caches are dropped.
	assert.True(t, e.IsIgnored("/proj/a.log", false))
	assert.False(t, e.IsIgnored("/proj/a.tmp", false))

	e.Reset()

	assert.False(t, e.IsIgnored("/proj/a.log", false))
	assert.True(t, e.IsIgnored("/proj/a.tmp", false))
}

func TestPathOutsideTreeRootNeverIgnored(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore": "*.log\n*\n",
	})

	assert.False(t, e.IsIgnored("/elsewhere/a.log", false))
	assert.False(t, e.IsIgnored("/elsewhere", true))
	assert.False(t, e.IsIgnored("/proj2/a.log", false))
}

func TestBareSlashPatternMatchesNothing(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore":     "/\n",
		"/proj/src/.gitignore": "/\n",
	})

	assert.False(t, e.IsIgnored("/proj/a.txt", false))
	assert.False(t, e.IsIgnored("/proj/src", true))
	assert.False(t, e.IsIgnored("/proj/src/b.txt", false))
}

func TestBaseRules(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.gitignore": "!keep.tmp\n",
	}, WithBaseRules([]string{"*.tmp"}))

	assert.True(t, e.IsIgnored("/proj/scratch.tmp", false))
	assert.True(t, e.IsIgnored("/proj/sub/scratch.tmp", false))
	// Base rules precede the root rule file, so its negation wins.
	assert.False(t, e.IsIgnored("/proj/keep.tmp", false))
}

func TestCustomRuleFileName(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		"/proj/.myignore":  "*.bak\n",
		"/proj/.gitignore": "*.log\n",
	}, WithRuleFileName(".myignore"))

	assert.True(t, e.IsIgnored("/proj/old.bak", false))
	// The default rule file is not consulted once the name is overridden.
	assert.False(t, e.IsIgnored("/proj/a.log", false))
}

func TestRulesDoNotApplyToDeclaringDirectory(t *testing.T) {
	// A directory's own rule file governs its children, not itself.
	e, _ := newTestEngine(t, map[string]string{
		"/proj/src/.gitignore": "/\nsrc\n",
	})

	assert.False(t, e.IsIgnored("/proj/src", true))
}
