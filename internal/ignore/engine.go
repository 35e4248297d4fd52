// Package ignore resolves hierarchical ignore rules for paths under a tree root
//
// Rule files (".gitignore" by default) may live in any directory of the
// tree. Each file's patterns are scoped to the directory that declares them.
// A path is ignored when the last matching pattern, collected from the tree
// root down to the path's parent directory, excludes it; a later "!"-negated
// match re-includes it. Rule sets and composed matchers are cached per
// directory until Reset is called.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"

	"github.com/pmorell/ignoretree/internal/utils"
)

const defaultRuleFileName = ".gitignore"

// Engine answers ignore queries for paths under a single tree root.
type Engine struct {
	rootDir      string // absolute, cleaned
	fs           afero.Fs
	ruleFileName string
	baseRules    []string
	logger       utils.Logger

	// mu guards both caches. Two callers may still race past a read miss
	// and load the same directory twice; the loads are idempotent and the
	// last writer wins.
	mu       sync.RWMutex
	ruleSets map[string][]string
	matchers map[string]*gitignore.GitIgnore
}

// New creates an Engine rooted at treeRoot.
func New(treeRoot string, opts ...Option) (*Engine, error) {
	absRoot, err := filepath.Abs(treeRoot)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for tree root '%s': %w", treeRoot, err)
	}

	e := &Engine{
		rootDir:      absRoot,
		fs:           afero.NewOsFs(),
		ruleFileName: defaultRuleFileName,
		logger:       &utils.NoopLogger{},
		ruleSets:     make(map[string][]string),
		matchers:     make(map[string]*gitignore.GitIgnore),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Root returns the absolute tree root the engine was created with.
func (e *Engine) Root() string {
	return e.rootDir
}

// IsIgnored reports whether path is excluded by the rule files visible at
// its parent directory. The tree root itself is never ignored. Rules
// declared inside a directory apply to its children and deeper descendants,
// not to the directory itself.
func (e *Engine) IsIgnored(path string, isDir bool) bool {
	path = filepath.Clean(path)
	if path == e.rootDir {
		return false
	}

	var candidate string
	rel, err := filepath.Rel(e.rootDir, path)
	switch {
	case err != nil:
		// Unrelatable path (e.g. another volume): best-effort raw value.
		// The composed matcher for such paths degrades to the root's rules.
		candidate = filepath.ToSlash(path)
	case rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)):
		// Outside the tree: no ancestor rule file governs it.
		return false
	default:
		candidate = filepath.ToSlash(rel)
	}
	if isDir {
		// Directory-only patterns ("build/") must match the suffixed form,
		// implicit file patterns must not match a file named like the dir.
		candidate += "/"
	}

	ignored := e.matcherFor(filepath.Dir(path)).MatchesPath(candidate)
	e.logger.Debug("ignore: IsIgnored(%q, dir=%v) = %v", candidate, isDir, ignored)
	return ignored
}

// Reset drops both caches so the next query re-reads rule files from
// storage. Callers invoke it when rule files may have changed.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ruleSets = make(map[string][]string)
	e.matchers = make(map[string]*gitignore.GitIgnore)
}
