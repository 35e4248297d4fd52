package ignore

import (
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// matcherFor returns the composed matcher for dir: every pattern of every
// rule file from the tree root down to dir, anchored to the root and
// compiled in root-to-leaf, in-file order so that the last matching pattern
// decides the outcome.
func (e *Engine) matcherFor(dir string) *gitignore.GitIgnore {
	dir = filepath.Clean(dir)

	e.mu.RLock()
	cached, ok := e.matchers[dir]
	e.mu.RUnlock()
	if ok {
		return cached
	}

	var lines []string
	for _, pattern := range e.baseRules {
		lines = appendAnchored(lines, pattern, "")
	}
	for _, ancestor := range e.ancestorChain(dir) {
		relDir := ""
		if rel, err := filepath.Rel(e.rootDir, ancestor); err == nil && rel != "." {
			relDir = filepath.ToSlash(rel)
		}
		for _, pattern := range e.loadRuleSet(ancestor) {
			lines = appendAnchored(lines, pattern, relDir)
		}
	}

	matcher := gitignore.CompileIgnoreLines(lines...)
	e.logger.Debug("ignore: composed matcher for %s from %d patterns", dir, len(lines))

	e.mu.Lock()
	e.matchers[dir] = matcher
	e.mu.Unlock()

	return matcher
}

// appendAnchored anchors one pattern and appends it to the line list.
// A bare "/" matches nothing at any level and is dropped.
func appendAnchored(lines []string, pattern, relDir string) []string {
	if strings.TrimPrefix(pattern, "!") == "/" {
		return lines
	}
	return append(lines, rootAnchor(anchorPattern(pattern, relDir)))
}

// rootAnchor pins a pattern carrying a leading or medial separator to the
// tree root. A separator at the beginning or middle of a pattern scopes it
// to its declaring directory; without an explicit leading "/" the compiled
// expression would also match the same suffix deeper in the tree.
func rootAnchor(pattern string) string {
	negated := strings.HasPrefix(pattern, "!")
	body := strings.TrimPrefix(pattern, "!")

	if idx := strings.Index(body, "/"); idx >= 0 && idx < len(body)-1 && !strings.HasPrefix(body, "/") {
		body = "/" + body
	}

	if negated {
		return "!" + body
	}
	return body
}

// ancestorChain lists the directories whose rule files are visible at dir,
// from the tree root down to dir, inclusive at both ends. A directory
// outside the root degrades to the root alone.
func (e *Engine) ancestorChain(dir string) []string {
	chain := []string{e.rootDir}

	rel, err := filepath.Rel(e.rootDir, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return chain
	}

	current := e.rootDir
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		current = filepath.Join(current, part)
		chain = append(chain, current)
	}
	return chain
}
