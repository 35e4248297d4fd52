package ignore

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// loadRuleSet returns the parsed patterns of the rule file directly inside
// dir. A missing or unreadable rule file is not an error: it yields an empty
// set, cached the same as a successful read, until Reset.
func (e *Engine) loadRuleSet(dir string) []string {
	e.mu.RLock()
	cached, ok := e.ruleSets[dir]
	e.mu.RUnlock()
	if ok {
		return cached
	}

	var patterns []string
	ruleFile := filepath.Join(dir, e.ruleFileName)
	if data, err := afero.ReadFile(e.fs, ruleFile); err == nil {
		patterns = parseRules(string(data))
		e.logger.Debug("ignore: loaded %d patterns from %s", len(patterns), ruleFile)
	}

	e.mu.Lock()
	e.ruleSets[dir] = patterns
	e.mu.Unlock()

	return patterns
}

// parseRules splits rule file content into patterns, dropping blank lines
// and "#" comments. In-file order is preserved; later patterns override
// earlier ones at match time.
func parseRules(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line) // also strips the \r of CRLF endings
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
