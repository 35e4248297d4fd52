package ignore

import (
	"github.com/spf13/afero"

	"github.com/pmorell/ignoretree/internal/utils"
)

// Option functions for configuration
type Option func(*Engine)

// WithFs injects the filesystem rule files are read from.
// Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		if fs != nil {
			e.fs = fs
		}
	}
}

// WithRuleFileName sets the per-directory rule file name.
func WithRuleFileName(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.ruleFileName = name
		}
	}
}

// WithBaseRules adds in-memory patterns evaluated as if they preceded the
// root rule file's own patterns.
func WithBaseRules(patterns []string) Option {
	return func(e *Engine) {
		e.baseRules = patterns
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
