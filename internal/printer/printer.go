// Package printer handles output formatting and display
package printer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
)

// Printer handles output formatting and writing to the configured output destination
type Printer struct {
	output         io.Writer
	count          atomic.Int64
	useColors      bool
	listOnly       bool
	jsonOutput     bool
	jsonStarted    bool
	markdownOutput bool
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithListOnly enables path-listing mode (no file contents)
func (p *Printer) WithListOnly(enabled bool) *Printer {
	p.listOnly = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// WithMarkdown enables Markdown output mode
func (p *Printer) WithMarkdown(enabled bool) *Printer {
	p.markdownOutput = enabled
	return p
}

// JSONFileEntry represents a file entry in JSON output
type JSONFileEntry struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"` // Base64 encoded content
}

// PrintFile outputs one surviving file: its path in list mode, its path and
// content otherwise.
func (p *Printer) PrintFile(relativePath string, content []byte) {
	p.count.Add(1)

	switch {
	case p.jsonOutput:
		if !p.jsonStarted {
			fmt.Fprint(p.output, "[\n")
			p.jsonStarted = true
		} else {
			fmt.Fprint(p.output, ",\n")
		}

		entry := JSONFileEntry{Path: relativePath}
		if !p.listOnly {
			entry.Content = base64.StdEncoding.EncodeToString(content)
		}

		jsonData, err := json.MarshalIndent(entry, "  ", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Fprintf(p.output, "  %s", jsonData)

	case p.markdownOutput:
		if p.listOnly {
			fmt.Fprintf(p.output, "- %s\n", relativePath)
		} else {
			fmt.Fprintf(p.output, "file: %s\n\n```\n%s\n```\n\n", relativePath, content)
		}

	case p.listOnly:
		p.printPath(relativePath)

	default:
		p.printPath(relativePath)
		fmt.Fprintf(p.output, "%s\n\n", content)
	}
}

func (p *Printer) printPath(relativePath string) {
	if p.useColors {
		fmt.Fprintf(p.output, "%s\n", color.New(color.Bold, color.FgCyan).Sprint(relativePath))
	} else {
		fmt.Fprintf(p.output, "%s\n", relativePath)
	}
}

// Finalize completes any pending operations (like closing JSON array)
func (p *Printer) Finalize() {
	if p.jsonOutput && p.jsonStarted {
		fmt.Fprint(p.output, "\n]\n")
	}
}

// GetCount returns the number of files printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}
