package main

import (
	"os"

	"github.com/pmorell/ignoretree/internal/app"
	"github.com/pmorell/ignoretree/internal/config"
)

func main() {
	// Load configuration from command-line flags
	cfg := config.New()

	// Create and run the application
	application := app.New(cfg)
	application.Run()

	// Close output file if one was opened
	if cfg.OutputFile != "" {
		if f, ok := application.Output.(*os.File); ok {
			f.Close()
		}
	}
}
