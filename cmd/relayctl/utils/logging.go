// Package utils provides utility functions for the relayctl CLI.
// This file contains logging setup utilities.
package utils

import (
	"os"

	"github.com/crestline-dev/relay/cmd/relayctl/config"
	"github.com/crestline-dev/relay/internal/logging"
)

// SetupLogging configures CLI logging behavior based on environment and config.
// Enables debug output when DEBUG=true, otherwise suppresses verbose logs.
// Essential for maintaining clean CLI output while allowing detailed debugging.
func SetupLogging() {
	// Check for DEBUG environment variable for debug logging
	if os.Getenv("DEBUG") == "true" {
		// Show debug output - restore normal logging and enable DEBUG level
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}

	// Verbose mode keeps round progress from the run observer visible
	if config.Global.Verbose {
		logging.RestoreOutput()
		logging.SetLevel("INFO")
		return
	}

	// Configure our application logging level first
	logging.SetLevel(config.Global.LogLevel)
	// Suppress debug/info logs by default (only show errors)
	logging.SuppressOutput()
}
