// Package handlers provides command handler functions for relayctl.
//
// This package contains the command execution logic for relayctl commands:
// submit drives a complete engine run against the configured ledger API, and
// read fetches entries back by content-addressed key. Handlers coordinate
// between the HTTP client, the submission engine, and terminal output while
// keeping presentation out of the engine itself.
//
// All handlers follow consistent patterns:
// - cobra.Command RunE function signature for CLI integration
// - Standardized error handling and logging using the logging package
// - Results printed to stdout, diagnostics routed through logging
package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/crestline-dev/relay/cmd/relayctl/config"
	"github.com/crestline-dev/relay/internal/engine"
	"github.com/crestline-dev/relay/internal/ledger"
)

// newClient builds the ledger API client from global CLI configuration.
func newClient() *ledger.HTTPClient {
	return ledger.NewHTTPClient(config.Global.Endpoint,
		time.Duration(config.Global.Timeout)*time.Second)
}

// loadOperations reads an operations file: a JSON array of strings, each
// string one opaque operation payload.
func loadOperations(path string) ([]engine.Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read operations file: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("operations file must be a JSON array of strings: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("operations file %s contains no operations", path)
	}

	ops := make([]engine.Operation, len(raw))
	for i, entry := range raw {
		if entry == "" {
			return nil, fmt.Errorf("operation %d is empty", i)
		}
		ops[i] = engine.Operation(entry)
	}
	return ops, nil
}

// loadKeyMaterial resolves the --key-material flag: a literal secret, or the
// contents of a file when prefixed with @.
func loadKeyMaterial(value string) ([]byte, error) {
	if strings.HasPrefix(value, "@") {
		material, err := os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return nil, fmt.Errorf("failed to read key material file: %w", err)
		}
		return []byte(strings.TrimSpace(string(material))), nil
	}
	return []byte(value), nil
}
