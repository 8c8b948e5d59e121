// Package config provides common default configuration values shared across
// Relay components (submission engine, ledger client, simulator). This
// centralizes configuration management and ensures consistency between the
// CLI tooling and the simulator daemon.
package config

const (
	// DefaultLogLevel is the default log level for all components
	// INFO provides good balance of visibility without verbose debug output
	DefaultLogLevel = "INFO"

	// DefaultLedgerEndpoint is the default ledger service API address used by
	// the CLI when no explicit endpoint is provided. Matches the simulator's
	// default listen address for friction-free local development.
	DefaultLedgerEndpoint = "127.0.0.1:8418"
)
