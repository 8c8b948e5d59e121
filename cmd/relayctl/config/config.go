// Package config provides configuration management for the relayctl CLI.
package config

import (
	"time"

	internalconfig "github.com/crestline-dev/relay/internal/config"
	"github.com/crestline-dev/relay/internal/version"
)

const (
	DefaultEndpoint = internalconfig.DefaultLedgerEndpoint // Default ledger API address
)

// Version returns the current relayctl CLI version from the centralized version package
var Version = version.RelayctlVersion

// Global holds the global CLI configuration
var Global struct {
	Endpoint string // Address of the ledger API to connect to
	LogLevel string // Log level for CLI operations
	Timeout  int    // Connection timeout in seconds
	Verbose  bool   // Show verbose output
}

// Submit holds the submit command configuration
var Submit struct {
	KeyID           string        // Signing key identifier
	KeyMaterial     string        // Signing key secret, or @path to read it from a file
	Durability      string        // Required confirmation level: processed, settled, finalized
	Packing         string        // Batch packing mode: auto, none
	MaxRounds       int           // Submission attempt bound per operation
	SettleDelay     time.Duration // Wait between dispatch and status polling
	PollGroupSize   int           // Receipts per status poll call
	PacingEvery     int           // Insert a pacing wait after every N submissions (0 disables)
	PacingInterval  time.Duration // Pacing wait duration
	MaxPayloadBytes int           // Serialized envelope size cap
	MaxCompute      uint64        // Compute unit cap per batch
}

// Read holds the read command configuration
var Read struct {
	GroupSize int    // Keys per batched read call
	OpsFile   string // Derive keys from the operations in this file instead of args
}
