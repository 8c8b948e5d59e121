// Package sim provides an in-memory ledger service simulator for Relay
// development and testing.
//
// This file defines configuration structures and validation logic for the
// simulator's HTTP server and its behavioral knobs. The configuration system
// manages network binding parameters together with the ledger behaviors that
// matter to the submission engine: token lifetime, settlement pacing, payload
// admission limits, and the synthetic compute pricing reported by dry runs.
//
// The simulator configuration is deliberately small: it models exactly the
// service behaviors the engine classifies against (expired tokens, duplicate
// receipts, preflight limits, durability progression) and nothing else. The
// knobs exist so tests and demos can compress real-world timing into
// milliseconds without changing engine code.
package sim

import (
	"time"

	"github.com/crestline-dev/relay/internal/validate"
)

const (
	// DefaultSimPort is the default port for the simulator HTTP server.
	DefaultSimPort = 8418

	// DefaultTokenTTL is how long an issued authorization token stays valid.
	DefaultTokenTTL = 30 * time.Second

	// DefaultConfirmAfterPolls is the number of status polls a submission
	// needs before it advances from processed to settled. Finalized follows
	// after the same number again.
	DefaultConfirmAfterPolls = 1

	// DefaultMaxPayloadBytes is the admission limit on serialized envelopes.
	DefaultMaxPayloadBytes = 1232

	// DefaultComputePerOp is the synthetic compute unit price reported per
	// operation by dry runs.
	DefaultComputePerOp = 150_000
)

// Config holds all configuration parameters for running the simulator.
type Config struct {
	BindAddr          string        // HTTP server bind address (e.g., "0.0.0.0")
	BindPort          int           // HTTP server bind port
	TokenTTL          time.Duration // Validity window of issued tokens
	ConfirmAfterPolls int           // Polls before a submission settles
	MaxPayloadBytes   int           // Envelope size admission limit
	ComputePerOp      uint64        // Synthetic compute units per operation
	FailMarker        string        // Ops containing this marker fail after admission; empty disables
}

// DefaultConfig creates a new Config instance with sensible default values
// for local development and testing environments.
func DefaultConfig() *Config {
	return &Config{
		// Default to loopback for safer local development.
		BindAddr:          "127.0.0.1",
		BindPort:          DefaultSimPort,
		TokenTTL:          DefaultTokenTTL,
		ConfirmAfterPolls: DefaultConfirmAfterPolls,
		MaxPayloadBytes:   DefaultMaxPayloadBytes,
		ComputePerOp:      DefaultComputePerOp,
		FailMarker:        "",
	}
}

// Validate performs validation of all configuration parameters to ensure the
// simulator can start successfully and behave consistently.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return err
	}
	if err := validate.ValidatePositiveTimeout(c.TokenTTL, "token TTL"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveCount(c.ConfirmAfterPolls, "confirm-after poll count"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveCount(c.MaxPayloadBytes, "max payload bytes"); err != nil {
		return err
	}

	return nil
}
