// Package utils provides common utility functions for the Relay submission engine.
//
// This file implements unified ID generation and truncation functionality used
// across the engine and simulator for creating and displaying identifiers.
// Provides consistent formats for authorization tokens, ledger entry keys, and
// other transient resources while eliminating code duplication.
//
// ID GENERATION STRATEGY:
// Uses crypto/rand for high-quality random data generation to ensure uniqueness
// across concurrent submissions and prevent collisions. Generated IDs follow a
// 12-character hexadecimal format for consistency and readability.
//
// Receipt identifiers are NOT generated here: a receipt is derived
// deterministically from the submitted payload (see internal/ledger) so both
// the client and the service arrive at the same identifier independently.

package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TruncateIDLength is the display length for shortened identifiers in logs
// and CLI output. Long enough to disambiguate in practice, short enough to
// keep log lines readable.
const TruncateIDLength = 12

// GenerateID creates a unique 12-character hex identifier for transient
// resources such as authorization tokens issued by the simulator. Uses
// crypto/rand to ensure uniqueness across concurrent rounds and prevent
// collisions.
//
// Returns format: "a1b2c3d4e5f6" (12 hex characters, similar to Docker short IDs)
func GenerateID() (string, error) {
	// Generate 6 bytes of random data (12 hex characters)
	bytes := make([]byte, 6)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// TruncateIDSafe shortens an identifier to TruncateIDLength characters for
// display purposes, returning the input unchanged when it is already short.
// Safe for arbitrary strings including empty ones.
func TruncateIDSafe(id string) string {
	if len(id) <= TruncateIDLength {
		return id
	}
	return id[:TruncateIDLength]
}
