// Package logging provides ID formatting utilities for consistent identifier
// display across all logging contexts in the Relay submission engine.
//
// Implements context-aware ID truncation that preserves full receipt and token
// identifiers in debug contexts while providing short IDs in info/warning
// contexts, improving log readability without sacrificing traceability when
// detailed debugging is needed.
//
// ID FORMATTING STRATEGY:
//   - Debug logs: Full identifiers for complete traceability
//   - Info/Warn/Error/Success logs: Truncated 12-character IDs for readability
package logging

import (
	"github.com/crestline-dev/relay/internal/utils"
)

// FormatID formats an identifier for logging based on the current log level
// context. Returns the full identifier when debug logging is enabled to ensure
// complete traceability, and a truncated 12-character ID otherwise.
func FormatID(id string) string {
	// If debug level is enabled, show full IDs for complete traceability
	if DebugEnabled() {
		return id
	}

	// For info/warn/error/success contexts, use truncated IDs for readability
	return utils.TruncateIDSafe(id)
}

// FormatReceiptID formats a submission receipt identifier for logging with
// context-aware truncation.
//
// Usage: logging.Info("Submission accepted %s", logging.FormatReceiptID(receipt))
func FormatReceiptID(receiptID string) string {
	return FormatID(receiptID)
}

// FormatTokenID formats an authorization token for logging with context-aware
// truncation. Tokens are short-lived but still worth correlating across a round.
func FormatTokenID(token string) string {
	return FormatID(token)
}
