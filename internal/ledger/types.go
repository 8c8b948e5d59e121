// Package ledger defines the boundary to the external asynchronous ledger
// service that Relay submits batches against. The engine consumes this
// boundary; it never implements consensus itself.
//
// This file defines the data types crossing the boundary: ephemeral
// authorization tokens, signed batch envelopes, deterministic submission
// receipts, dry-run measurements, and durability-qualified receipt statuses.
//
// RECEIPT DERIVATION:
// A receipt identifier is the SHA-256 digest of the exact submitted payload.
// Both the client and the service compute it independently, which means the
// client knows the receipt of a submission even when the service rejects it
// with a stale-token error after possibly having admitted it. That property
// is what makes the dispatcher's defensive token-expiry tracking possible.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ReceiptID identifies one accepted submission for later status polling.
// Derived deterministically from the submitted payload via ComputeReceipt.
type ReceiptID string

// AuthorizationToken is an ephemeral, opaque credential with a short
// service-defined validity window. Required to sign a batch; a batch signed
// with an expired token is rejected by the service.
type AuthorizationToken struct {
	Value     string    // Opaque credential issued by the service
	FetchedAt time.Time // Local fetch time, for logging and staleness hints
}

// DryRunReport carries the service-measured cost of a trial batch: the
// compute units it consumed and the serialized size the service observed.
// Both feed the capacity estimate that sizes every real batch.
type DryRunReport struct {
	ComputeUnits   uint64 `json:"compute_units"`
	SerializedSize int    `json:"serialized_size"`
}

// DurabilityLevel is the caller-required strength of confirmation before an
// operation is considered final. Levels are ordered: a receipt at a higher
// level satisfies any lower requirement.
type DurabilityLevel int

const (
	// DurabilityNone is the zero value, reported for receipts the service
	// does not know about yet.
	DurabilityNone DurabilityLevel = iota

	// DurabilityProcessed means the submission was executed but may still be
	// rolled back by the consensus layer.
	DurabilityProcessed

	// DurabilitySettled means a quorum has voted on the containing block.
	DurabilitySettled

	// DurabilityFinalized means the containing block is irreversible.
	DurabilityFinalized
)

// String returns the wire representation of the durability level.
func (d DurabilityLevel) String() string {
	switch d {
	case DurabilityProcessed:
		return "processed"
	case DurabilitySettled:
		return "settled"
	case DurabilityFinalized:
		return "finalized"
	default:
		return "none"
	}
}

// ParseDurabilityLevel converts a wire string into a DurabilityLevel.
// Returns an error for unknown levels so misconfigured callers fail early
// instead of silently polling against an impossible requirement.
func ParseDurabilityLevel(s string) (DurabilityLevel, error) {
	switch s {
	case "processed":
		return DurabilityProcessed, nil
	case "settled":
		return DurabilitySettled, nil
	case "finalized":
		return DurabilityFinalized, nil
	case "none", "":
		return DurabilityNone, nil
	default:
		return DurabilityNone, fmt.Errorf("unknown durability level: %s", s)
	}
}

// ReceiptStatus is the service's answer for one polled receipt. A receipt is
// confirmable when it is known, not failed, and at or above the required
// durability level; an explicitly failed receipt is terminal.
type ReceiptStatus struct {
	Receipt    ReceiptID       // The polled receipt
	Known      bool            // Whether the service has seen this receipt
	Failed     bool            // Whether the service reports a definitive failure
	Detail     string          // Failure detail when Failed is true
	Durability DurabilityLevel // Current durability, DurabilityNone if unknown
}

// Envelope is the framing every batch payload carries on the wire: the
// round's authorization token, the signing key identifier, the signature over
// the operations, and the opaque operation payloads in original order.
type Envelope struct {
	Token     string   `json:"token"`
	KeyID     string   `json:"key_id"`
	Signature []byte   `json:"signature"`
	Ops       [][]byte `json:"ops"`
}

// SignedBatch is one fully framed, ready-to-submit payload together with its
// client-side derived receipt. One batch may produce several SignedBatch
// values across retry rounds, each with a different token and receipt.
type SignedBatch struct {
	Payload []byte    // Serialized Envelope
	Receipt ReceiptID // ComputeReceipt(Payload)
	Token   string    // Token embedded in the payload, for logging
}

// ComputeReceipt derives the deterministic receipt identifier for a payload.
// The service performs the identical derivation on admission.
func ComputeReceipt(payload []byte) ReceiptID {
	sum := sha256.Sum256(payload)
	return ReceiptID(hex.EncodeToString(sum[:]))
}

// EntryKey derives the ledger entry key under which a finalized operation's
// payload becomes readable. Content-addressed, like receipts, so callers can
// read back exactly what they wrote without a separate key exchange.
func EntryKey(op []byte) string {
	sum := sha256.Sum256(op)
	return hex.EncodeToString(sum[:])
}
