// Package engine implements the batch submission reliability core: capacity
// estimation, packing, signing, concurrent dispatch, confirmation polling,
// and bounded retry coordination against an asynchronous ledger service.
//
// This file defines the per-operation outcome model. The result table is the
// only state that survives across retry rounds and it is the engine's public
// contract: every call returns a complete table with exactly one terminal
// outcome per submitted operation.
//
// WRITE-ONCE INVARIANT:
// Every index starts at ExceededRetries (the "never resolved" default) and
// can be written to a terminal outcome at most once. Later rounds can never
// overwrite an earlier Confirmed or terminal error, which is what makes the
// defensive token-expiry tracking safe: if both the original and the retried
// submission of a batch land, the second confirmation is a no-op.
//
// Concurrent dispatch and poll tasks may record outcomes without locking
// because each task owns a disjoint set of indices (its batch's index list).
package engine

import "fmt"

// OutcomeKind classifies the terminal outcome of one operation.
type OutcomeKind int

const (
	// OutcomeExceededRetries is the initial state of every entry and the
	// final state of operations that were never resolved within the round
	// bound. Callers recover these; the engine does not retry them further.
	OutcomeExceededRetries OutcomeKind = iota

	// OutcomeConfirmed means the operation's batch reached the required
	// durability level.
	OutcomeConfirmed

	// OutcomePreflightRejected means the service structurally rejected the
	// batch before admission. Terminal: resubmission cannot succeed.
	OutcomePreflightRejected

	// OutcomeTransportError means a local/network failure at submit time or
	// an explicit service-reported execution failure at poll time.
	OutcomeTransportError
)

// String returns a human-readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExceededRetries:
		return "exceeded-retries"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomePreflightRejected:
		return "preflight-rejected"
	case OutcomeTransportError:
		return "transport-error"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ExecutionResult is the terminal per-operation outcome returned to callers.
// Detail carries the service's rejection or failure text for the error kinds.
type ExecutionResult struct {
	Kind   OutcomeKind
	Detail string
}

// RunSummary aggregates a finished run's outcomes for observers and callers.
type RunSummary struct {
	Confirmed         int
	PreflightRejected int
	TransportErrors   int
	ExceededRetries   int
}

// ResultTable is the fixed-length, index-addressable outcome table for one
// engine run. Created once per call with one entry per operation and returned
// as the call's final result.
type ResultTable struct {
	entries []ExecutionResult
	settled []bool
}

// NewResultTable creates a table of n entries, all initialized to the
// ExceededRetries default.
func NewResultTable(n int) *ResultTable {
	return &ResultTable{
		entries: make([]ExecutionResult, n),
		settled: make([]bool, n),
	}
}

// Len returns the number of entries, which equals the operation count for
// the entire run.
func (t *ResultTable) Len() int {
	return len(t.entries)
}

// Record writes a terminal outcome at index i. Returns false without
// modifying the table when the index is out of range, when the outcome is the
// non-recordable ExceededRetries default, or when the index already holds a
// terminal outcome. Safe for concurrent use by tasks owning disjoint indices.
func (t *ResultTable) Record(i int, r ExecutionResult) bool {
	if i < 0 || i >= len(t.entries) {
		return false
	}
	if r.Kind == OutcomeExceededRetries {
		return false
	}
	if t.settled[i] {
		return false
	}
	t.entries[i] = r
	t.settled[i] = true
	return true
}

// At returns the outcome currently held at index i.
func (t *ResultTable) At(i int) ExecutionResult {
	return t.entries[i]
}

// Settled reports whether index i holds a terminal outcome, as opposed to the
// ExceededRetries default it was initialized with.
func (t *ResultTable) Settled(i int) bool {
	return t.settled[i]
}

// PendingCount returns the number of entries still at the default, i.e. the
// operations a further round could still resolve.
func (t *ResultTable) PendingCount() int {
	n := 0
	for _, s := range t.settled {
		if !s {
			n++
		}
	}
	return n
}

// Results returns a copy of all entries for callers that want the raw table.
func (t *ResultTable) Results() []ExecutionResult {
	out := make([]ExecutionResult, len(t.entries))
	copy(out, t.entries)
	return out
}

// Summary aggregates the table into per-kind counts.
func (t *ResultTable) Summary() RunSummary {
	var s RunSummary
	for _, e := range t.entries {
		switch e.Kind {
		case OutcomeConfirmed:
			s.Confirmed++
		case OutcomePreflightRejected:
			s.PreflightRejected++
		case OutcomeTransportError:
			s.TransportErrors++
		default:
			s.ExceededRetries++
		}
	}
	return s
}
