// Package engine batch dispatch.
//
// The dispatcher submits one round's signed batches concurrently and sorts
// every answer into exactly one of two buckets: in-flight (a receipt worth
// polling) or terminal (recorded in the result table immediately). The
// classification rules are the heart of the engine's reliability story:
//
//   - accepted: track the service-returned receipt
//   - duplicate: the batch already landed in an earlier round, track the
//     locally derived receipt and let the poller confirm it
//   - token expired: ambiguous, the batch may or may not have been admitted
//     before the token lapsed. Track the locally derived receipt defensively;
//     if it never landed the receipt stays unknown and the batch retries next
//     round under a fresh token
//   - preflight rejection: terminal for every operation in the batch
//   - transport error: terminal for every operation in the batch
//
// Each submission goroutine writes only its own slot of the outcome slice;
// table writes and observer callbacks happen after the join, on the calling
// goroutine.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/logging"
)

// Submission pairs a packed batch with its signed wire form for one round.
type Submission struct {
	Batch  Batch
	Signed ledger.SignedBatch
}

// InflightEntry is a submitted batch awaiting confirmation, keyed by the
// receipt the poller will ask about.
type InflightEntry struct {
	Receipt ledger.ReceiptID
	Batch   Batch
}

// DispatchResult is the outcome of one round's dispatch phase.
type DispatchResult struct {
	// Inflight lists batches that were (or may have been) admitted and must
	// be polled for confirmation.
	Inflight []InflightEntry

	// TokenExpired reports that at least one submission hit an expired
	// token. The round's remaining in-flight work proceeds normally; the
	// flag exists for logging since every round fetches a fresh token.
	TokenExpired bool
}

// Dispatcher submits signed batches concurrently with optional pacing and
// records terminal submit failures into the result table.
type Dispatcher struct {
	submitter      ledger.Submitter
	table          *ResultTable
	observer       Observer
	pacingEvery    int
	pacingInterval time.Duration
	pause          func(time.Duration) // time.Sleep, replaceable in tests
}

// NewDispatcher creates a dispatcher writing terminal outcomes into table.
func NewDispatcher(submitter ledger.Submitter, table *ResultTable, observer Observer, pacingEvery int, pacingInterval time.Duration) *Dispatcher {
	return &Dispatcher{
		submitter:      submitter,
		table:          table,
		observer:       observer,
		pacingEvery:    pacingEvery,
		pacingInterval: pacingInterval,
		pause:          time.Sleep,
	}
}

// submitOutcome is the per-submission classification captured by each
// goroutine before the join.
type submitOutcome struct {
	inflight     bool
	receipt      ledger.ReceiptID
	tokenExpired bool
	terminal     ExecutionResult
}

// Dispatch submits all batches of a round. Submissions run concurrently; when
// pacing is enabled a fixed wait is inserted after every pacingEvery launches
// to avoid bursting the service's admission queue. Returns the in-flight set;
// terminal outcomes are already recorded when this returns.
func (d *Dispatcher) Dispatch(ctx context.Context, subs []Submission) DispatchResult {
	outcomes := make([]submitOutcome, len(subs))

	var wg sync.WaitGroup
	for i := range subs {
		wg.Add(1)
		go func(slot int, sub Submission) {
			defer wg.Done()
			outcomes[slot] = d.submitOne(ctx, sub)
		}(i, subs[i])

		if d.pacingEvery > 0 && (i+1)%d.pacingEvery == 0 && i+1 < len(subs) {
			logging.Debug("Pacing: waiting %v after %d submissions", d.pacingInterval, i+1)
			d.pause(d.pacingInterval)
		}
	}
	wg.Wait()

	var result DispatchResult
	for i, out := range outcomes {
		if out.tokenExpired {
			result.TokenExpired = true
		}
		if out.inflight {
			result.Inflight = append(result.Inflight, InflightEntry{
				Receipt: out.receipt,
				Batch:   subs[i].Batch,
			})
			continue
		}
		for _, idx := range subs[i].Batch.Indices {
			d.table.Record(idx, out.terminal)
		}
		d.observer.BatchTerminal(subs[i].Batch.Indices, out.terminal)
	}

	return result
}

// submitOne submits a single batch and classifies the answer.
func (d *Dispatcher) submitOne(ctx context.Context, sub Submission) submitOutcome {
	receipt, err := d.submitter.Submit(ctx, sub.Signed)
	if err == nil {
		logging.Debug("Batch accepted: receipt %s (%d operations)",
			logging.FormatReceiptID(string(receipt)), sub.Batch.Size())
		return submitOutcome{inflight: true, receipt: receipt}
	}

	switch {
	case errors.Is(err, ledger.ErrTokenExpired):
		// Ambiguous admission. The locally derived receipt matches what the
		// service would have issued, so polling it is safe either way.
		logging.Warn("Token expired during submit of %s; tracking defensively",
			logging.FormatReceiptID(string(sub.Signed.Receipt)))
		return submitOutcome{inflight: true, receipt: sub.Signed.Receipt, tokenExpired: true}

	case errors.Is(err, ledger.ErrDuplicateSubmission):
		logging.Debug("Batch %s already submitted; polling existing receipt",
			logging.FormatReceiptID(string(sub.Signed.Receipt)))
		return submitOutcome{inflight: true, receipt: sub.Signed.Receipt}
	}

	var preflight *ledger.PreflightError
	if errors.As(err, &preflight) {
		return submitOutcome{terminal: ExecutionResult{
			Kind:   OutcomePreflightRejected,
			Detail: preflight.Detail,
		}}
	}

	return submitOutcome{terminal: ExecutionResult{
		Kind:   OutcomeTransportError,
		Detail: err.Error(),
	}}
}
