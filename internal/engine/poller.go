// Package engine confirmation polling.
//
// The poller resolves one round's in-flight batches against the service's
// durability reports. Receipts are polled in bounded groups, concurrently,
// one status call per group. A failed group call resolves nothing: its
// receipts simply stay unresolved and the coordinator retries those batches
// next round. Only an explicit per-receipt failure report is terminal, which
// keeps a flaky status endpoint from misclassifying batches that actually
// landed.
package engine

import (
	"context"
	"sync"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/logging"
)

// ConfirmationPoller checks durability status for in-flight batches and
// records terminal outcomes into the result table.
type ConfirmationPoller struct {
	poller    ledger.StatusPoller
	table     *ResultTable
	observer  Observer
	groupSize int
	required  ledger.DurabilityLevel
}

// NewConfirmationPoller creates a poller requiring the given durability level
// for confirmation and splitting status calls into groups of groupSize.
func NewConfirmationPoller(poller ledger.StatusPoller, table *ResultTable, observer Observer, groupSize int, required ledger.DurabilityLevel) *ConfirmationPoller {
	return &ConfirmationPoller{
		poller:    poller,
		table:     table,
		observer:  observer,
		groupSize: groupSize,
		required:  required,
	}
}

// Poll queries status for every in-flight receipt and resolves what it can:
// confirmed batches and explicitly failed batches are recorded as terminal,
// everything else is returned as the unresolved set for the next round.
func (p *ConfirmationPoller) Poll(ctx context.Context, inflight []InflightEntry) []Batch {
	if len(inflight) == 0 {
		return nil
	}

	receipts := make([]ledger.ReceiptID, len(inflight))
	for i, entry := range inflight {
		receipts[i] = entry.Receipt
	}

	statuses := p.pollGroups(ctx, receipts)

	var unresolved []Batch
	for _, entry := range inflight {
		status, ok := statuses[entry.Receipt]
		if !ok {
			// Group call failed or the receipt is not yet known to the
			// service. Either way the batch retries next round.
			unresolved = append(unresolved, entry.Batch)
			continue
		}

		switch {
		case status.Failed:
			result := ExecutionResult{Kind: OutcomeTransportError, Detail: status.Detail}
			for _, idx := range entry.Batch.Indices {
				p.table.Record(idx, result)
			}
			p.observer.BatchTerminal(entry.Batch.Indices, result)

		case status.Durability >= p.required:
			result := ExecutionResult{Kind: OutcomeConfirmed}
			for _, idx := range entry.Batch.Indices {
				p.table.Record(idx, result)
			}
			p.observer.BatchTerminal(entry.Batch.Indices, result)

		default:
			logging.Debug("Receipt %s at %s, below required %s",
				logging.FormatReceiptID(string(entry.Receipt)), status.Durability, p.required)
			unresolved = append(unresolved, entry.Batch)
		}
	}

	return unresolved
}

// pollGroups issues one concurrent status call per receipt group and merges
// the answers into a receipt-keyed map. Unknown receipts (Known == false) are
// omitted so the resolve loop treats them exactly like an errored group.
func (p *ConfirmationPoller) pollGroups(ctx context.Context, receipts []ledger.ReceiptID) map[ledger.ReceiptID]ledger.ReceiptStatus {
	groupCount := (len(receipts) + p.groupSize - 1) / p.groupSize
	groupResults := make([][]ledger.ReceiptStatus, groupCount)

	var wg sync.WaitGroup
	for g := 0; g < groupCount; g++ {
		start := g * p.groupSize
		end := start + p.groupSize
		if end > len(receipts) {
			end = len(receipts)
		}

		wg.Add(1)
		go func(slot int, group []ledger.ReceiptID) {
			defer wg.Done()
			statuses, err := p.poller.PollStatus(ctx, group, p.required)
			if err != nil {
				logging.Warn("Status poll for %d receipts failed: %v", len(group), err)
				return
			}
			groupResults[slot] = statuses
		}(g, receipts[start:end])
	}
	wg.Wait()

	merged := make(map[ledger.ReceiptID]ledger.ReceiptStatus, len(receipts))
	for _, statuses := range groupResults {
		for _, status := range statuses {
			if status.Known {
				merged[status.Receipt] = status
			}
		}
	}

	return merged
}
