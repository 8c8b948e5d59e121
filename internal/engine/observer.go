// Package engine run observation.
//
// Observers receive run progress callbacks for logging, CLI progress output,
// or test instrumentation without the coordinator knowing who is listening.
// All callbacks are invoked from the coordinator's goroutine after concurrent
// phases have joined, so implementations need no synchronization.
package engine

import "github.com/crestline-dev/relay/internal/logging"

// Observer receives run lifecycle callbacks.
type Observer interface {
	// RoundStarted fires at the top of each retry round with the number of
	// operations still unresolved.
	RoundStarted(round, maxRounds, pendingOps int)

	// BatchTerminal fires once per batch that reached a terminal outcome,
	// confirmed or failed, with the indices it carried.
	BatchTerminal(indices []int, result ExecutionResult)

	// RunCompleted fires once with the final outcome counts.
	RunCompleted(summary RunSummary)
}

// NopObserver ignores all callbacks. Used when the caller passes nil.
type NopObserver struct{}

func (NopObserver) RoundStarted(round, maxRounds, pendingOps int)       {}
func (NopObserver) BatchTerminal(indices []int, result ExecutionResult) {}
func (NopObserver) RunCompleted(summary RunSummary)                     {}

// LogObserver reports run progress through the structured logging system.
// This is what the CLI installs for interactive runs.
type LogObserver struct{}

func (LogObserver) RoundStarted(round, maxRounds, pendingOps int) {
	logging.Info("Round %d/%d: %d operations pending", round, maxRounds, pendingOps)
}

func (LogObserver) BatchTerminal(indices []int, result ExecutionResult) {
	switch result.Kind {
	case OutcomeConfirmed:
		logging.Success("Batch confirmed: %d operations", len(indices))
	case OutcomePreflightRejected:
		logging.Error("Batch rejected in preflight (%d operations): %s", len(indices), result.Detail)
	case OutcomeTransportError:
		logging.Error("Batch failed (%d operations): %s", len(indices), result.Detail)
	}
}

func (LogObserver) RunCompleted(summary RunSummary) {
	if summary.PreflightRejected == 0 && summary.TransportErrors == 0 && summary.ExceededRetries == 0 {
		logging.Success("Run complete: %d operations confirmed", summary.Confirmed)
		return
	}
	logging.Warn("Run complete: %d confirmed, %d preflight-rejected, %d failed, %d exceeded retries",
		summary.Confirmed, summary.PreflightRejected, summary.TransportErrors, summary.ExceededRetries)
}
