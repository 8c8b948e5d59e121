// Package engine capacity estimation.
//
// The estimator answers one question per run: how many operations fit in a
// single batch under the service's payload size and compute caps. It measures
// empirically by dry-running a signed single-operation batch and extrapolating
// linearly, assuming operations in one run are roughly uniform in size and
// cost. The answer is clamped to at least 1 so estimation noise can only make
// batches smaller, never stall the run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/logging"
)

// CapacityEstimator measures per-batch capacity through a dry run call.
type CapacityEstimator struct {
	runner   ledger.DryRunner
	signer   *Signer
	attempts int
	interval time.Duration
}

// NewCapacityEstimator creates an estimator with a bounded fixed-interval
// retry budget for the dry run call. The signer is borrowed to frame the
// trial batch exactly as the dispatcher would frame a real one.
func NewCapacityEstimator(runner ledger.DryRunner, signer *Signer, attempts int, interval time.Duration) *CapacityEstimator {
	return &CapacityEstimator{
		runner:   runner,
		signer:   signer,
		attempts: attempts,
		interval: interval,
	}
}

// Estimate returns the operations-per-batch capacity derived from dry-running
// a single-operation trial batch built around sample.
//
// The per-operation marginal size is measured locally by framing the trial
// batch with and without its operation; the dry run supplies the measured
// serialized size and compute units. Capacity is the floor of the tighter of
// the size and compute bounds, clamped to at least 1.
//
// A preflight rejection of the trial aborts immediately: the rejection is
// structural and would apply to every real batch built the same way. Transient
// failures are retried at a fixed interval up to the attempt budget, then
// surfaced as a hard error.
func (e *CapacityEstimator) Estimate(ctx context.Context, sample Operation, maxBytes int, maxCompute uint64) (int, error) {
	if len(sample) == 0 {
		return 0, fmt.Errorf("capacity estimation requires a non-empty sample operation")
	}

	token, err := e.signer.RefreshToken(ctx)
	if err != nil {
		return 0, fmt.Errorf("capacity estimation aborted: %w", err)
	}

	trial := Batch{Ops: []Operation{sample}, Indices: []int{0}}
	signedTrial, err := e.signer.Sign(trial, token)
	if err != nil {
		return 0, err
	}
	signedEmpty, err := e.signer.Sign(Batch{}, token)
	if err != nil {
		return 0, err
	}

	marginalSize := len(signedTrial.Payload) - len(signedEmpty.Payload)
	if marginalSize < 1 {
		marginalSize = 1
	}

	report, err := e.dryRun(ctx, signedTrial)
	if err != nil {
		return 0, err
	}

	// Measured size covers the fixed envelope framing plus one operation.
	// Adding the marginal size back before dividing yields the headroom in
	// whole operations.
	sizeCapacity := (maxBytes - report.SerializedSize + marginalSize) / marginalSize

	computeCapacity := sizeCapacity
	if report.ComputeUnits > 0 {
		computeCapacity = int(maxCompute / report.ComputeUnits)
	}

	capacity := sizeCapacity
	if computeCapacity < capacity {
		capacity = computeCapacity
	}
	if capacity < 1 {
		capacity = 1
	}

	logging.Debug("Capacity estimate: %d ops/batch (size bound %d, compute bound %d, marginal %dB, measured %dB/%d units)",
		capacity, sizeCapacity, computeCapacity, marginalSize, report.SerializedSize, report.ComputeUnits)

	return capacity, nil
}

// dryRun executes the trial dry run with bounded fixed-interval retries.
// Preflight rejections short-circuit the loop; retrying a structural
// rejection cannot change the answer.
func (e *CapacityEstimator) dryRun(ctx context.Context, trial ledger.SignedBatch) (ledger.DryRunReport, error) {
	var lastErr error

	for attempt := 1; attempt <= e.attempts; attempt++ {
		report, err := e.runner.DryRun(ctx, trial)
		if err == nil {
			return report, nil
		}

		var preflight *ledger.PreflightError
		if errors.As(err, &preflight) {
			return ledger.DryRunReport{}, fmt.Errorf("capacity dry run rejected: %w", err)
		}

		lastErr = err
		logging.Warn("Capacity dry run attempt %d/%d failed: %v", attempt, e.attempts, err)

		if attempt < e.attempts {
			time.Sleep(e.interval)
		}
	}

	return ledger.DryRunReport{}, fmt.Errorf("capacity dry run failed after %d attempts: %w",
		e.attempts, lastErr)
}
