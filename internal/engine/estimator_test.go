package engine

import (
	"context"
	"testing"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
)

// fakeDryRunner scripts DryRun answers in order, then repeats the last.
type fakeDryRunner struct {
	calls   int
	reports []ledger.DryRunReport
	errs    []error
}

func (f *fakeDryRunner) DryRun(ctx context.Context, batch ledger.SignedBatch) (ledger.DryRunReport, error) {
	f.calls++
	idx := f.calls - 1
	if idx >= len(f.errs) {
		idx = len(f.errs) - 1
	}
	if err := f.errs[idx]; err != nil {
		return ledger.DryRunReport{}, err
	}
	return f.reports[idx], nil
}

func newTestEstimator(runner ledger.DryRunner, attempts int) *CapacityEstimator {
	signer := NewSigner(&fakeTokenSource{answers: []error{nil}},
		SigningKey{ID: "key-1", Material: []byte("secret")}, 1, 0)
	return NewCapacityEstimator(runner, signer, attempts, time.Millisecond)
}

// TestEstimateComputeBound verifies that the compute cap decides capacity
// when the size bound is generous.
func TestEstimateComputeBound(t *testing.T) {
	runner := &fakeDryRunner{
		reports: []ledger.DryRunReport{{ComputeUnits: 700_000, SerializedSize: 200}},
		errs:    []error{nil},
	}

	capacity, err := newTestEstimator(runner, 3).Estimate(
		context.Background(), Operation("sample-op"), 100_000, 1_400_000)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if capacity != 2 {
		t.Errorf("expected compute-bound capacity 2, got %d", capacity)
	}
}

// TestEstimateSizeBoundClamp verifies that an already-full trial payload
// clamps to a capacity of one instead of zero.
func TestEstimateSizeBoundClamp(t *testing.T) {
	runner := &fakeDryRunner{
		reports: []ledger.DryRunReport{{ComputeUnits: 0, SerializedSize: 5_000}},
		errs:    []error{nil},
	}

	capacity, err := newTestEstimator(runner, 3).Estimate(
		context.Background(), Operation("sample-op"), 1_000, 1_400_000)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if capacity != 1 {
		t.Errorf("expected clamped capacity 1, got %d", capacity)
	}
}

// TestEstimateZeroComputeUnbounded verifies that a zero compute measurement
// leaves the size bound in charge instead of dividing by zero.
func TestEstimateZeroComputeUnbounded(t *testing.T) {
	runner := &fakeDryRunner{
		reports: []ledger.DryRunReport{{ComputeUnits: 0, SerializedSize: 100}},
		errs:    []error{nil},
	}

	capacity, err := newTestEstimator(runner, 3).Estimate(
		context.Background(), Operation("sample-op"), 100_000, 1)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if capacity < 2 {
		t.Errorf("expected size-bound capacity above 1, got %d", capacity)
	}
}

// TestEstimateRetriesTransientFailures verifies bounded retry of transport
// failures with eventual success.
func TestEstimateRetriesTransientFailures(t *testing.T) {
	runner := &fakeDryRunner{
		reports: []ledger.DryRunReport{{}, {ComputeUnits: 100, SerializedSize: 200}},
		errs:    []error{&ledger.TransportError{Detail: "timeout"}, nil},
	}

	if _, err := newTestEstimator(runner, 3).Estimate(
		context.Background(), Operation("sample-op"), 100_000, 1_400_000); err != nil {
		t.Fatalf("estimate should recover from a transient failure, got: %v", err)
	}
	if runner.calls != 2 {
		t.Errorf("expected 2 dry run calls, got %d", runner.calls)
	}
}

// TestEstimateExhaustsRetryBudget verifies the hard error after the attempt
// budget is spent on transport failures.
func TestEstimateExhaustsRetryBudget(t *testing.T) {
	runner := &fakeDryRunner{
		errs: []error{&ledger.TransportError{Detail: "timeout"}},
	}

	if _, err := newTestEstimator(runner, 3).Estimate(
		context.Background(), Operation("sample-op"), 100_000, 1_400_000); err == nil {
		t.Fatal("expected a hard error after exhausting the dry run budget")
	}
	if runner.calls != 3 {
		t.Errorf("expected 3 dry run calls, got %d", runner.calls)
	}
}

// TestEstimatePreflightAbortsImmediately verifies that a structural rejection
// of the trial batch is not retried.
func TestEstimatePreflightAbortsImmediately(t *testing.T) {
	runner := &fakeDryRunner{
		errs: []error{&ledger.PreflightError{Detail: "malformed envelope"}},
	}

	if _, err := newTestEstimator(runner, 3).Estimate(
		context.Background(), Operation("sample-op"), 100_000, 1_400_000); err == nil {
		t.Fatal("expected a hard error for a preflight rejection")
	}
	if runner.calls != 1 {
		t.Errorf("preflight rejection should not be retried, got %d calls", runner.calls)
	}
}

// TestEstimateRejectsEmptySample verifies the caller-misuse guard.
func TestEstimateRejectsEmptySample(t *testing.T) {
	runner := &fakeDryRunner{errs: []error{nil}, reports: []ledger.DryRunReport{{}}}

	if _, err := newTestEstimator(runner, 3).Estimate(
		context.Background(), nil, 100_000, 1_400_000); err == nil {
		t.Fatal("expected an error for an empty sample operation")
	}
	if runner.calls != 0 {
		t.Errorf("no dry run should happen for an empty sample, got %d calls", runner.calls)
	}
}
