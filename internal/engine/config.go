// Package engine configuration.
//
// All tunables of a run live in one Config value validated up front, so a
// misconfigured engine fails at construction instead of mid-round. Defaults
// follow the same pattern as the rest of the codebase: a DefaultConfig
// constructor plus explicit validation helpers from internal/validate.
package engine

import (
	"fmt"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/validate"
)

// PackingMode selects how operations are grouped into batches.
type PackingMode string

const (
	// PackingAuto estimates per-batch capacity with a dry run of the first
	// operation and packs greedily up to that capacity.
	PackingAuto PackingMode = "auto"

	// PackingNone submits every operation as its own single-op batch,
	// skipping the dry run entirely.
	PackingNone PackingMode = "none"
)

// Engine defaults. Sized for a public ledger gateway with ~1.2KB payload
// frames and asynchronous settlement on the order of ten seconds.
const (
	// DefaultMaxRounds bounds the total submission attempts per operation.
	DefaultMaxRounds = 5

	// DefaultSettleDelay is the fixed wait between dispatching a round and
	// polling its receipts, covering the service's settlement latency.
	DefaultSettleDelay = 15 * time.Second

	// DefaultPollGroupSize is the receipt count per status poll call.
	DefaultPollGroupSize = 100

	// DefaultSubmitPacingEvery disables pacing: all batches of a round are
	// dispatched without inter-batch waits.
	DefaultSubmitPacingEvery = 0

	// DefaultSubmitPacingInterval is the wait inserted between pacing groups
	// when pacing is enabled.
	DefaultSubmitPacingInterval = 1 * time.Second

	// DefaultMaxPayloadBytes is the serialized envelope size cap enforced by
	// the service per submission.
	DefaultMaxPayloadBytes = 1232

	// DefaultMaxComputePerBatch is the per-batch compute unit cap used for
	// capacity estimation.
	DefaultMaxComputePerBatch = 1_400_000

	// DefaultTokenFetchAttempts bounds retries of the token fetch call.
	DefaultTokenFetchAttempts = 3

	// DefaultDryRunAttempts bounds retries of the capacity dry run call.
	DefaultDryRunAttempts = 3

	// DefaultRetryInterval is the fixed wait between attempts of the token
	// fetch and dry run retry loops. No adaptive backoff anywhere: waits are
	// constant and bounded by attempt counts.
	DefaultRetryInterval = 2 * time.Second

	// DefaultReadGroupSize is the key count per batched read call.
	DefaultReadGroupSize = 100
)

// Config carries every tunable of an engine run. Zero values are not usable;
// start from DefaultConfig and override.
type Config struct {
	// Packing selects auto capacity estimation or single-op batches.
	Packing PackingMode

	// Durability is the confirmation threshold a batch must reach before its
	// operations are recorded Confirmed.
	Durability ledger.DurabilityLevel

	// MaxRounds bounds submission attempts per operation. Must be >= 1.
	MaxRounds int

	// SettleDelay is the fixed wait between dispatch and the first status
	// poll of a round.
	SettleDelay time.Duration

	// PollGroupSize bounds receipts per status poll call. Must be >= 1.
	PollGroupSize int

	// SubmitPacingEvery inserts SubmitPacingInterval after every N batch
	// submissions within a round. Zero disables pacing.
	SubmitPacingEvery int

	// SubmitPacingInterval is the pacing wait. Required positive when
	// SubmitPacingEvery is set.
	SubmitPacingInterval time.Duration

	// MaxPayloadBytes is the serialized envelope size cap per submission.
	MaxPayloadBytes int

	// MaxComputePerBatch is the compute unit cap per batch. Required: there
	// is no service-derived fallback, so a zero value fails validation
	// instead of silently producing unbounded batches.
	MaxComputePerBatch uint64

	// TokenFetchAttempts bounds the token fetch retry loop. Must be >= 1.
	TokenFetchAttempts int

	// DryRunAttempts bounds the dry run retry loop. Must be >= 1.
	DryRunAttempts int

	// RetryInterval is the fixed wait between token fetch or dry run
	// attempts.
	RetryInterval time.Duration

	// ReadGroupSize bounds keys per batched read call. Must be >= 1.
	ReadGroupSize int
}

// DefaultConfig returns the engine defaults documented above, targeting
// settled durability with auto packing.
func DefaultConfig() Config {
	return Config{
		Packing:              PackingAuto,
		Durability:           ledger.DurabilitySettled,
		MaxRounds:            DefaultMaxRounds,
		SettleDelay:          DefaultSettleDelay,
		PollGroupSize:        DefaultPollGroupSize,
		SubmitPacingEvery:    DefaultSubmitPacingEvery,
		SubmitPacingInterval: DefaultSubmitPacingInterval,
		MaxPayloadBytes:      DefaultMaxPayloadBytes,
		MaxComputePerBatch:   DefaultMaxComputePerBatch,
		TokenFetchAttempts:   DefaultTokenFetchAttempts,
		DryRunAttempts:       DefaultDryRunAttempts,
		RetryInterval:        DefaultRetryInterval,
		ReadGroupSize:        DefaultReadGroupSize,
	}
}

// Validate checks the configuration for correctness before any network
// activity. Returns a descriptive error naming the offending field.
func (c *Config) Validate() error {
	switch c.Packing {
	case PackingAuto, PackingNone:
	default:
		return fmt.Errorf("invalid packing mode: %q (must be %q or %q)",
			c.Packing, PackingAuto, PackingNone)
	}

	switch c.Durability {
	case ledger.DurabilityProcessed, ledger.DurabilitySettled, ledger.DurabilityFinalized:
	default:
		return fmt.Errorf("invalid durability level for confirmation: %q", c.Durability)
	}

	if err := validate.ValidatePositiveCount(c.MaxRounds, "max rounds"); err != nil {
		return err
	}
	if err := validate.ValidateNonNegativeDuration(c.SettleDelay, "settle delay"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveCount(c.PollGroupSize, "poll group size"); err != nil {
		return err
	}
	if c.SubmitPacingEvery < 0 {
		return fmt.Errorf("submit pacing every must be >= 0, got %d", c.SubmitPacingEvery)
	}
	if c.SubmitPacingEvery > 0 {
		if err := validate.ValidatePositiveTimeout(c.SubmitPacingInterval, "submit pacing interval"); err != nil {
			return err
		}
	}
	if err := validate.ValidatePositiveCount(c.MaxPayloadBytes, "max payload bytes"); err != nil {
		return err
	}
	if c.MaxComputePerBatch == 0 {
		return fmt.Errorf("max compute per batch is required and must be > 0")
	}
	if err := validate.ValidatePositiveCount(c.TokenFetchAttempts, "token fetch attempts"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveCount(c.DryRunAttempts, "dry run attempts"); err != nil {
		return err
	}
	if err := validate.ValidateNonNegativeDuration(c.RetryInterval, "retry interval"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveCount(c.ReadGroupSize, "read group size"); err != nil {
		return err
	}

	return nil
}
