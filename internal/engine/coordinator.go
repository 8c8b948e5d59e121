// Package engine retry coordination.
//
// The coordinator is the engine's public entry point and the owner of the
// round loop. One Run call takes a flat operation list and drives it to a
// complete result table: estimate capacity once, then up to MaxRounds times
// refresh the token, sign and dispatch the unresolved batches, wait out the
// settlement delay, and poll for confirmations. Waits are fixed-interval and
// attempt-bounded throughout; there is no adaptive backoff anywhere in the
// engine.
//
// Rounds are not cancellable mid-flight: the context is threaded into every
// network call, but between calls the round runs to its natural join so the
// result table is never left with half-classified batches.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/logging"
)

// Coordinator drives complete submission runs against a ledger service.
type Coordinator struct {
	service ledger.Service
	signer  *Signer
	config  Config
	obs     Observer
}

// NewCoordinator creates a coordinator for the given service, signing key,
// and configuration. Pass a nil observer to run silently. Fails if the
// configuration or key is invalid; nothing touches the network here.
func NewCoordinator(service ledger.Service, key SigningKey, config Config, obs Observer) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	if key.ID == "" {
		return nil, fmt.Errorf("signing key ID cannot be empty")
	}
	if len(key.Material) == 0 {
		return nil, fmt.Errorf("signing key material cannot be empty")
	}
	if obs == nil {
		obs = NopObserver{}
	}

	return &Coordinator{
		service: service,
		signer:  NewSigner(service, key, config.TokenFetchAttempts, config.RetryInterval),
		config:  config,
		obs:     obs,
	}, nil
}

// Run submits ops and drives them to terminal outcomes. Always returns a
// table with one entry per operation when err is nil; a non-nil error means
// the run aborted before its round budget (token fetch exhausted, capacity
// estimation failed) and no table is returned.
//
// An empty operation list completes immediately with an empty table and no
// network activity.
func (c *Coordinator) Run(ctx context.Context, ops []Operation) (*ResultTable, error) {
	table := NewResultTable(len(ops))
	if len(ops) == 0 {
		c.obs.RunCompleted(table.Summary())
		return table, nil
	}

	capacity := 1
	if c.config.Packing == PackingAuto {
		estimator := NewCapacityEstimator(c.service, c.signer, c.config.DryRunAttempts, c.config.RetryInterval)
		var err error
		capacity, err = estimator.Estimate(ctx, ops[0], c.config.MaxPayloadBytes, c.config.MaxComputePerBatch)
		if err != nil {
			return nil, err
		}
	}

	batches := PackOperations(ops, capacity)
	logging.Info("Submitting %d operations in %d batches (capacity %d, durability %s)",
		len(ops), len(batches), capacity, c.config.Durability)

	dispatcher := NewDispatcher(c.service, table, c.obs,
		c.config.SubmitPacingEvery, c.config.SubmitPacingInterval)
	poller := NewConfirmationPoller(c.service, table, c.obs,
		c.config.PollGroupSize, c.config.Durability)

	for round := 1; round <= c.config.MaxRounds && len(batches) > 0; round++ {
		c.obs.RoundStarted(round, c.config.MaxRounds, table.PendingCount())

		// One fresh token per round, shared by every batch in it. This also
		// covers the forced refresh after a mid-round token expiry.
		token, err := c.signer.RefreshToken(ctx)
		if err != nil {
			return nil, err
		}

		subs := make([]Submission, 0, len(batches))
		for _, batch := range batches {
			signed, err := c.signer.Sign(batch, token)
			if err != nil {
				return nil, err
			}
			subs = append(subs, Submission{Batch: batch, Signed: signed})
		}

		dispatched := dispatcher.Dispatch(ctx, subs)
		if len(dispatched.Inflight) == 0 {
			// Every batch of the round failed terminally at submit time.
			// Nothing to settle or poll.
			batches = nil
			break
		}
		if dispatched.TokenExpired {
			logging.Warn("Round %d hit an expired token; next round uses a fresh one", round)
		}

		if c.config.SettleDelay > 0 {
			logging.Debug("Waiting %v for settlement before polling", c.config.SettleDelay)
			time.Sleep(c.config.SettleDelay)
		}

		batches = poller.Poll(ctx, dispatched.Inflight)
	}

	summary := table.Summary()
	c.obs.RunCompleted(summary)
	return table, nil
}
