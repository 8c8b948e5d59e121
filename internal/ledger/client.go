// Package ledger narrow client interfaces.
//
// The engine depends on these small single-call interfaces rather than a
// concrete client so tests can script each boundary call independently and
// components only see the calls they are allowed to make: the capacity
// estimator cannot submit, the confirmation poller cannot fetch tokens.
package ledger

import "context"

// TokenSource fetches ephemeral authorization tokens. One token is shared by
// all batches of a retry round.
type TokenSource interface {
	FetchToken(ctx context.Context) (AuthorizationToken, error)
}

// DryRunner measures the cost of a signed batch without admitting it.
// Used once per run by the capacity estimator.
type DryRunner interface {
	DryRun(ctx context.Context, batch SignedBatch) (DryRunReport, error)
}

// Submitter submits a signed batch for asynchronous execution. On success the
// returned receipt equals the client-side derivation ComputeReceipt(payload).
// Rejections surface as the typed errors in errors.go.
type Submitter interface {
	Submit(ctx context.Context, batch SignedBatch) (ReceiptID, error)
}

// StatusPoller reports durability status for a group of receipts. The service
// bounds the group size; callers split larger sets into multiple calls.
type StatusPoller interface {
	PollStatus(ctx context.Context, receipts []ReceiptID, required DurabilityLevel) ([]ReceiptStatus, error)
}

// Reader fetches ledger entries by key. Absent keys yield nil values at the
// matching positions. Used by the read-side batched fetcher only.
type Reader interface {
	ReadMany(ctx context.Context, keys []string) ([][]byte, error)
}

// Service is the full ledger boundary: everything the write path and the
// read path together consume.
type Service interface {
	TokenSource
	DryRunner
	Submitter
	StatusPoller
	Reader
}
