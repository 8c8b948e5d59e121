// Package engine signing.
//
// The signer is the only component that touches key material or talks to the
// token endpoint. It turns a packed batch plus the round's shared token into
// the service's wire envelope and derives the deterministic receipt from the
// exact submitted bytes. Deriving the receipt locally, before submission, is
// what lets the dispatcher keep tracking a batch whose submit call came back
// ambiguous (token expired after possible admission).
package engine

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/logging"
)

// SigningKey is the caller-held identity used to authorize submissions.
// Material never leaves the process; only the HMAC signature goes on the wire.
type SigningKey struct {
	ID       string
	Material []byte
}

// Signer binds a signing key to a token source and produces submittable
// signed batches. One signer is shared by all rounds of a run; tokens are not
// cached across rounds because they expire on the order of a round.
type Signer struct {
	tokens   ledger.TokenSource
	key      SigningKey
	attempts int
	interval time.Duration
}

// NewSigner creates a signer with a bounded fixed-interval retry budget for
// token fetches.
func NewSigner(tokens ledger.TokenSource, key SigningKey, attempts int, interval time.Duration) *Signer {
	return &Signer{
		tokens:   tokens,
		key:      key,
		attempts: attempts,
		interval: interval,
	}
}

// RefreshToken fetches a fresh authorization token, retrying transient
// failures at a fixed interval up to the configured attempt budget. Exhausting
// the budget is a hard error that aborts the entire run: without a token no
// batch of the round can be signed.
func (s *Signer) RefreshToken(ctx context.Context) (ledger.AuthorizationToken, error) {
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		token, err := s.tokens.FetchToken(ctx)
		if err == nil {
			return token, nil
		}

		lastErr = err
		logging.Warn("Token fetch attempt %d/%d failed: %v", attempt, s.attempts, err)

		if attempt < s.attempts {
			time.Sleep(s.interval)
		}
	}

	return ledger.AuthorizationToken{}, fmt.Errorf("token fetch failed after %d attempts: %w",
		s.attempts, lastErr)
}

// Sign produces the wire envelope for a batch under the given token and
// derives the batch's receipt from the serialized payload. The signature is
// an HMAC-SHA256 over the token followed by each operation in order, so the
// same operations under a fresh token produce a distinct payload and receipt.
func (s *Signer) Sign(batch Batch, token ledger.AuthorizationToken) (ledger.SignedBatch, error) {
	ops := make([][]byte, len(batch.Ops))
	mac := hmac.New(sha256.New, s.key.Material)
	mac.Write([]byte(token.Value))
	for i, op := range batch.Ops {
		ops[i] = op
		mac.Write(op)
	}

	envelope := ledger.Envelope{
		Token:     token.Value,
		KeyID:     s.key.ID,
		Signature: mac.Sum(nil),
		Ops:       ops,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return ledger.SignedBatch{}, fmt.Errorf("failed to serialize envelope: %w", err)
	}

	return ledger.SignedBatch{
		Payload: payload,
		Receipt: ledger.ComputeReceipt(payload),
		Token:   token.Value,
	}, nil
}
