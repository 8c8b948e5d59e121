// Package sim ledger state machine.
//
// This file implements the simulator's in-memory ledger behind the HTTP
// handlers: token issuance and expiry, payload admission with duplicate
// detection, poll-driven durability progression, and content-addressed entry
// storage for the read path.
//
// DURABILITY PROGRESSION:
// Real consensus services advance a submission through durability levels over
// wall-clock time. The simulator advances on status polls instead, which lets
// tests drive a submission through processed, settled, and finalized states
// deterministically without sleeping. A submission is admitted at processed,
// settles after ConfirmAfterPolls polls, and finalizes after twice that.
// Entries become readable when their submission settles.
//
// All methods are safe for concurrent use; the engine's dispatcher and poller
// call in from many goroutines at once.
package sim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/utils"
)

// submission tracks one admitted payload through its durability progression.
type submission struct {
	payload []byte
	ops     [][]byte
	polls   int
	failed  bool
	detail  string
}

// Ledger is the simulator's in-memory service state.
type Ledger struct {
	mu          sync.Mutex
	config      *Config
	tokens      map[string]time.Time
	submissions map[ledger.ReceiptID]*submission
	entries     map[string][]byte
	now         func() time.Time
}

// NewLedger creates an empty ledger governed by config.
func NewLedger(config *Config) *Ledger {
	return &Ledger{
		config:      config,
		tokens:      make(map[string]time.Time),
		submissions: make(map[ledger.ReceiptID]*submission),
		entries:     make(map[string][]byte),
		now:         time.Now,
	}
}

// IssueToken mints a fresh authorization token valid for the configured TTL.
func (l *Ledger) IssueToken() (string, time.Duration, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate token: %w", err)
	}
	token := "tok-" + id

	l.mu.Lock()
	l.tokens[token] = l.now().Add(l.config.TokenTTL)
	l.mu.Unlock()

	return token, l.config.TokenTTL, nil
}

// ExpireAllTokens invalidates every outstanding token immediately. Test and
// demo hook for exercising the engine's expired-token path on demand.
func (l *Ledger) ExpireAllTokens() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for token := range l.tokens {
		l.tokens[token] = time.Time{}
	}
}

// tokenValid reports whether token exists and has not expired. Caller holds mu.
func (l *Ledger) tokenValid(token string) bool {
	expiry, ok := l.tokens[token]
	return ok && l.now().Before(expiry)
}

// parseEnvelope validates the structural shape of a payload: well-formed
// JSON, a key ID, a signature, and at least one operation. Structural
// violations are preflight rejections regardless of token state.
func (l *Ledger) parseEnvelope(payload []byte) (*ledger.Envelope, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if len(payload) > l.config.MaxPayloadBytes {
		return nil, fmt.Errorf("payload is %d bytes, limit is %d", len(payload), l.config.MaxPayloadBytes)
	}

	var envelope ledger.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("malformed envelope: %v", err)
	}
	if envelope.KeyID == "" {
		return nil, fmt.Errorf("missing key ID")
	}
	if len(envelope.Signature) == 0 {
		return nil, fmt.Errorf("missing signature")
	}
	if len(envelope.Ops) == 0 {
		return nil, fmt.Errorf("envelope carries no operations")
	}

	return &envelope, nil
}

// DryRun measures a payload without admitting it. Structural violations
// return an error exactly like a real submission would, so capacity probes
// see the same preflight surface as real traffic.
func (l *Ledger) DryRun(payload []byte) (ledger.DryRunReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	envelope, err := l.parseEnvelope(payload)
	if err != nil {
		return ledger.DryRunReport{}, err
	}

	return ledger.DryRunReport{
		ComputeUnits:   uint64(len(envelope.Ops)) * l.config.ComputePerOp,
		SerializedSize: len(payload),
	}, nil
}

// Submit admits a payload for asynchronous execution. Returns the receipt on
// admission; ledger.ErrTokenExpired for stale tokens, ledger.ErrDuplicateSubmission
// when the identical payload was admitted before, or a plain error for
// structural preflight violations.
func (l *Ledger) Submit(payload []byte) (ledger.ReceiptID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	envelope, err := l.parseEnvelope(payload)
	if err != nil {
		return "", err
	}
	if !l.tokenValid(envelope.Token) {
		return "", ledger.ErrTokenExpired
	}

	receipt := ledger.ComputeReceipt(payload)
	if _, exists := l.submissions[receipt]; exists {
		return receipt, ledger.ErrDuplicateSubmission
	}

	sub := &submission{
		payload: payload,
		ops:     envelope.Ops,
	}
	if l.config.FailMarker != "" {
		for _, op := range envelope.Ops {
			if bytes.Contains(op, []byte(l.config.FailMarker)) {
				sub.failed = true
				sub.detail = "execution failed: poisoned operation"
				break
			}
		}
	}
	l.submissions[receipt] = sub

	return receipt, nil
}

// Status reports durability for a set of receipts, advancing each polled
// submission one step through its progression. Unknown receipts come back
// with Known false rather than an error; not having landed yet is a normal
// state, not a fault.
func (l *Ledger) Status(receipts []string) []ledger.ReceiptStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	statuses := make([]ledger.ReceiptStatus, len(receipts))
	for i, id := range receipts {
		receipt := ledger.ReceiptID(id)
		sub, ok := l.submissions[receipt]
		if !ok {
			statuses[i] = ledger.ReceiptStatus{Receipt: receipt}
			continue
		}

		sub.polls++
		durability := l.durabilityFor(sub)
		if durability >= ledger.DurabilitySettled && !sub.failed {
			l.materializeEntries(sub)
		}

		statuses[i] = ledger.ReceiptStatus{
			Receipt:    receipt,
			Known:      true,
			Failed:     sub.failed,
			Detail:     sub.detail,
			Durability: durability,
		}
	}

	return statuses
}

// durabilityFor maps a submission's poll count to its current durability
// level. Caller holds mu.
func (l *Ledger) durabilityFor(sub *submission) ledger.DurabilityLevel {
	switch {
	case sub.failed:
		return ledger.DurabilityNone
	case sub.polls >= 2*l.config.ConfirmAfterPolls:
		return ledger.DurabilityFinalized
	case sub.polls >= l.config.ConfirmAfterPolls:
		return ledger.DurabilitySettled
	default:
		return ledger.DurabilityProcessed
	}
}

// materializeEntries makes a settled submission's operations readable under
// their content-addressed keys. Idempotent. Caller holds mu.
func (l *Ledger) materializeEntries(sub *submission) {
	for _, op := range sub.ops {
		l.entries[ledger.EntryKey(op)] = op
	}
}

// Read returns entry values positionally aligned with keys, nil for keys
// with no settled entry.
func (l *Ledger) Read(keys []string) [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = l.entries[key]
	}
	return values
}
