package sim

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/crestline-dev/relay/internal/ledger"
)

// buildPayload frames ops into a serialized envelope under token, panicking
// on marshal failure since test inputs are static.
func buildPayload(t *testing.T, token string, ops ...string) []byte {
	t.Helper()
	envelope := ledger.Envelope{
		Token:     token,
		KeyID:     "key-1",
		Signature: []byte("test-signature"),
		Ops:       make([][]byte, len(ops)),
	}
	for i, op := range ops {
		envelope.Ops[i] = []byte(op)
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("failed to build payload: %v", err)
	}
	return payload
}

func testLedgerConfig() *Config {
	config := DefaultConfig()
	config.MaxPayloadBytes = 4096
	return config
}

// TestSubmitLifecycle verifies admission, duplicate detection, and receipt
// derivation.
func TestSubmitLifecycle(t *testing.T) {
	state := NewLedger(testLedgerConfig())

	token, _, err := state.IssueToken()
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}

	payload := buildPayload(t, token, "op-a")
	receipt, err := state.Submit(payload)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if receipt != ledger.ComputeReceipt(payload) {
		t.Error("receipt should be the deterministic hash of the payload")
	}

	again, err := state.Submit(payload)
	if !errors.Is(err, ledger.ErrDuplicateSubmission) {
		t.Errorf("expected duplicate error, got %v", err)
	}
	if again != receipt {
		t.Error("duplicate answer should name the original receipt")
	}
}

// TestSubmitTokenValidation verifies rejection of unknown and expired tokens.
func TestSubmitTokenValidation(t *testing.T) {
	state := NewLedger(testLedgerConfig())

	if _, err := state.Submit(buildPayload(t, "tok-unknown", "op-a")); !errors.Is(err, ledger.ErrTokenExpired) {
		t.Errorf("unknown token: expected token-expired, got %v", err)
	}

	token, _, err := state.IssueToken()
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	state.ExpireAllTokens()
	if _, err := state.Submit(buildPayload(t, token, "op-a")); !errors.Is(err, ledger.ErrTokenExpired) {
		t.Errorf("expired token: expected token-expired, got %v", err)
	}
}

// TestSubmitPreflightRejections verifies structural rejection cases.
func TestSubmitPreflightRejections(t *testing.T) {
	config := testLedgerConfig()
	config.MaxPayloadBytes = 64
	state := NewLedger(config)

	token, _, err := state.IssueToken()
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		{
			name:    "empty payload",
			payload: nil,
		},
		{
			name:    "malformed envelope",
			payload: []byte("{not json"),
		},
		{
			name:    "no operations",
			payload: []byte(`{"token":"t","key_id":"k","signature":"c2ln","ops":[]}`),
		},
		{
			name:    "oversized payload",
			payload: buildPayload(t, token, "this operation is comfortably past the tiny limit"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := state.Submit(tt.payload)
			if err == nil {
				t.Fatal("expected a preflight rejection")
			}
			if errors.Is(err, ledger.ErrTokenExpired) || errors.Is(err, ledger.ErrDuplicateSubmission) {
				t.Errorf("expected a structural rejection, got %v", err)
			}
		})
	}
}

// TestDurabilityProgression verifies the poll-driven advance through
// processed, settled, and finalized.
func TestDurabilityProgression(t *testing.T) {
	config := testLedgerConfig()
	config.ConfirmAfterPolls = 2
	state := NewLedger(config)

	token, _, err := state.IssueToken()
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	receipt, err := state.Submit(buildPayload(t, token, "op-a"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	want := []ledger.DurabilityLevel{
		ledger.DurabilityProcessed, // poll 1
		ledger.DurabilitySettled,   // poll 2
		ledger.DurabilitySettled,   // poll 3
		ledger.DurabilityFinalized, // poll 4
	}
	for i, expected := range want {
		statuses := state.Status([]string{string(receipt)})
		if len(statuses) != 1 {
			t.Fatalf("poll %d: expected 1 status, got %d", i+1, len(statuses))
		}
		if !statuses[0].Known {
			t.Fatalf("poll %d: receipt should be known", i+1)
		}
		if statuses[0].Durability != expected {
			t.Errorf("poll %d: expected %s, got %s", i+1, expected, statuses[0].Durability)
		}
	}
}

// TestStatusUnknownReceipt verifies that an unseen receipt reports Known
// false instead of erroring.
func TestStatusUnknownReceipt(t *testing.T) {
	state := NewLedger(testLedgerConfig())

	statuses := state.Status([]string{"no-such-receipt"})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Known {
		t.Error("unseen receipt should not be known")
	}
	if statuses[0].Durability != ledger.DurabilityNone {
		t.Errorf("unseen receipt should report durability none, got %s", statuses[0].Durability)
	}
}

// TestEntriesReadableAfterSettle verifies the content-addressed read path
// becomes live exactly when the submission settles.
func TestEntriesReadableAfterSettle(t *testing.T) {
	state := NewLedger(testLedgerConfig())

	token, _, err := state.IssueToken()
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	receipt, err := state.Submit(buildPayload(t, token, "op-a", "op-b"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	keyA := ledger.EntryKey([]byte("op-a"))
	keyB := ledger.EntryKey([]byte("op-b"))

	if values := state.Read([]string{keyA}); values[0] != nil {
		t.Error("entry should not be readable before settlement")
	}

	// One poll settles at the default confirm-after count.
	state.Status([]string{string(receipt)})

	values := state.Read([]string{keyA, keyB, "absent-key"})
	if string(values[0]) != "op-a" || string(values[1]) != "op-b" {
		t.Error("settled entries should read back their operation payloads")
	}
	if values[2] != nil {
		t.Error("absent key should read back nil")
	}
}

// TestFailMarker verifies that marked operations fail after admission with a
// terminal detail instead of settling.
func TestFailMarker(t *testing.T) {
	config := testLedgerConfig()
	config.FailMarker = "poison"
	state := NewLedger(config)

	token, _, err := state.IssueToken()
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	receipt, err := state.Submit(buildPayload(t, token, "op-with-poison-inside"))
	if err != nil {
		t.Fatalf("submit should admit the batch before failing it, got: %v", err)
	}

	statuses := state.Status([]string{string(receipt)})
	if !statuses[0].Failed {
		t.Fatal("marked operation should report failure")
	}
	if statuses[0].Detail == "" {
		t.Error("failure should carry a detail message")
	}
	if values := state.Read([]string{ledger.EntryKey([]byte("op-with-poison-inside"))}); values[0] != nil {
		t.Error("failed submission must not materialize entries")
	}
}

// TestDryRunReport verifies the synthetic cost model.
func TestDryRunReport(t *testing.T) {
	state := NewLedger(testLedgerConfig())

	payload := buildPayload(t, "tok-any", "op-a", "op-b", "op-c")
	report, err := state.DryRun(payload)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	if report.ComputeUnits != 3*DefaultComputePerOp {
		t.Errorf("expected %d compute units, got %d", 3*DefaultComputePerOp, report.ComputeUnits)
	}
	if report.SerializedSize != len(payload) {
		t.Errorf("expected serialized size %d, got %d", len(payload), report.SerializedSize)
	}
}
