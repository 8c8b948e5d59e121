package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/sim"
)

// startSim mounts the simulator behind httptest and returns a client wired
// to it. Exercises the full wire path: resty client, gin router, JSON codecs.
func startSim(t *testing.T, config *sim.Config) *ledger.HTTPClient {
	t.Helper()
	server := httptest.NewServer(sim.NewServer(config).Handler())
	t.Cleanup(server.Close)
	return ledger.NewHTTPClient(strings.TrimPrefix(server.URL, "http://"), 5*time.Second)
}

// framePayload builds a serialized envelope for direct wire tests.
func framePayload(t *testing.T, token string, ops ...string) []byte {
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
		t.Fatalf("failed to frame payload: %v", err)
	}
	return payload
}

// TestHTTPClientSubmissionRoundTrip drives a payload through token fetch,
// dry run, submission, status polling, and entry reads against the simulator.
func TestHTTPClientSubmissionRoundTrip(t *testing.T) {
	config := sim.DefaultConfig()
	config.MaxPayloadBytes = 4096
	client := startSim(t, config)
	ctx := context.Background()

	token, err := client.FetchToken(ctx)
	if err != nil {
		t.Fatalf("token fetch failed: %v", err)
	}
	if token.Value == "" {
		t.Fatal("expected a non-empty token")
	}

	payload := framePayload(t, token.Value, "op-a", "op-b")
	signed := ledger.SignedBatch{
		Payload: payload,
		Receipt: ledger.ComputeReceipt(payload),
		Token:   token.Value,
	}

	report, err := client.DryRun(ctx, signed)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if report.SerializedSize != len(payload) {
		t.Errorf("expected measured size %d, got %d", len(payload), report.SerializedSize)
	}
	if report.ComputeUnits == 0 {
		t.Error("expected a non-zero compute measurement")
	}

	receipt, err := client.Submit(ctx, signed)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if receipt != signed.Receipt {
		t.Error("service receipt should match the client-side derivation")
	}

	statuses, err := client.PollStatus(ctx, []ledger.ReceiptID{receipt}, ledger.DurabilitySettled)
	if err != nil {
		t.Fatalf("status poll failed: %v", err)
	}
	if len(statuses) != 1 || !statuses[0].Known {
		t.Fatal("expected the receipt to be known")
	}
	if statuses[0].Durability < ledger.DurabilitySettled {
		t.Errorf("expected settled after the first poll, got %s", statuses[0].Durability)
	}

	values, err := client.ReadMany(ctx, []string{
		ledger.EntryKey([]byte("op-a")),
		"absent-key",
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(values[0]) != "op-a" {
		t.Errorf("expected the settled entry back, got %q", values[0])
	}
	if values[1] != nil {
		t.Error("absent key should come back nil")
	}
}

// TestHTTPClientErrorClassification verifies the status-to-error mapping the
// engine's dispatcher depends on.
func TestHTTPClientErrorClassification(t *testing.T) {
	config := sim.DefaultConfig()
	config.MaxPayloadBytes = 4096
	client := startSim(t, config)
	ctx := context.Background()

	token, err := client.FetchToken(ctx)
	if err != nil {
		t.Fatalf("token fetch failed: %v", err)
	}

	t.Run("expired token", func(t *testing.T) {
		payload := framePayload(t, "tok-stale", "op-a")
		_, err := client.Submit(ctx, ledger.SignedBatch{
			Payload: payload,
			Receipt: ledger.ComputeReceipt(payload),
			Token:   "tok-stale",
		})
		if !errors.Is(err, ledger.ErrTokenExpired) {
			t.Errorf("expected token-expired, got %v", err)
		}
	})

	t.Run("duplicate submission", func(t *testing.T) {
		payload := framePayload(t, token.Value, "op-dup")
		signed := ledger.SignedBatch{
			Payload: payload,
			Receipt: ledger.ComputeReceipt(payload),
			Token:   token.Value,
		}
		if _, err := client.Submit(ctx, signed); err != nil {
			t.Fatalf("first submit failed: %v", err)
		}
		if _, err := client.Submit(ctx, signed); !errors.Is(err, ledger.ErrDuplicateSubmission) {
			t.Errorf("expected duplicate error, got %v", err)
		}
	})

	t.Run("preflight rejection", func(t *testing.T) {
		payload := []byte(`{"token":"t","key_id":"k","signature":"c2ln","ops":[]}`)
		_, err := client.Submit(ctx, ledger.SignedBatch{
			Payload: payload,
			Receipt: ledger.ComputeReceipt(payload),
			Token:   "t",
		})
		var preflight *ledger.PreflightError
		if !errors.As(err, &preflight) {
			t.Errorf("expected a preflight error, got %v", err)
		}
	})

	t.Run("dry run preflight", func(t *testing.T) {
		oversized := framePayload(t, token.Value, strings.Repeat("x", config.MaxPayloadBytes))
		_, err := client.DryRun(ctx, ledger.SignedBatch{
			Payload: oversized,
			Receipt: ledger.ComputeReceipt(oversized),
			Token:   token.Value,
		})
		var preflight *ledger.PreflightError
		if !errors.As(err, &preflight) {
			t.Errorf("expected a preflight error for the oversized trial, got %v", err)
		}
	})
}

// TestHTTPClientTransportError verifies that an unreachable endpoint surfaces
// as a typed transport error.
func TestHTTPClientTransportError(t *testing.T) {
	client := ledger.NewHTTPClient("127.0.0.1:1", 500*time.Millisecond)

	_, err := client.FetchToken(context.Background())
	var transport *ledger.TransportError
	if !errors.As(err, &transport) {
		t.Errorf("expected a transport error, got %v", err)
	}
}
