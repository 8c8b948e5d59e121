package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/crestline-dev/relay/internal/ledger"
)

// TestDefaultConfigValid verifies the shipped defaults pass validation.
func TestDefaultConfigValid(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid, got: %v", err)
	}
}

// TestConfigValidate verifies per-field validation failures.
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown packing mode",
			mutate:  func(c *Config) { c.Packing = "eager" },
			wantErr: "packing mode",
		},
		{
			name:    "durability none cannot confirm",
			mutate:  func(c *Config) { c.Durability = ledger.DurabilityNone },
			wantErr: "durability",
		},
		{
			name:    "zero max rounds",
			mutate:  func(c *Config) { c.MaxRounds = 0 },
			wantErr: "max rounds",
		},
		{
			name:    "negative settle delay",
			mutate:  func(c *Config) { c.SettleDelay = -time.Second },
			wantErr: "settle delay",
		},
		{
			name:    "zero poll group size",
			mutate:  func(c *Config) { c.PollGroupSize = 0 },
			wantErr: "poll group size",
		},
		{
			name:    "negative pacing every",
			mutate:  func(c *Config) { c.SubmitPacingEvery = -1 },
			wantErr: "pacing every",
		},
		{
			name: "pacing enabled without interval",
			mutate: func(c *Config) {
				c.SubmitPacingEvery = 4
				c.SubmitPacingInterval = 0
			},
			wantErr: "pacing interval",
		},
		{
			name:    "zero max payload bytes",
			mutate:  func(c *Config) { c.MaxPayloadBytes = 0 },
			wantErr: "max payload bytes",
		},
		{
			name:    "missing max compute per batch",
			mutate:  func(c *Config) { c.MaxComputePerBatch = 0 },
			wantErr: "max compute per batch",
		},
		{
			name:    "zero token fetch attempts",
			mutate:  func(c *Config) { c.TokenFetchAttempts = 0 },
			wantErr: "token fetch attempts",
		},
		{
			name:    "zero dry run attempts",
			mutate:  func(c *Config) { c.DryRunAttempts = 0 },
			wantErr: "dry run attempts",
		},
		{
			name:    "negative retry interval",
			mutate:  func(c *Config) { c.RetryInterval = -time.Millisecond },
			wantErr: "retry interval",
		},
		{
			name:    "zero read group size",
			mutate:  func(c *Config) { c.ReadGroupSize = 0 },
			wantErr: "read group size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigValidateDisabledPacing verifies that pacing zero tolerates any
// interval value since the interval is never used.
func TestConfigValidateDisabledPacing(t *testing.T) {
	config := DefaultConfig()
	config.SubmitPacingEvery = 0
	config.SubmitPacingInterval = 0

	if err := config.Validate(); err != nil {
		t.Errorf("disabled pacing should not require an interval, got: %v", err)
	}
}
