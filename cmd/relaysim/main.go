// Package main implements the Relay ledger simulator daemon (relaysim).
// The simulator serves the ledger submission API from in-memory state with
// configurable token lifetimes, settlement pacing, and admission limits, so
// engine runs and CLI workflows can be exercised without a real consensus
// service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	internalconfig "github.com/crestline-dev/relay/internal/config"
	"github.com/crestline-dev/relay/internal/logging"
	"github.com/crestline-dev/relay/internal/sim"
	"github.com/crestline-dev/relay/internal/validate"
	"github.com/crestline-dev/relay/internal/version"
	"github.com/spf13/cobra"
)

const (
	DefaultBind = "127.0.0.1:8418" // Default bind address
)

// Version returns the simulator version from the centralized version package
var Version = version.RelaysimVersion

// Global configuration
var config struct {
	BindAddr        string        // Network address to bind to
	BindPort        int           // Network port to bind to
	TokenTTL        time.Duration // Validity window of issued tokens
	ConfirmAfter    int           // Status polls before a submission settles
	MaxPayloadBytes int           // Envelope size admission limit
	FailMarker      string        // Ops containing this marker fail after admission
	LogLevel        string        // Log level: DEBUG, INFO, WARN, ERROR
	LogFile         string        // Optional log file path (empty means stdout/stderr)
}

// Root command
var rootCmd = &cobra.Command{
	Use:   "relaysim",
	Short: "In-memory ledger service simulator for Relay development and testing",
	Long: `Relay simulator (relaysim) serves the ledger submission API from
in-memory state: token issuance with expiry, payload admission with
duplicate detection, poll-driven durability progression, and
content-addressed entry reads.

Timing knobs compress real-world settlement into whatever a test or
demo needs.`,
	Version: Version,
	Example: `  # Start with defaults on 127.0.0.1:8418
  relaysim

  # Short token TTL to exercise the expired-token retry path
  relaysim --token-ttl=2s

  # Slow settlement: three polls before a submission settles
  relaysim --confirm-after=3

  # Fail any operation containing a marker, for failure-path testing
  relaysim --fail-marker=poison`,
	PreRunE: validateConfig,
	RunE:    runSimulator,
}

func init() {
	// Network flags
	rootCmd.Flags().StringVar(&config.BindAddr, "bind", DefaultBind,
		"Address and port to bind to (e.g., 0.0.0.0:8418)")

	// Ledger behavior flags
	rootCmd.Flags().DurationVar(&config.TokenTTL, "token-ttl", sim.DefaultTokenTTL,
		"Validity window of issued authorization tokens")
	rootCmd.Flags().IntVar(&config.ConfirmAfter, "confirm-after", sim.DefaultConfirmAfterPolls,
		"Status polls before a submission settles (finalizes after twice as many)")
	rootCmd.Flags().IntVar(&config.MaxPayloadBytes, "max-payload-bytes", sim.DefaultMaxPayloadBytes,
		"Serialized envelope size admission limit")
	rootCmd.Flags().StringVar(&config.FailMarker, "fail-marker", "",
		"Operations containing this marker fail after admission (empty disables)")

	// Operational flags
	rootCmd.Flags().StringVar(&config.LogLevel, "log-level", internalconfig.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.Flags().StringVar(&config.LogFile, "log-file", "",
		"Write logs to this file instead of stdout/stderr (empty disables)")
}

// Validates configuration before running
func validateConfig(cmd *cobra.Command, args []string) error {
	// Parse and validate bind address using centralized validation
	netAddr, err := validate.ParseBindAddress(config.BindAddr)
	if err != nil {
		return fmt.Errorf("invalid bind address: %w", err)
	}

	// Simulator requires a non-zero port (port 0 would let OS choose)
	if err := validate.ValidateField(netAddr.Port, "required,min=1,max=65535"); err != nil {
		return fmt.Errorf("simulator requires specific port (not 0): %w", err)
	}

	config.BindAddr = netAddr.Host
	config.BindPort = netAddr.Port

	if err := logging.ValidateLogLevel(config.LogLevel); err != nil {
		return err
	}

	return nil
}

// buildSimConfig converts daemon flags to the simulator configuration
func buildSimConfig() *sim.Config {
	simConfig := sim.DefaultConfig()

	simConfig.BindAddr = config.BindAddr
	simConfig.BindPort = config.BindPort
	simConfig.TokenTTL = config.TokenTTL
	simConfig.ConfirmAfterPolls = config.ConfirmAfter
	simConfig.MaxPayloadBytes = config.MaxPayloadBytes
	simConfig.FailMarker = config.FailMarker

	return simConfig
}

// Runs the simulator with graceful shutdown handling
func runSimulator(cmd *cobra.Command, args []string) error {
	if config.LogFile != "" {
		logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		logging.SetOutput(logFile)
	}
	logging.SetLevel(config.LogLevel)

	// net/http falls back to the standard logger for internal server errors;
	// route it through the leveled writer so those lines match our format.
	logging.RedirectStandardLog(logging.NewLevelWriter("ERROR", "http"))

	logging.Info("Starting Relay ledger simulator v%s", Version)
	logging.Info("Binding to %s:%d", config.BindAddr, config.BindPort)
	logging.Info("Token TTL: %v, settle after %d polls, payload limit %d bytes",
		config.TokenTTL, config.ConfirmAfter, config.MaxPayloadBytes)

	simConfig := buildSimConfig()
	if err := simConfig.Validate(); err != nil {
		return fmt.Errorf("invalid simulator configuration: %w", err)
	}

	server := sim.NewServer(simConfig)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start simulator: %w", err)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logging.Info("Simulator running... Press Ctrl+C to shutdown")
	<-sigCh

	logging.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logging.Success("Simulator stopped")
	return nil
}

// main is the main entry point
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
