// Package commands provides the complete command tree implementation for relayctl.
//
// This package defines the command structure for the Relay CLI tool, which
// drives batch submission runs against a ledger service and reads back the
// entries those runs produced.
//
// COMMAND STRUCTURE:
//   - submit: Pack, sign, and submit an operations file with bounded retries
//   - read: Fetch ledger entries by content-addressed key
//
// All commands follow consistent patterns with standardized flag handling,
// error messages, and output formatting.
package commands

import (
	"time"

	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "CLI tool for reliable batch submission against an asynchronous ledger service",
	Long: `Relay CLI (relayctl) packs operations into capacity-sized batches, signs
them under ephemeral authorization tokens, and drives them to durable
confirmation with bounded fixed-interval retries.

Every operation ends in exactly one terminal outcome: confirmed, rejected
in preflight, failed in transport, or exceeded retries.`,
	SilenceUsage: true,
	Example: `  # Submit an operations file and wait for settled confirmation
  relayctl submit ops.json --key-id=key-1 --key-material=@secret.key

  # Require finalized durability with more retry rounds
  relayctl submit ops.json --key-id=key-1 --key-material=@secret.key \
    --durability=finalized --max-rounds=8

  # Submit without capacity estimation, one operation per batch
  relayctl submit ops.json --key-id=key-1 --key-material=@secret.key --pack=none

  # Read back the entries an operations file produced
  relayctl read --ops-file=ops.json

  # Read specific entries by key
  relayctl read 4f2d... 9a1c...

  # Connect to a remote ledger API
  relayctl --endpoint=192.168.1.100:8418 submit ops.json --key-id=key-1 --key-material=@secret.key`,
}

// submitCmd drives a complete submission run
var submitCmd = &cobra.Command{
	Use:   "submit <ops-file>",
	Short: "Submit an operations file and drive it to durable confirmation",
	Long: `Submit reads a JSON array of operations, estimates per-batch capacity
with a dry run, packs and signs batches, and retries unresolved batches
across rounds until every operation reaches a terminal outcome.`,
	Args: cobra.ExactArgs(1),
}

// readCmd fetches ledger entries by key
var readCmd = &cobra.Command{
	Use:   "read [key...]",
	Short: "Fetch ledger entries by content-addressed key",
	Long: `Read fetches entries in bounded concurrent groups. Keys are given as
arguments, or derived from an operations file with --ops-file so a
submission can be verified end to end.`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(submitCmd)
	RootCmd.AddCommand(readCmd)
}

// GetSubmitCommand returns the submit command for flag and handler wiring
func GetSubmitCommand() *cobra.Command {
	return submitCmd
}

// GetReadCommand returns the read command for flag and handler wiring
func GetReadCommand() *cobra.Command {
	return readCmd
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, endpointPtr *string, logLevelPtr *string,
	timeoutPtr *int, verbosePtr *bool, defaultEndpoint string) {
	rootCmd.PersistentFlags().StringVar(endpointPtr, "endpoint", defaultEndpoint,
		"Ledger API address (host:port)")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR (suppressed unless --verbose or DEBUG=true)")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", 8,
		"Connection timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
}

// SetupSubmitFlags configures flags for the submit command
func SetupSubmitFlags(cmd *cobra.Command, keyIDPtr, keyMaterialPtr, durabilityPtr, packingPtr *string,
	maxRoundsPtr *int, settleDelayPtr *time.Duration, pollGroupPtr, pacingEveryPtr *int,
	pacingIntervalPtr *time.Duration, maxPayloadPtr *int, maxComputePtr *uint64) {
	cmd.Flags().StringVar(keyIDPtr, "key-id", "", "Signing key identifier")
	cmd.Flags().StringVar(keyMaterialPtr, "key-material", "",
		"Signing key secret, or @path to read it from a file")
	cmd.Flags().StringVar(durabilityPtr, "durability", "settled",
		"Required confirmation level: processed, settled, finalized")
	cmd.Flags().StringVar(packingPtr, "pack", "auto",
		"Batch packing mode: auto (dry-run capacity estimate) or none (one op per batch)")
	cmd.Flags().IntVar(maxRoundsPtr, "max-rounds", 5,
		"Maximum submission rounds per operation")
	cmd.Flags().DurationVar(settleDelayPtr, "settle-delay", 15*time.Second,
		"Fixed wait between dispatching a round and polling its receipts")
	cmd.Flags().IntVar(pollGroupPtr, "poll-group-size", 100,
		"Receipts per status poll call")
	cmd.Flags().IntVar(pacingEveryPtr, "pacing-every", 0,
		"Insert a pacing wait after every N batch submissions (0 disables)")
	cmd.Flags().DurationVar(pacingIntervalPtr, "pacing-interval", time.Second,
		"Pacing wait duration")
	cmd.Flags().IntVar(maxPayloadPtr, "max-payload-bytes", 1232,
		"Serialized envelope size cap per submission")
	cmd.Flags().Uint64Var(maxComputePtr, "max-compute", 1_400_000,
		"Compute unit cap per batch")
	cmd.MarkFlagRequired("key-id")
	cmd.MarkFlagRequired("key-material")
}

// SetupReadFlags configures flags for the read command
func SetupReadFlags(cmd *cobra.Command, groupSizePtr *int, opsFilePtr *string) {
	cmd.Flags().IntVar(groupSizePtr, "group-size", 100,
		"Keys per batched read call")
	cmd.Flags().StringVar(opsFilePtr, "ops-file", "",
		"Derive keys from the operations in this file instead of arguments")
}
