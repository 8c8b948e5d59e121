// Package main provides the entry point for the Relay CLI tool (relayctl).
//
// This package implements the main executable for driving reliable batch
// submission runs against an asynchronous ledger service. The CLI packs
// caller operations into capacity-sized batches, signs them under ephemeral
// tokens, submits them concurrently, and polls receipts until every
// operation reaches a terminal outcome.
//
// CLI ARCHITECTURE:
// The main package orchestrates the complete CLI system including:
//   - Command Structure: submit and read commands over a shared root
//   - Handler Integration: Command execution through the submission engine
//   - Flag Management: Global and command-specific configuration options
//   - Configuration Binding: CLI state management and validation pipeline
//
// INITIALIZATION FLOW:
// 1. Command structure setup
// 2. Flag configuration for global and command-specific options
// 3. Handler assignment linking commands to engine operations
// 4. Configuration validation before any network activity
// 5. Command execution with proper error handling and exit codes
package main

import (
	"os"

	"github.com/crestline-dev/relay/cmd/relayctl/commands"
	"github.com/crestline-dev/relay/cmd/relayctl/config"
	"github.com/crestline-dev/relay/cmd/relayctl/handlers"
)

func init() {
	// Get root command from commands package
	rootCmd := commands.RootCmd

	// Set version and validation
	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	// Setup all command structures
	commands.SetupCommands()

	// Setup global flags
	commands.SetupGlobalFlags(rootCmd, &config.Global.Endpoint, &config.Global.LogLevel,
		&config.Global.Timeout, &config.Global.Verbose, config.DefaultEndpoint)

	// Setup submit command flags
	submitCmd := commands.GetSubmitCommand()
	commands.SetupSubmitFlags(submitCmd,
		&config.Submit.KeyID, &config.Submit.KeyMaterial,
		&config.Submit.Durability, &config.Submit.Packing,
		&config.Submit.MaxRounds, &config.Submit.SettleDelay,
		&config.Submit.PollGroupSize, &config.Submit.PacingEvery,
		&config.Submit.PacingInterval, &config.Submit.MaxPayloadBytes,
		&config.Submit.MaxCompute)

	// Setup read command flags
	readCmd := commands.GetReadCommand()
	commands.SetupReadFlags(readCmd, &config.Read.GroupSize, &config.Read.OpsFile)

	// Setup command handlers
	submitCmd.RunE = handlers.HandleSubmit
	readCmd.RunE = handlers.HandleRead
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
