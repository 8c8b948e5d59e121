package handlers

import (
	"context"
	"fmt"

	"github.com/crestline-dev/relay/cmd/relayctl/config"
	"github.com/crestline-dev/relay/cmd/relayctl/utils"
	"github.com/crestline-dev/relay/internal/engine"
	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/spf13/cobra"
)

// HandleSubmit drives a complete submission run for the given operations
// file and prints the per-operation outcome table.
func HandleSubmit(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	ops, err := loadOperations(args[0])
	if err != nil {
		return err
	}

	material, err := loadKeyMaterial(config.Submit.KeyMaterial)
	if err != nil {
		return err
	}

	durability, err := ledger.ParseDurabilityLevel(config.Submit.Durability)
	if err != nil {
		return err
	}

	engineConfig := engine.DefaultConfig()
	engineConfig.Packing = engine.PackingMode(config.Submit.Packing)
	engineConfig.Durability = durability
	engineConfig.MaxRounds = config.Submit.MaxRounds
	engineConfig.SettleDelay = config.Submit.SettleDelay
	engineConfig.PollGroupSize = config.Submit.PollGroupSize
	engineConfig.SubmitPacingEvery = config.Submit.PacingEvery
	engineConfig.SubmitPacingInterval = config.Submit.PacingInterval
	engineConfig.MaxPayloadBytes = config.Submit.MaxPayloadBytes
	engineConfig.MaxComputePerBatch = config.Submit.MaxCompute

	key := engine.SigningKey{ID: config.Submit.KeyID, Material: material}
	coordinator, err := engine.NewCoordinator(newClient(), key, engineConfig, engine.LogObserver{})
	if err != nil {
		return err
	}

	table, err := coordinator.Run(context.Background(), ops)
	if err != nil {
		return fmt.Errorf("submission run aborted: %w", err)
	}

	printResults(table)

	summary := table.Summary()
	if failed := summary.PreflightRejected + summary.TransportErrors + summary.ExceededRetries; failed > 0 {
		return fmt.Errorf("%d of %d operations did not confirm", failed, table.Len())
	}
	return nil
}

// printResults writes the outcome table to stdout, one line per operation.
func printResults(table *engine.ResultTable) {
	fmt.Printf("%-8s %-20s %s\n", "INDEX", "OUTCOME", "DETAIL")
	for i := 0; i < table.Len(); i++ {
		result := table.At(i)
		fmt.Printf("%-8d %-20s %s\n", i, result.Kind, result.Detail)
	}
}
