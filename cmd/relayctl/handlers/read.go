package handlers

import (
	"context"
	"fmt"

	"github.com/crestline-dev/relay/cmd/relayctl/config"
	"github.com/crestline-dev/relay/cmd/relayctl/utils"
	"github.com/crestline-dev/relay/internal/engine"
	"github.com/crestline-dev/relay/internal/ledger"
	"github.com/crestline-dev/relay/internal/logging"
	"github.com/spf13/cobra"
)

// HandleRead fetches ledger entries by key and prints them. Keys come from
// arguments, or are derived from an operations file so a submission can be
// verified without copying hashes around.
func HandleRead(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	keys := args
	if config.Read.OpsFile != "" {
		if len(args) > 0 {
			return fmt.Errorf("--ops-file and key arguments are mutually exclusive")
		}
		ops, err := loadOperations(config.Read.OpsFile)
		if err != nil {
			return err
		}
		keys = make([]string, len(ops))
		for i, op := range ops {
			keys[i] = ledger.EntryKey(op)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("no keys to read: pass keys as arguments or use --ops-file")
	}

	fetcher, err := engine.NewBatchedFetcher(newClient(), config.Read.GroupSize)
	if err != nil {
		return err
	}

	values, err := fetcher.FetchAll(context.Background(), keys)
	if err != nil {
		return err
	}

	missing := 0
	for i, value := range values {
		if value == nil {
			missing++
			fmt.Printf("%s\t<absent>\n", logging.FormatID(keys[i]))
			continue
		}
		fmt.Printf("%s\t%s\n", logging.FormatID(keys[i]), value)
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d entries are absent", missing, len(keys))
	}
	return nil
}
