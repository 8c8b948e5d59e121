// Package config provides configuration management for the relayctl CLI.
package config

import (
	"fmt"

	"github.com/crestline-dev/relay/internal/logging"
	"github.com/crestline-dev/relay/internal/validate"
	"github.com/spf13/cobra"
)

// ValidateGlobalFlags validates all global flags before running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateEndpoint(); err != nil {
		return err
	}

	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	if err := validate.ValidatePositiveCount(Global.Timeout, "timeout"); err != nil {
		return err
	}

	return nil
}

// ValidateEndpoint validates the --endpoint flag
func ValidateEndpoint() error {
	// Parse and validate the ledger API address
	netAddr, err := validate.ParseBindAddress(Global.Endpoint)
	if err != nil {
		logging.Error("Invalid endpoint '%s': %v", Global.Endpoint, err)
		return fmt.Errorf("invalid endpoint - expected format: host:port (e.g., %s)", DefaultEndpoint)
	}

	// Reject unroutable 0.0.0.0 target for client connections
	if netAddr.Host == "0.0.0.0" {
		logging.Error("Unroutable endpoint '0.0.0.0:%d' - cannot connect to 0.0.0.0", netAddr.Port)
		return fmt.Errorf("unroutable endpoint - use 127.0.0.1 or a specific IP address")
	}

	// Client must connect to a specific port (not 0)
	if err := validate.ValidateField(netAddr.Port, "required,min=1,max=65535"); err != nil {
		logging.Error("Invalid endpoint port %d: %v", netAddr.Port, err)
		return fmt.Errorf("endpoint port must be between 1-65535")
	}

	return nil
}
