// Package validate provides configuration validation utilities for Relay components.
//
// This file implements common validation patterns used across multiple config
// packages to ensure consistency and reduce duplication. All functions leverage
// the go-playground/validator library for standardized validation behavior.
//
// VALIDATION UTILITIES:
//   - Port validation: Standard port range checking (1-65535)
//   - String validation: Required field and non-empty string checking
//   - Timeout validation: Positive and non-negative duration validation
//   - Count validation: Positive bound checking for rounds and group sizes
//
// These utilities replace manual validation code scattered across config packages
// with centralized, consistent validation using the validator library's built-in
// tags and error handling.
package validate

import (
	"fmt"
	"time"
)

// ValidatePortRange validates that a port number is within the valid range (1-65535).
// Uses the validator library for consistent error handling and messaging.
//
// Essential for ensuring the simulator binds to a valid port reachable by CLI
// tooling. Rejects port 0 (OS-assigned) since clients need a predictable address.
func ValidatePortRange(port int) error {
	if err := ValidateField(port, "required,min=1,max=65535"); err != nil {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// ValidateRequiredString validates that a string field is not empty.
// Uses the validator library for consistent error handling across config validation.
//
// Critical for ensuring required configuration fields like ledger endpoints and
// signing key identifiers are properly specified before a submission run starts.
// Prevents runtime failures from missing essential configuration parameters.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
// Essential for ensuring timeout configurations don't cause infinite waits or
// immediate failures in submission rounds.
//
// Used across settle delays, retry intervals, and HTTP client timeouts to
// ensure proper timing behavior against the remote ledger service.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidateNonNegativeDuration validates that a duration is zero or positive.
// Used for optional waits such as submit pacing where zero disables the wait
// entirely but a negative value is always a configuration mistake.
func ValidateNonNegativeDuration(d time.Duration, name string) error {
	if d < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	return nil
}

// ValidatePositiveCount validates that an integer bound is at least 1.
// Used for retry round limits, poll group sizes, and attempt budgets where
// zero would silently disable the mechanism instead of bounding it.
func ValidatePositiveCount(value int, name string) error {
	if value < 1 {
		return fmt.Errorf("%s must be at least 1", name)
	}
	return nil
}
