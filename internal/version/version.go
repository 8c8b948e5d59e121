// Package version provides centralized version information for Relay binaries.
// This package supports independent versioning for the relaysim ledger simulator
// and the relayctl CLI as separate tools within the repository, allowing them to
// evolve independently while maintaining consistency within each tool's components.
// All versions follow semantic versioning (semver) conventions.

package version

// RelaysimVersion holds the current relaysim simulator daemon version.
// Format: major.minor.patch[-prerelease][+build]
const RelaysimVersion = "0.1.0-dev"

// RelayctlVersion holds the current relayctl CLI version.
// This is used by the CLI binary and allows independent evolution
// of the submission tooling separate from the simulator daemon.
// Format: major.minor.patch[-prerelease][+build]
const RelayctlVersion = "0.1.0-dev"
