package commands

import (
	"errors"

	"cylindertrack/internal/pkg/guard"
)

var ErrMigrateLegacyStatusesCommandIsNotConstructed = errors.New(
	"MigrateLegacyStatusesCommand must be created via NewMigrateLegacyStatusesCommand constructor",
)

// MigrateLegacyStatusesCommand represents a run of the one-time legacy
// status backfill. Dry runs report the proposed mapping without writing.
type MigrateLegacyStatusesCommand struct { //nolint:recvcheck //using for validation
	dryRun bool

	guard guard.ConstructorGuard
}

// NewMigrateLegacyStatusesCommand creates a command to run the backfill.
func NewMigrateLegacyStatusesCommand(dryRun bool) (MigrateLegacyStatusesCommand, error) {
	cmd := MigrateLegacyStatusesCommand{
		dryRun: dryRun,
		guard:  guard.NewConstructorGuard(),
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MigrateLegacyStatusesCommand) Validate() error {
	return c.guard.Validate(ErrMigrateLegacyStatusesCommandIsNotConstructed)
}

// DryRun reports whether the run only proposes mappings.
func (c MigrateLegacyStatusesCommand) DryRun() bool { return c.dryRun }
