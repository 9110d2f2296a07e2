package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrActivatePolicyVersionCommandIsNotConstructed = errors.New(
	"ActivatePolicyVersionCommand must be created via NewActivatePolicyVersionCommand constructor",
)

// ActivatePolicyVersionCommand represents a request to make a fully
// signed-off policy version live, retiring the previously active one.
type ActivatePolicyVersionCommand struct { //nolint:recvcheck //using for validation
	versionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewActivatePolicyVersionCommand creates a command to activate a version.
func NewActivatePolicyVersionCommand(versionID kernel.UUID) (ActivatePolicyVersionCommand, error) {
	cmd := ActivatePolicyVersionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setVersionID(versionID); err != nil {
		return ActivatePolicyVersionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ActivatePolicyVersionCommand) Validate() error {
	return c.guard.Validate(ErrActivatePolicyVersionCommandIsNotConstructed)
}

// VersionID returns the policy version to activate.
func (c ActivatePolicyVersionCommand) VersionID() kernel.UUID { return c.versionID }

func (c *ActivatePolicyVersionCommand) setVersionID(versionID kernel.UUID) error {
	if err := versionID.Validate(); err != nil {
		return err
	}
	c.versionID = versionID
	return nil
}
