package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrRecordPolicySignoffCommandIsNotConstructed = errors.New(
	"RecordPolicySignoffCommand must be created via NewRecordPolicySignoffCommand constructor",
)

// RecordPolicySignoffCommand represents one function role approving a draft
// policy version. The signing role and employee come from the ambient actor.
type RecordPolicySignoffCommand struct { //nolint:recvcheck //using for validation
	versionID kernel.UUID
	note      string

	guard guard.ConstructorGuard
}

// NewRecordPolicySignoffCommand creates a command to record a signoff.
func NewRecordPolicySignoffCommand(versionID kernel.UUID, note string) (RecordPolicySignoffCommand, error) {
	cmd := RecordPolicySignoffCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setVersionID(versionID); err != nil {
		return RecordPolicySignoffCommand{}, err
	}
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPolicySignoffCommand) Validate() error {
	return c.guard.Validate(ErrRecordPolicySignoffCommandIsNotConstructed)
}

// VersionID returns the policy version being approved.
func (c RecordPolicySignoffCommand) VersionID() kernel.UUID { return c.versionID }

// Note returns the signoff note.
func (c RecordPolicySignoffCommand) Note() string { return c.note }

func (c *RecordPolicySignoffCommand) setVersionID(versionID kernel.UUID) error {
	if err := versionID.Validate(); err != nil {
		return err
	}
	c.versionID = versionID
	return nil
}
