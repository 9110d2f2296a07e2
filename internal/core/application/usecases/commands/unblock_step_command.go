package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrUnblockStepCommandIsNotConstructed = errors.New(
	"UnblockStepCommand must be created via NewUnblockStepCommand constructor",
)

// UnblockStepCommand represents a request to return a blocked step to
// InProgress once the missing evidence or checklist problem is resolved.
type UnblockStepCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	sequence   int

	guard guard.ConstructorGuard
}

// NewUnblockStepCommand creates a command to unblock a step.
func NewUnblockStepCommand(instanceID kernel.UUID, sequence int) (UnblockStepCommand, error) {
	cmd := UnblockStepCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setSequence(sequence),
	); err != nil {
		return UnblockStepCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UnblockStepCommand) Validate() error {
	return c.guard.Validate(ErrUnblockStepCommandIsNotConstructed)
}

// InstanceID returns the route instance.
func (c UnblockStepCommand) InstanceID() kernel.UUID { return c.instanceID }

// Sequence returns the step sequence to unblock.
func (c UnblockStepCommand) Sequence() int { return c.sequence }

func (c *UnblockStepCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}

func (c *UnblockStepCommand) setSequence(sequence int) error {
	if sequence <= 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	c.sequence = sequence
	return nil
}
