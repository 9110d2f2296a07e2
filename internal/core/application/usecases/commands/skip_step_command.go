package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrSkipStepCommandIsNotConstructed = errors.New(
	"SkipStepCommand must be created via NewSkipStepCommand constructor",
)

// SkipStepCommand represents an explicit operator skip of a queued,
// non-required route step.
type SkipStepCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	sequence   int

	guard guard.ConstructorGuard
}

// NewSkipStepCommand creates a command to skip a step.
func NewSkipStepCommand(instanceID kernel.UUID, sequence int) (SkipStepCommand, error) {
	cmd := SkipStepCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setSequence(sequence),
	); err != nil {
		return SkipStepCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SkipStepCommand) Validate() error {
	return c.guard.Validate(ErrSkipStepCommandIsNotConstructed)
}

// InstanceID returns the route instance.
func (c SkipStepCommand) InstanceID() kernel.UUID { return c.instanceID }

// Sequence returns the step sequence to skip.
func (c SkipStepCommand) Sequence() int { return c.sequence }

func (c *SkipStepCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}

func (c *SkipStepCommand) setSequence(sequence int) error {
	if sequence <= 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	c.sequence = sequence
	return nil
}
