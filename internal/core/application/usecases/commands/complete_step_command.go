package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrCompleteStepCommandIsNotConstructed = errors.New(
	"CompleteStepCommand must be created via NewCompleteStepCommand constructor",
)

// CompleteStepCommand represents an operator finishing a route step.
type CompleteStepCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	sequence   int
	notes      string

	guard guard.ConstructorGuard
}

// NewCompleteStepCommand creates a command to complete a step.
func NewCompleteStepCommand(instanceID kernel.UUID, sequence int, notes string) (CompleteStepCommand, error) {
	cmd := CompleteStepCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setSequence(sequence),
	); err != nil {
		return CompleteStepCommand{}, err
	}
	cmd.notes = notes

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteStepCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStepCommandIsNotConstructed)
}

// InstanceID returns the route instance.
func (c CompleteStepCommand) InstanceID() kernel.UUID { return c.instanceID }

// Sequence returns the step sequence to complete.
func (c CompleteStepCommand) Sequence() int { return c.sequence }

// Notes returns the operator's completion notes.
func (c CompleteStepCommand) Notes() string { return c.notes }

func (c *CompleteStepCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}

func (c *CompleteStepCommand) setSequence(sequence int) error {
	if sequence <= 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	c.sequence = sequence
	return nil
}
