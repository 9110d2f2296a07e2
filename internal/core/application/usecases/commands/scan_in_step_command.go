package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrScanInStepCommandIsNotConstructed = errors.New(
	"ScanInStepCommand must be created via NewScanInStepCommand constructor",
)

// ScanInStepCommand represents an operator scanning onto a queued route
// step at the work center.
type ScanInStepCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	sequence   int

	guard guard.ConstructorGuard
}

// NewScanInStepCommand creates a command to scan in on a step.
func NewScanInStepCommand(instanceID kernel.UUID, sequence int) (ScanInStepCommand, error) {
	cmd := ScanInStepCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setSequence(sequence),
	); err != nil {
		return ScanInStepCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ScanInStepCommand) Validate() error {
	return c.guard.Validate(ErrScanInStepCommandIsNotConstructed)
}

// InstanceID returns the route instance.
func (c ScanInStepCommand) InstanceID() kernel.UUID { return c.instanceID }

// Sequence returns the step sequence to scan in on.
func (c ScanInStepCommand) Sequence() int { return c.sequence }

func (c *ScanInStepCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}

func (c *ScanInStepCommand) setSequence(sequence int) error {
	if sequence <= 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	c.sequence = sequence
	return nil
}
