package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrOverrideStepDurationCommandIsNotConstructed = errors.New(
	"OverrideStepDurationCommand must be created via NewOverrideStepDurationCommand constructor",
)

// OverrideStepDurationCommand represents a manual duration entry for a step
// worked away from the scan terminal. The reason is mandatory.
type OverrideStepDurationCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	sequence   int
	minutes    int
	reason     string

	guard guard.ConstructorGuard
}

// NewOverrideStepDurationCommand creates a command to override a step's
// recorded duration.
func NewOverrideStepDurationCommand(
	instanceID kernel.UUID,
	sequence int,
	minutes int,
	reason string,
) (OverrideStepDurationCommand, error) {
	cmd := OverrideStepDurationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setSequence(sequence),
		cmd.setMinutes(minutes),
		cmd.setReason(reason),
	); err != nil {
		return OverrideStepDurationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OverrideStepDurationCommand) Validate() error {
	return c.guard.Validate(ErrOverrideStepDurationCommandIsNotConstructed)
}

// InstanceID returns the route instance.
func (c OverrideStepDurationCommand) InstanceID() kernel.UUID { return c.instanceID }

// Sequence returns the step sequence.
func (c OverrideStepDurationCommand) Sequence() int { return c.sequence }

// Minutes returns the manual duration in minutes.
func (c OverrideStepDurationCommand) Minutes() int { return c.minutes }

// Reason returns the override reason.
func (c OverrideStepDurationCommand) Reason() string { return c.reason }

func (c *OverrideStepDurationCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}

func (c *OverrideStepDurationCommand) setSequence(sequence int) error {
	if sequence <= 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	c.sequence = sequence
	return nil
}

func (c *OverrideStepDurationCommand) setMinutes(minutes int) error {
	if minutes <= 0 {
		return errs.NewValueIsInvalidError("minutes")
	}
	c.minutes = minutes
	return nil
}

func (c *OverrideStepDurationCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}
