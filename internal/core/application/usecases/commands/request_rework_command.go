package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrRequestReworkCommandIsNotConstructed = errors.New(
	"RequestReworkCommand must be created via NewRequestReworkCommand constructor",
)

// RequestReworkCommand represents a request to reopen a completed route
// instance from a given step. While the rework stays open, the owning
// order cannot reach InvoiceReady.
type RequestReworkCommand struct { //nolint:recvcheck //using for validation
	instanceID   kernel.UUID
	fromSequence int
	reasonCode   string

	guard guard.ConstructorGuard
}

// NewRequestReworkCommand creates a command to open a rework.
func NewRequestReworkCommand(instanceID kernel.UUID, fromSequence int, reasonCode string) (RequestReworkCommand, error) {
	cmd := RequestReworkCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setFromSequence(fromSequence),
		cmd.setReasonCode(reasonCode),
	); err != nil {
		return RequestReworkCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestReworkCommand) Validate() error {
	return c.guard.Validate(ErrRequestReworkCommandIsNotConstructed)
}

// InstanceID returns the route instance to reopen.
func (c RequestReworkCommand) InstanceID() kernel.UUID { return c.instanceID }

// FromSequence returns the first step to requeue.
func (c RequestReworkCommand) FromSequence() int { return c.fromSequence }

// ReasonCode returns the rework reason code.
func (c RequestReworkCommand) ReasonCode() string { return c.reasonCode }

func (c *RequestReworkCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}

func (c *RequestReworkCommand) setFromSequence(fromSequence int) error {
	if fromSequence <= 0 {
		return errs.NewValueIsInvalidError("fromSequence")
	}
	c.fromSequence = fromSequence
	return nil
}

func (c *RequestReworkCommand) setReasonCode(reasonCode string) error {
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reasonCode")
	}
	c.reasonCode = reasonCode
	return nil
}
