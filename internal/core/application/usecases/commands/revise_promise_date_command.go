package commands

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrRevisePromiseDateCommandIsNotConstructed = errors.New(
	"RevisePromiseDateCommand must be created via NewRevisePromiseDateCommand constructor",
)

// RevisePromiseDateCommand represents a request to move an order's committed
// date. Every revision carries a reason code from the promise-reason catalog.
type RevisePromiseDateCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	newDate    time.Time
	reasonCode string

	guard guard.ConstructorGuard
}

// NewRevisePromiseDateCommand creates a command to revise the committed date.
func NewRevisePromiseDateCommand(orderID kernel.UUID, newDate time.Time, reasonCode string) (RevisePromiseDateCommand, error) {
	cmd := RevisePromiseDateCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNewDate(newDate),
		cmd.setReasonCode(reasonCode),
	); err != nil {
		return RevisePromiseDateCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RevisePromiseDateCommand) Validate() error {
	return c.guard.Validate(ErrRevisePromiseDateCommandIsNotConstructed)
}

// OrderID returns the order to revise.
func (c RevisePromiseDateCommand) OrderID() kernel.UUID { return c.orderID }

// NewDate returns the new committed date.
func (c RevisePromiseDateCommand) NewDate() time.Time { return c.newDate }

// ReasonCode returns the revision reason code.
func (c RevisePromiseDateCommand) ReasonCode() string { return c.reasonCode }

func (c *RevisePromiseDateCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RevisePromiseDateCommand) setNewDate(newDate time.Time) error {
	if newDate.IsZero() {
		return errs.NewValueIsRequiredError("newDate")
	}
	c.newDate = newDate
	return nil
}

func (c *RevisePromiseDateCommand) setReasonCode(reasonCode string) error {
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reasonCode")
	}
	c.reasonCode = reasonCode
	return nil
}
