package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrSubmitInvoiceCommandIsNotConstructed = errors.New(
	"SubmitInvoiceCommand must be created via NewSubmitInvoiceCommand constructor",
)

// SubmitInvoiceCommand asks for one InvoiceReady order to be pushed to ERP
// invoice staging. The order records whatever the adapter answers.
type SubmitInvoiceCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSubmitInvoiceCommand creates a command to submit one order's invoice.
func NewSubmitInvoiceCommand(orderID kernel.UUID) (SubmitInvoiceCommand, error) {
	cmd := SubmitInvoiceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return SubmitInvoiceCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitInvoiceCommand) Validate() error {
	return c.guard.Validate(ErrSubmitInvoiceCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c SubmitInvoiceCommand) OrderID() kernel.UUID { return c.orderID }

func (c *SubmitInvoiceCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
