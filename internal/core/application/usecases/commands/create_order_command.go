package commands

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// LineInput carries one order line of a creation request.
type LineInput struct {
	LineID        kernel.UUID
	ItemID        kernel.UUID
	ItemType      string
	Quantity      int
	ShipViaID     *kernel.UUID
	OrderPriority *int
}

// CreateOrderCommand represents a request to register a new customer sales
// order in Draft with its lines.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, "SO-10421", customerID, siteID, nil, lines)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, refData, recorder)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	orderNo       string
	customerID    kernel.UUID
	siteID        kernel.UUID
	requestedDate *time.Time
	lines         []LineInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Requires a valid order id, a non-empty order number, valid customer and
// site references, and at least one line with positive quantity.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	orderNo string,
	customerID kernel.UUID,
	siteID kernel.UUID,
	requestedDate *time.Time,
	lines []LineInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOrderNo(orderNo),
		cmd.setCustomerID(customerID),
		cmd.setSiteID(siteID),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.requestedDate = requestedDate

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// OrderNo returns the business order number.
func (c CreateOrderCommand) OrderNo() string { return c.orderNo }

// CustomerID returns the owning customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// SiteID returns the servicing site.
func (c CreateOrderCommand) SiteID() kernel.UUID { return c.siteID }

// RequestedDate returns the customer's requested date, if any.
func (c CreateOrderCommand) RequestedDate() *time.Time { return c.requestedDate }

// Lines returns the line inputs.
func (c CreateOrderCommand) Lines() []LineInput { return c.lines }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOrderNo(orderNo string) error {
	if orderNo == "" {
		return errs.NewValueIsRequiredError("orderNo")
	}
	c.orderNo = orderNo
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setSiteID(siteID kernel.UUID) error {
	if err := siteID.Validate(); err != nil {
		return err
	}
	c.siteID = siteID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []LineInput) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for _, l := range lines {
		if err := l.LineID.Validate(); err != nil {
			return err
		}
		if err := l.ItemID.Validate(); err != nil {
			return err
		}
		if l.Quantity <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}
	c.lines = lines
	return nil
}
