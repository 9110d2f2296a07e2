package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrApplyHoldOverlayCommandIsNotConstructed = errors.New(
	"ApplyHoldOverlayCommand must be created via NewApplyHoldOverlayCommand constructor",
)

// ApplyHoldOverlayCommand represents a request to put a hold overlay on an
// order. OnHoldCustomer additionally needs the contact payload; other
// overlay types must leave it nil.
type ApplyHoldOverlayCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	overlay    order.Overlay
	reasonCode string
	note       string
	details    *order.CustomerHoldDetails

	guard guard.ConstructorGuard
}

// NewApplyHoldOverlayCommand creates a command to apply a hold overlay.
func NewApplyHoldOverlayCommand(
	orderID kernel.UUID,
	overlay order.Overlay,
	reasonCode string,
	note string,
	details *order.CustomerHoldDetails,
) (ApplyHoldOverlayCommand, error) {
	cmd := ApplyHoldOverlayCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOverlay(overlay),
		cmd.setReasonCode(reasonCode),
	); err != nil {
		return ApplyHoldOverlayCommand{}, err
	}
	cmd.note = note
	cmd.details = details

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyHoldOverlayCommand) Validate() error {
	return c.guard.Validate(ErrApplyHoldOverlayCommandIsNotConstructed)
}

// OrderID returns the order to hold.
func (c ApplyHoldOverlayCommand) OrderID() kernel.UUID { return c.orderID }

// Overlay returns the overlay type to apply.
func (c ApplyHoldOverlayCommand) Overlay() order.Overlay { return c.overlay }

// ReasonCode returns the catalog reason code.
func (c ApplyHoldOverlayCommand) ReasonCode() string { return c.reasonCode }

// Note returns the free-text note.
func (c ApplyHoldOverlayCommand) Note() string { return c.note }

// Details returns the customer-contact payload, nil except for OnHoldCustomer.
func (c ApplyHoldOverlayCommand) Details() *order.CustomerHoldDetails { return c.details }

func (c *ApplyHoldOverlayCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ApplyHoldOverlayCommand) setOverlay(overlay order.Overlay) error {
	if overlay == order.OverlayNone {
		return errs.NewValueIsRequiredError("overlay")
	}
	if err := overlay.Validate(); err != nil {
		return err
	}
	c.overlay = overlay
	return nil
}

func (c *ApplyHoldOverlayCommand) setReasonCode(reasonCode string) error {
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reasonCode")
	}
	c.reasonCode = reasonCode
	return nil
}
