package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrClearHoldOverlayCommandIsNotConstructed = errors.New(
	"ClearHoldOverlayCommand must be created via NewClearHoldOverlayCommand constructor",
)

// ClearHoldOverlayCommand represents a request to release the active hold
// overlay on an order.
type ClearHoldOverlayCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	note    string

	guard guard.ConstructorGuard
}

// NewClearHoldOverlayCommand creates a command to clear an overlay.
func NewClearHoldOverlayCommand(orderID kernel.UUID, note string) (ClearHoldOverlayCommand, error) {
	cmd := ClearHoldOverlayCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ClearHoldOverlayCommand{}, err
	}
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ClearHoldOverlayCommand) Validate() error {
	return c.guard.Validate(ErrClearHoldOverlayCommandIsNotConstructed)
}

// OrderID returns the order to release.
func (c ClearHoldOverlayCommand) OrderID() kernel.UUID { return c.orderID }

// Note returns the release note.
func (c ClearHoldOverlayCommand) Note() string { return c.note }

func (c *ClearHoldOverlayCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
