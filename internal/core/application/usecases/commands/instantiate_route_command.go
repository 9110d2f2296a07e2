package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrInstantiateRouteCommandIsNotConstructed = errors.New(
	"InstantiateRouteCommand must be created via NewInstantiateRouteCommand constructor",
)

// InstantiateRouteCommand represents a request to route one order line:
// resolve the governing assignment (or take an explicit template for manual
// routing) and snapshot its template version into a route instance.
type InstantiateRouteCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	lineID     kernel.UUID
	templateID *kernel.UUID
	autoStart  bool

	guard guard.ConstructorGuard
}

// NewInstantiateRouteCommand creates a command to route an order line.
// templateID forces a manual route, bypassing resolution; autoStart puts the
// first step straight into InProgress.
func NewInstantiateRouteCommand(
	orderID kernel.UUID,
	lineID kernel.UUID,
	templateID *kernel.UUID,
	autoStart bool,
) (InstantiateRouteCommand, error) {
	cmd := InstantiateRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLineID(lineID),
		cmd.setTemplateID(templateID),
	); err != nil {
		return InstantiateRouteCommand{}, err
	}
	cmd.autoStart = autoStart

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c InstantiateRouteCommand) Validate() error {
	return c.guard.Validate(ErrInstantiateRouteCommandIsNotConstructed)
}

// OrderID returns the owning order.
func (c InstantiateRouteCommand) OrderID() kernel.UUID { return c.orderID }

// LineID returns the order line to route.
func (c InstantiateRouteCommand) LineID() kernel.UUID { return c.lineID }

// TemplateID returns the manual template override, nil for resolution.
func (c InstantiateRouteCommand) TemplateID() *kernel.UUID { return c.templateID }

// AutoStart reports whether the first step starts immediately.
func (c InstantiateRouteCommand) AutoStart() bool { return c.autoStart }

func (c *InstantiateRouteCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *InstantiateRouteCommand) setLineID(lineID kernel.UUID) error {
	if err := lineID.Validate(); err != nil {
		return err
	}
	c.lineID = lineID
	return nil
}

func (c *InstantiateRouteCommand) setTemplateID(templateID *kernel.UUID) error {
	if templateID != nil {
		if err := templateID.Validate(); err != nil {
			return err
		}
	}
	c.templateID = templateID
	return nil
}
