package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrCloseReworkCommandIsNotConstructed = errors.New(
	"CloseReworkCommand must be created via NewCloseReworkCommand constructor",
)

// CloseReworkCommand represents the completion of an open rework, releasing
// the invoice-readiness block it held.
type CloseReworkCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	note       string

	guard guard.ConstructorGuard
}

// NewCloseReworkCommand creates a command to close a rework.
func NewCloseReworkCommand(instanceID kernel.UUID, note string) (CloseReworkCommand, error) {
	cmd := CloseReworkCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setInstanceID(instanceID); err != nil {
		return CloseReworkCommand{}, err
	}
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CloseReworkCommand) Validate() error {
	return c.guard.Validate(ErrCloseReworkCommandIsNotConstructed)
}

// InstanceID returns the route instance whose rework closes.
func (c CloseReworkCommand) InstanceID() kernel.UUID { return c.instanceID }

// Note returns the closing note.
func (c CloseReworkCommand) Note() string { return c.note }

func (c *CloseReworkCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}
