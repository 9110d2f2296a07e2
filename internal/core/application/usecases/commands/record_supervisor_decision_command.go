package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrRecordSupervisorDecisionCommandIsNotConstructed = errors.New(
	"RecordSupervisorDecisionCommand must be created via NewRecordSupervisorDecisionCommand constructor",
)

// RecordSupervisorDecisionCommand represents the production-approval
// decision for a route instance. Approval moves the owning order from
// PendingApproval to ProductionComplete; rejection reopens InProduction.
type RecordSupervisorDecisionCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	approved   bool
	note       string

	guard guard.ConstructorGuard
}

// NewRecordSupervisorDecisionCommand creates a command to record the
// decision.
func NewRecordSupervisorDecisionCommand(instanceID kernel.UUID, approved bool, note string) (RecordSupervisorDecisionCommand, error) {
	cmd := RecordSupervisorDecisionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setInstanceID(instanceID); err != nil {
		return RecordSupervisorDecisionCommand{}, err
	}
	cmd.approved = approved
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordSupervisorDecisionCommand) Validate() error {
	return c.guard.Validate(ErrRecordSupervisorDecisionCommandIsNotConstructed)
}

// InstanceID returns the route instance the decision is for.
func (c RecordSupervisorDecisionCommand) InstanceID() kernel.UUID { return c.instanceID }

// Approved reports whether production was approved.
func (c RecordSupervisorDecisionCommand) Approved() bool { return c.approved }

// Note returns the decision note.
func (c RecordSupervisorDecisionCommand) Note() string { return c.note }

func (c *RecordSupervisorDecisionCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}
