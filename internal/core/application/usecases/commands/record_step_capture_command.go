package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrRecordStepCaptureCommandIsNotConstructed = errors.New(
	"RecordStepCaptureCommand must be created via NewRecordStepCaptureCommand constructor",
)

// CapturePayload carries the kind-specific fields of a capture request.
// Only the fields for the command's kind are read; the rest stay zero.
type CapturePayload struct {
	// Material
	ItemID   *kernel.UUID
	Quantity float64

	// Scrap
	ScrapQuantity int
	ReasonCode    string

	// Serial
	SerialNo string

	// Checklist
	ChecklistItemCode string
	ChecklistRequired bool
	ChecklistOutcome  route.ChecklistOutcome

	Note string
}

// RecordStepCaptureCommand represents a request to append one immutable
// evidence row (material, scrap, serial, or checklist result) to a step
// instance that is being worked.
type RecordStepCaptureCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	sequence   int
	kind       route.CaptureKind
	payload    CapturePayload

	guard guard.ConstructorGuard
}

// NewRecordStepCaptureCommand creates a command to record a capture row.
// Kind-specific payload validation happens against the domain row types at
// handling time; this constructor checks the shape.
func NewRecordStepCaptureCommand(
	instanceID kernel.UUID,
	sequence int,
	kind route.CaptureKind,
	payload CapturePayload,
) (RecordStepCaptureCommand, error) {
	cmd := RecordStepCaptureCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setSequence(sequence),
		cmd.setKind(kind),
	); err != nil {
		return RecordStepCaptureCommand{}, err
	}
	cmd.payload = payload

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordStepCaptureCommand) Validate() error {
	return c.guard.Validate(ErrRecordStepCaptureCommandIsNotConstructed)
}

// InstanceID returns the route instance.
func (c RecordStepCaptureCommand) InstanceID() kernel.UUID { return c.instanceID }

// Sequence returns the step sequence.
func (c RecordStepCaptureCommand) Sequence() int { return c.sequence }

// Kind returns the capture kind.
func (c RecordStepCaptureCommand) Kind() route.CaptureKind { return c.kind }

// Payload returns the kind-specific fields.
func (c RecordStepCaptureCommand) Payload() CapturePayload { return c.payload }

func (c *RecordStepCaptureCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}
	c.instanceID = instanceID
	return nil
}

func (c *RecordStepCaptureCommand) setSequence(sequence int) error {
	if sequence <= 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	c.sequence = sequence
	return nil
}

func (c *RecordStepCaptureCommand) setKind(kind route.CaptureKind) error {
	switch kind {
	case route.CaptureMaterial, route.CaptureScrap, route.CaptureSerial, route.CaptureChecklist:
		c.kind = kind
		return nil
	default:
		return errs.NewValueIsInvalidError("captureKind")
	}
}
