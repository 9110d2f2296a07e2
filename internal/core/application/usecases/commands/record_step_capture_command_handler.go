package commands

import (
	"context"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"
)

// RecordStepCaptureCommandHandler appends one evidence row to a step
// instance. Rows are append-only; nothing here mutates an existing capture.
type RecordStepCaptureCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewRecordStepCaptureCommandHandler creates a handler for capture recording.
func NewRecordStepCaptureCommandHandler(uowFactory RouteUoWFactory) RecordStepCaptureCommandHandler {
	return RecordStepCaptureCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the capture.
func (h *RecordStepCaptureCommandHandler) Handle(ctx context.Context, cmd RecordStepCaptureCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := kernel.ActorFromContext(ctx)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	instanceRepo := uow.RouteInstanceRepository()
	instance, err := instanceRepo.Get(ctx, cmd.InstanceID())
	if err != nil {
		return err
	}

	if err = h.record(instance, cmd, actor); err != nil {
		return err
	}
	if err = instanceRepo.Update(ctx, instance); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *RecordStepCaptureCommandHandler) record(
	instance *route.Instance,
	cmd RecordStepCaptureCommand,
	actor kernel.Actor,
) error {
	payload := cmd.Payload()
	now := time.Now().UTC()

	switch cmd.Kind() {
	case route.CaptureMaterial:
		if payload.ItemID == nil {
			return errs.NewValueIsRequiredError("itemID")
		}
		return instance.RecordMaterial(cmd.Sequence(), route.MaterialUsage{
			ID:         kernel.NewUUID(),
			ItemID:     *payload.ItemID,
			Quantity:   payload.Quantity,
			RecordedBy: actor.EmpNo,
			RecordedAt: now,
		})
	case route.CaptureScrap:
		return instance.RecordScrap(cmd.Sequence(), route.ScrapEntry{
			ID:         kernel.NewUUID(),
			Quantity:   payload.ScrapQuantity,
			ReasonCode: payload.ReasonCode,
			Note:       payload.Note,
			RecordedBy: actor.EmpNo,
			RecordedAt: now,
		})
	case route.CaptureSerial:
		return instance.RecordSerial(cmd.Sequence(), route.SerialCapture{
			ID:         kernel.NewUUID(),
			SerialNo:   payload.SerialNo,
			RecordedBy: actor.EmpNo,
			RecordedAt: now,
		})
	case route.CaptureChecklist:
		return instance.RecordChecklist(cmd.Sequence(), route.ChecklistResult{
			ID:         kernel.NewUUID(),
			ItemCode:   payload.ChecklistItemCode,
			Required:   payload.ChecklistRequired,
			Outcome:    payload.ChecklistOutcome,
			Note:       payload.Note,
			RecordedBy: actor.EmpNo,
			RecordedAt: now,
		})
	default:
		return errs.NewValueIsInvalidError("captureKind")
	}
}
