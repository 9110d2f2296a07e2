package commands

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
)

// ScanInStepCommandHandler records an operator starting work on a queued
// step. The activity-log row drains with the instance update.
type ScanInStepCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewScanInStepCommandHandler creates a handler for step scan-in.
func NewScanInStepCommandHandler(uowFactory RouteUoWFactory) ScanInStepCommandHandler {
	return ScanInStepCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the scan-in.
func (h *ScanInStepCommandHandler) Handle(ctx context.Context, cmd ScanInStepCommand) error {
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

	if err = instance.ScanInStep(cmd.Sequence(), actor.EmpNo); err != nil {
		return err
	}
	if err = instanceRepo.Update(ctx, instance); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
