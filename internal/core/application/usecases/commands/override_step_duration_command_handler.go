package commands

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
)

// OverrideStepDurationCommandHandler records a manual step duration with
// its reason and activity-log row.
type OverrideStepDurationCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewOverrideStepDurationCommandHandler creates a handler for duration
// overrides.
func NewOverrideStepDurationCommandHandler(uowFactory RouteUoWFactory) OverrideStepDurationCommandHandler {
	return OverrideStepDurationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the override.
func (h *OverrideStepDurationCommandHandler) Handle(ctx context.Context, cmd OverrideStepDurationCommand) error {
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

	if err = instance.OverrideStepDuration(cmd.Sequence(), cmd.Minutes(), cmd.Reason(), actor.EmpNo); err != nil {
		return err
	}
	if err = instanceRepo.Update(ctx, instance); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
