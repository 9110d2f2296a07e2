package commands

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
)

// SkipStepCommandHandler skips a non-required queued step.
type SkipStepCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewSkipStepCommandHandler creates a handler for step skipping.
func NewSkipStepCommandHandler(uowFactory RouteUoWFactory) SkipStepCommandHandler {
	return SkipStepCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the skip.
func (h *SkipStepCommandHandler) Handle(ctx context.Context, cmd SkipStepCommand) error {
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

	if err = instance.SkipStep(cmd.Sequence(), actor.EmpNo); err != nil {
		return err
	}
	if err = instanceRepo.Update(ctx, instance); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
