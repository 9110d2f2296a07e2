package commands

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
)

// UnblockStepCommandHandler returns a blocked step to InProgress.
type UnblockStepCommandHandler struct {
	uowFactory RouteUoWFactory
}

// NewUnblockStepCommandHandler creates a handler for step unblocking.
func NewUnblockStepCommandHandler(uowFactory RouteUoWFactory) UnblockStepCommandHandler {
	return UnblockStepCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the unblock.
func (h *UnblockStepCommandHandler) Handle(ctx context.Context, cmd UnblockStepCommand) error {
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

	if err = instance.UnblockStep(cmd.Sequence(), actor.EmpNo); err != nil {
		return err
	}
	if err = instanceRepo.Update(ctx, instance); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
