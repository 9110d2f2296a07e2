package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
)

// CloseReworkCommandHandler closes an open rework and decrements the
// order/line counters that block invoice readiness.
type CloseReworkCommandHandler struct {
	uowFactory RouteUoWFactory
	recorder   audit.Recorder
}

// NewCloseReworkCommandHandler creates a handler for rework closure.
func NewCloseReworkCommandHandler(uowFactory RouteUoWFactory, recorder audit.Recorder) CloseReworkCommandHandler {
	return CloseReworkCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the closure.
func (h *CloseReworkCommandHandler) Handle(ctx context.Context, cmd CloseReworkCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, instance.OrderID())
	if err != nil {
		return err
	}
	line, err := aggregate.Line(instance.OrderLineID())
	if err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	beforeLine := audit.SnapshotLine(line)

	if err = instance.CloseRework(); err != nil {
		return err
	}
	if err = aggregate.CloseRework(instance.OrderLineID(), actor, cmd.Note()); err != nil {
		return err
	}

	if err = instanceRepo.Update(ctx, instance); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = writeOrderAudit(ctx, uow, h.recorder, aggregate, before); err != nil {
		return err
	}
	if err = writeLineAudit(ctx, uow, h.recorder, aggregate.ID(), line, beforeLine); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
