package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/ports"
)

// RequestReworkCommandHandler reopens a completed route instance and bumps
// the open-rework counters on the order and line, all in one transaction.
type RequestReworkCommandHandler struct {
	uowFactory RouteUoWFactory
	policies   ports.PolicyReader
	recorder   audit.Recorder
}

// NewRequestReworkCommandHandler creates a handler for rework requests.
func NewRequestReworkCommandHandler(
	uowFactory RouteUoWFactory,
	policies ports.PolicyReader,
	recorder audit.Recorder,
) RequestReworkCommandHandler {
	return RequestReworkCommandHandler{
		uowFactory: uowFactory,
		policies:   policies,
		recorder:   recorder,
	}
}

// Handle processes the rework request.
func (h *RequestReworkCommandHandler) Handle(ctx context.Context, cmd RequestReworkCommand) error {
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

	siteID := aggregate.SiteID()
	customerID := aggregate.CustomerID()
	if err = authorizeRole(ctx, h.policies,
		policy.KeyReworkRequestRoles,
		actor, &siteID, &customerID,
		"request rework",
	); err != nil {
		return err
	}

	line, err := aggregate.Line(instance.OrderLineID())
	if err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	beforeLine := audit.SnapshotLine(line)

	if err = instance.Reopen(cmd.FromSequence(), actor.EmpNo); err != nil {
		return err
	}
	if err = aggregate.OpenRework(instance.OrderLineID(), cmd.ReasonCode(), actor); err != nil {
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
