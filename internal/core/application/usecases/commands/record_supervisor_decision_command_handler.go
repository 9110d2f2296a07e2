package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"
)

// RecordSupervisorDecisionCommandHandler records the approval gate outcome
// on the route instance and moves the owning order accordingly, in one
// transaction. Only supervisors may decide.
type RecordSupervisorDecisionCommandHandler struct {
	uowFactory RouteUoWFactory
	recorder   audit.Recorder
}

// NewRecordSupervisorDecisionCommandHandler creates a handler for
// supervisor decisions.
func NewRecordSupervisorDecisionCommandHandler(
	uowFactory RouteUoWFactory,
	recorder audit.Recorder,
) RecordSupervisorDecisionCommandHandler {
	return RecordSupervisorDecisionCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the decision.
func (h *RecordSupervisorDecisionCommandHandler) Handle(ctx context.Context, cmd RecordSupervisorDecisionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := kernel.ActorFromContext(ctx)
	if actor.Role != kernel.RoleSupervisor && actor.Role != kernel.RoleSystem {
		return errs.NewUnauthorizedError(string(actor.Role), "record a supervisor decision")
	}

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

	decision := route.DecisionRejected
	if cmd.Approved() {
		decision = route.DecisionApproved
	}
	if err = instance.RecordSupervisorDecision(decision, actor.EmpNo, cmd.Note()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, instance.OrderID())
	if err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	if cmd.Approved() {
		err = aggregate.ApproveProduction(actor, cmd.Note())
	} else {
		err = aggregate.RejectProduction(actor, cmd.Note())
	}
	if err != nil {
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

	return uow.Commit(ctx)
}
