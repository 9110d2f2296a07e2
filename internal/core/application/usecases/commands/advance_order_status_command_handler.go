package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/ports"
)

// AdvanceOrderStatusCommandHandler moves an order forward one lifecycle
// status. Succeeds only when the target is the immediate successor, no
// blocking overlay is active, and the acting role is authorized for the
// transition per policy lookup.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policies   ports.PolicyReader
	recorder   audit.Recorder
}

// NewAdvanceOrderStatusCommandHandler creates a handler for status advances.
func NewAdvanceOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policies ports.PolicyReader,
	recorder audit.Recorder,
) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policies:   policies,
		recorder:   recorder,
	}
}

// Handle processes the advance command. The aggregate enforces transition
// order and overlay blocking; this handler adds the policy authorization and
// the audit batch, all in one transaction.
func (h *AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderStatusCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	siteID := aggregate.SiteID()
	customerID := aggregate.CustomerID()
	if err = authorizeRole(ctx, h.policies,
		policy.AdvanceRolesKey(cmd.TargetStatus().String()),
		actor, &siteID, &customerID,
		"advance order to "+cmd.TargetStatus().String(),
	); err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	if err = aggregate.Advance(cmd.TargetStatus(), actor); err != nil {
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
