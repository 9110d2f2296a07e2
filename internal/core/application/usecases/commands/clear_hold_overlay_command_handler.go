package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/pkg/errs"
)

// ClearHoldOverlayCommandHandler releases the active overlay on an order.
// Which roles may release a given overlay type comes from policy.
type ClearHoldOverlayCommandHandler struct {
	uowFactory OrderUoWFactory
	policies   ports.PolicyReader
	recorder   audit.Recorder
}

// NewClearHoldOverlayCommandHandler creates a handler for overlay release.
func NewClearHoldOverlayCommandHandler(
	uowFactory OrderUoWFactory,
	policies ports.PolicyReader,
	recorder audit.Recorder,
) ClearHoldOverlayCommandHandler {
	return ClearHoldOverlayCommandHandler{
		uowFactory: uowFactory,
		policies:   policies,
		recorder:   recorder,
	}
}

// Handle processes the overlay release.
func (h *ClearHoldOverlayCommandHandler) Handle(ctx context.Context, cmd ClearHoldOverlayCommand) error {
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

	if aggregate.HoldOverlay() == order.OverlayNone {
		return errs.NewValueIsInvalidError("no overlay is active")
	}

	siteID := aggregate.SiteID()
	customerID := aggregate.CustomerID()
	if err = authorizeRole(ctx, h.policies,
		policy.OverlayReleaseRolesKey(aggregate.HoldOverlay().String()),
		actor, &siteID, &customerID,
		"clear overlay "+aggregate.HoldOverlay().String(),
	); err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	if err = aggregate.ClearOverlay(actor, cmd.Note()); err != nil {
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
