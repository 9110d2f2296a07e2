package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/ports"
)

// ApplyHoldOverlayCommandHandler puts a hold overlay on an order after
// checking the reason code against the active catalog for that overlay
// type. The cleared/applied lifecycle event and the audit batch commit with
// the mutation. A notification is requested after commit; the core records
// only that it was requested.
type ApplyHoldOverlayCommandHandler struct {
	uowFactory OrderUoWFactory
	policies   ports.PolicyReader
	notifier   ports.Notifier
	recorder   audit.Recorder
}

// NewApplyHoldOverlayCommandHandler creates a handler for overlay application.
func NewApplyHoldOverlayCommandHandler(
	uowFactory OrderUoWFactory,
	policies ports.PolicyReader,
	notifier ports.Notifier,
	recorder audit.Recorder,
) ApplyHoldOverlayCommandHandler {
	return ApplyHoldOverlayCommandHandler{
		uowFactory: uowFactory,
		policies:   policies,
		notifier:   notifier,
		recorder:   recorder,
	}
}

// Handle processes the overlay application.
func (h *ApplyHoldOverlayCommandHandler) Handle(ctx context.Context, cmd ApplyHoldOverlayCommand) error {
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
	if err = validateReasonCode(ctx, h.policies,
		policy.OverlayReasonsKey(cmd.Overlay().String()),
		cmd.ReasonCode(), &siteID, &customerID,
	); err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	if err = aggregate.ApplyOverlay(cmd.Overlay(), cmd.ReasonCode(), actor, cmd.Note(), cmd.Details()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = writeOrderAudit(ctx, uow, h.recorder, aggregate, before); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifyAfterCommit(ctx, cmd)
	return nil
}

// notifyAfterCommit asks the collaborator to reach the customer and records
// the receipt in a follow-up transaction. Failures here never undo the
// committed overlay.
func (h *ApplyHoldOverlayCommandHandler) notifyAfterCommit(ctx context.Context, cmd ApplyHoldOverlayCommand) {
	receipt, err := h.notifier.Notify(ctx, ports.NotificationRequest{
		OrderID: cmd.OrderID(),
		Kind:    "OverlayApplied",
		Summary: cmd.Overlay().String() + ": " + cmd.ReasonCode(),
	})
	if err != nil {
		return
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sentAt := receipt.SentAt
	record := ports.NotificationRecord{
		ID:               kernel.NewUUID(),
		OrderID:          cmd.OrderID(),
		Kind:             "OverlayApplied",
		Channel:          receipt.Channel,
		RecipientSummary: receipt.RecipientSummary,
		RequestedAt:      receipt.SentAt,
		SentAt:           &sentAt,
	}
	if err = uow.AuditRepository().AddNotification(ctx, record); err != nil {
		return
	}
	_ = uow.Commit(ctx)
}
