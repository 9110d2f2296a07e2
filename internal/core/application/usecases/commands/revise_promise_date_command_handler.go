package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/ports"
)

// RevisePromiseDateCommandHandler moves the committed date, appends the
// promise-change event, and requests a customer notification after commit.
type RevisePromiseDateCommandHandler struct {
	uowFactory OrderUoWFactory
	policies   ports.PolicyReader
	notifier   ports.Notifier
	recorder   audit.Recorder
}

// NewRevisePromiseDateCommandHandler creates a handler for promise revision.
func NewRevisePromiseDateCommandHandler(
	uowFactory OrderUoWFactory,
	policies ports.PolicyReader,
	notifier ports.Notifier,
	recorder audit.Recorder,
) RevisePromiseDateCommandHandler {
	return RevisePromiseDateCommandHandler{
		uowFactory: uowFactory,
		policies:   policies,
		notifier:   notifier,
		recorder:   recorder,
	}
}

// Handle processes the revision.
func (h *RevisePromiseDateCommandHandler) Handle(ctx context.Context, cmd RevisePromiseDateCommand) error {
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
		policy.KeyPromiseReviseRoles,
		actor, &siteID, &customerID,
		"revise promise date",
	); err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	if err = aggregate.RevisePromiseDate(cmd.NewDate(), cmd.ReasonCode(), actor); err != nil {
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

func (h *RevisePromiseDateCommandHandler) notifyAfterCommit(ctx context.Context, cmd RevisePromiseDateCommand) {
	receipt, err := h.notifier.Notify(ctx, ports.NotificationRequest{
		OrderID: cmd.OrderID(),
		Kind:    "PromiseRevised",
		Summary: "committed date moved to " + cmd.NewDate().UTC().Format("2006-01-02") + " (" + cmd.ReasonCode() + ")",
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
	if err = uow.AuditRepository().AddNotification(ctx, ports.NotificationRecord{
		ID:               kernel.NewUUID(),
		OrderID:          cmd.OrderID(),
		Kind:             "PromiseRevised",
		Channel:          receipt.Channel,
		RecipientSummary: receipt.RecipientSummary,
		RequestedAt:      receipt.SentAt,
		SentAt:           &sentAt,
	}); err != nil {
		return
	}
	_ = uow.Commit(ctx)
}
