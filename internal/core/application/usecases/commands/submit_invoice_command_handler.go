package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/pkg/errs"
)

// SubmitInvoiceCommandHandler pushes one order to ERP invoice staging and
// records the answer. The ERP call happens between two short transactions,
// never inside one: a failed call leaves the order untouched and a later
// sweep retries it, keyed by a fresh correlation id each attempt.
type SubmitInvoiceCommandHandler struct {
	uowFactory OrderUoWFactory
	erp        ports.ErpStaging
	recorder   audit.Recorder
}

// NewSubmitInvoiceCommandHandler creates a handler for invoice submission.
func NewSubmitInvoiceCommandHandler(
	uowFactory OrderUoWFactory,
	erp ports.ErpStaging,
	recorder audit.Recorder,
) SubmitInvoiceCommandHandler {
	return SubmitInvoiceCommandHandler{
		uowFactory: uowFactory,
		erp:        erp,
		recorder:   recorder,
	}
}

// Handle submits the order's invoice to ERP staging and records the result.
func (h *SubmitInvoiceCommandHandler) Handle(ctx context.Context, cmd SubmitInvoiceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderNo, err := h.loadSubmittable(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	correlationID := kernel.NewUUID()
	result, erpErr := h.erp.SubmitInvoice(ctx, ports.InvoiceSubmission{
		OrderID:       cmd.OrderID(),
		OrderNo:       orderNo,
		CorrelationID: correlationID,
	})
	if erpErr != nil {
		// The adapter's error text is still a result worth keeping.
		result = ports.InvoiceStagingResult{StagingResult: "Error: " + erpErr.Error()}
	}

	return h.record(ctx, cmd.OrderID(), correlationID, result)
}

// loadSubmittable checks the order is in InvoiceReady before any external
// call is made. Read-only transaction.
func (h *SubmitInvoiceCommandHandler) loadSubmittable(ctx context.Context, orderID kernel.UUID) (string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	if aggregate.Status() != order.InvoiceReady {
		return "", errs.NewInvalidTransitionError(aggregate.Status().String(), order.Invoiced.String())
	}
	if aggregate.InvoiceSubmittedAt() != nil {
		return "", errs.NewValueIsInvalidError("order invoice was already submitted")
	}

	return aggregate.OrderNo(), nil
}

func (h *SubmitInvoiceCommandHandler) record(
	ctx context.Context,
	orderID kernel.UUID,
	correlationID kernel.UUID,
	result ports.InvoiceStagingResult,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	before := audit.SnapshotOrder(aggregate)
	if err = aggregate.RecordInvoiceSubmission(correlationID, result.StagingResult, result.ErpInvoiceReference); err != nil {
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
