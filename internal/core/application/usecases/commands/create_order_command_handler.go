package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Validates reference-data links, creates the order in Draft, and writes the
// insert audit batch in the same transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	refData    ports.ReferenceData
	recorder   audit.Recorder
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	refData ports.ReferenceData,
	recorder audit.Recorder,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		refData:    refData,
		recorder:   recorder,
	}
}

// Handle processes the order creation command.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.checkReferences(ctx, cmd); err != nil {
		return err
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.OrderNo(), cmd.CustomerID(), cmd.SiteID(), cmd.RequestedDate())
	if err != nil {
		return err
	}
	lines := make([]*order.Line, 0, len(cmd.Lines()))
	for _, input := range cmd.Lines() {
		line, lineErr := newOrder.AddLine(
			input.LineID, input.ItemID, input.ItemType, input.Quantity, input.ShipViaID, input.OrderPriority)
		if lineErr != nil {
			return lineErr
		}
		lines = append(lines, line)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	actor := kernel.ActorFromContext(ctx)
	records := h.recorder.ForInsert(newOrder.ID(), audit.SnapshotOrder(newOrder), actor)
	for _, line := range lines {
		records = append(records, h.recorder.ForInsert(newOrder.ID(), audit.SnapshotLine(line), actor)...)
	}
	if err = uow.AuditRepository().AddRecords(ctx, records); err != nil {
		return errs.NewAuditWriteFailureError(err)
	}

	return uow.Commit(ctx)
}

func (h *CreateOrderCommandHandler) checkReferences(ctx context.Context, cmd CreateOrderCommand) error {
	exists, err := h.refData.CustomerExists(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewObjectNotFoundError("customerID", cmd.CustomerID().String())
	}

	exists, err = h.refData.SiteExists(ctx, cmd.SiteID())
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewObjectNotFoundError("siteID", cmd.SiteID().String())
	}

	for _, line := range cmd.Lines() {
		exists, err = h.refData.ItemExists(ctx, line.ItemID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewObjectNotFoundError("itemID", line.ItemID.String())
		}
		if line.ShipViaID != nil {
			exists, err = h.refData.ShipViaExists(ctx, *line.ShipViaID)
			if err != nil {
				return err
			}
			if !exists {
				return errs.NewObjectNotFoundError("shipViaID", line.ShipViaID.String())
			}
		}
	}
	return nil
}
