package commands

import (
	"context"
	"time"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/core/domain/services"
	"cylindertrack/internal/pkg/errs"
)

// InstantiateRouteCommandHandler routes an order line: the resolver picks
// the winning assignment (unless a manual template override is given), the
// template version is snapshotted into a route instance, and the line is
// marked routed. No-match and ambiguity surface as errors, never a default
// route.
type InstantiateRouteCommandHandler struct {
	uowFactory RoutingUoWFactory
	resolver   services.AssignmentResolver
	recorder   audit.Recorder
}

// NewInstantiateRouteCommandHandler creates a handler for route instantiation.
func NewInstantiateRouteCommandHandler(
	uowFactory RoutingUoWFactory,
	resolver services.AssignmentResolver,
	recorder audit.Recorder,
) InstantiateRouteCommandHandler {
	return InstantiateRouteCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		recorder:   recorder,
	}
}

// Handle processes the instantiation.
func (h *InstantiateRouteCommandHandler) Handle(ctx context.Context, cmd InstantiateRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

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
	line, err := aggregate.Line(cmd.LineID())
	if err != nil {
		return err
	}
	if line.Routed() {
		return errs.NewValueIsInvalidError("line is already routed")
	}

	var assignment *route.Assignment
	templateID := cmd.TemplateID()
	if templateID == nil {
		assignment, err = h.resolve(ctx, uow, aggregate.CustomerID(), aggregate.SiteID(), line)
		if err != nil {
			return err
		}
		winnerTemplate := assignment.TemplateID()
		templateID = &winnerTemplate
	}

	templateRepo := uow.RouteTemplateRepository()
	template, err := templateRepo.Get(ctx, *templateID)
	if err != nil {
		return err
	}

	instance, err := route.NewInstanceFromTemplate(
		kernel.NewUUID(), cmd.OrderID(), cmd.LineID(), template, assignment, cmd.AutoStart())
	if err != nil {
		return err
	}

	beforeLine := audit.SnapshotLine(line)
	if err = line.MarkRouted(); err != nil {
		return err
	}

	if !template.Instantiated() {
		template.MarkInstantiated()
		if err = templateRepo.Update(ctx, template); err != nil {
			return err
		}
	}
	if err = uow.RouteInstanceRepository().Add(ctx, instance); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = writeLineAudit(ctx, uow, h.recorder, aggregate.ID(), line, beforeLine); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *InstantiateRouteCommandHandler) resolve(
	ctx context.Context,
	uow RoutingUoW,
	customerID, siteID kernel.UUID,
	line *order.Line,
) (*route.Assignment, error) {
	candidates, err := uow.AssignmentRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	input := route.ResolutionInput{
		CustomerID:    customerID,
		SiteID:        siteID,
		ItemID:        line.ItemID(),
		ItemType:      line.ItemType(),
		OrderPriority: line.OrderPriority(),
		AsOf:          time.Now().UTC(),
	}
	if shipVia := line.ShipViaID(); shipVia != nil {
		input.ShipViaIDs = []kernel.UUID{*shipVia}
	}

	resolution, err := h.resolver.Resolve(input, candidates)
	if err != nil {
		return nil, err
	}
	if !resolution.Matched {
		return nil, errs.NewNoMatchError("order line " + line.ID().String())
	}
	return resolution.Assignment, nil
}
