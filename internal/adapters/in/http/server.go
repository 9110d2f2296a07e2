// Package http exposes the tracking core over a JSON API. Handlers translate
// requests into commands and queries; every domain rule stays below the
// application layer.
package http

import (
	"net/http"
	"strconv"

	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/application/usecases/queries"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires the API routes to the command and query handlers.
type Server struct {
	createOrderHandler           commands.CreateOrderCommandHandler
	advanceStatusHandler         commands.AdvanceOrderStatusCommandHandler
	applyHoldHandler             commands.ApplyHoldOverlayCommandHandler
	clearHoldHandler             commands.ClearHoldOverlayCommandHandler
	revisePromiseHandler         commands.RevisePromiseDateCommandHandler
	submitInvoiceHandler         commands.SubmitInvoiceCommandHandler
	instantiateRouteHandler      commands.InstantiateRouteCommandHandler
	scanInHandler                commands.ScanInStepCommandHandler
	recordCaptureHandler         commands.RecordStepCaptureCommandHandler
	completeStepHandler          commands.CompleteStepCommandHandler
	skipStepHandler              commands.SkipStepCommandHandler
	unblockStepHandler           commands.UnblockStepCommandHandler
	overrideDurationHandler      commands.OverrideStepDurationCommandHandler
	supervisorDecisionHandler    commands.RecordSupervisorDecisionCommandHandler
	requestReworkHandler         commands.RequestReworkCommandHandler
	closeReworkHandler           commands.CloseReworkCommandHandler
	createPolicyVersionHandler   commands.CreatePolicyVersionCommandHandler
	recordPolicySignoffHandler   commands.RecordPolicySignoffCommandHandler
	activatePolicyVersionHandler commands.ActivatePolicyVersionCommandHandler
	migrateLegacyHandler         commands.MigrateLegacyStatusesCommandHandler

	auditTrailHandler     queries.GetOrderAuditTrailQueryHandler
	eventLogHandler       queries.GetOrderEventLogQueryHandler
	routeProgressHandler  queries.GetRouteProgressQueryHandler
	blockedOrdersHandler  queries.GetBlockedOrdersQueryHandler
	activePoliciesHandler queries.GetActivePoliciesQueryHandler
}

// ServerHandlers bundles everything a Server needs. The composition root
// fills it once at startup.
type ServerHandlers struct {
	CreateOrder           commands.CreateOrderCommandHandler
	AdvanceStatus         commands.AdvanceOrderStatusCommandHandler
	ApplyHold             commands.ApplyHoldOverlayCommandHandler
	ClearHold             commands.ClearHoldOverlayCommandHandler
	RevisePromise         commands.RevisePromiseDateCommandHandler
	SubmitInvoice         commands.SubmitInvoiceCommandHandler
	InstantiateRoute      commands.InstantiateRouteCommandHandler
	ScanIn                commands.ScanInStepCommandHandler
	RecordCapture         commands.RecordStepCaptureCommandHandler
	CompleteStep          commands.CompleteStepCommandHandler
	SkipStep              commands.SkipStepCommandHandler
	UnblockStep           commands.UnblockStepCommandHandler
	OverrideDuration      commands.OverrideStepDurationCommandHandler
	SupervisorDecision    commands.RecordSupervisorDecisionCommandHandler
	RequestRework         commands.RequestReworkCommandHandler
	CloseRework           commands.CloseReworkCommandHandler
	CreatePolicyVersion   commands.CreatePolicyVersionCommandHandler
	RecordPolicySignoff   commands.RecordPolicySignoffCommandHandler
	ActivatePolicyVersion commands.ActivatePolicyVersionCommandHandler
	MigrateLegacy         commands.MigrateLegacyStatusesCommandHandler
	AuditTrail            queries.GetOrderAuditTrailQueryHandler
	EventLog              queries.GetOrderEventLogQueryHandler
	RouteProgress         queries.GetRouteProgressQueryHandler
	BlockedOrders         queries.GetBlockedOrdersQueryHandler
	ActivePolicies        queries.GetActivePoliciesQueryHandler
}

// NewServer creates the HTTP server over the given handlers.
func NewServer(handlers ServerHandlers) *Server {
	return &Server{
		createOrderHandler:           handlers.CreateOrder,
		advanceStatusHandler:         handlers.AdvanceStatus,
		applyHoldHandler:             handlers.ApplyHold,
		clearHoldHandler:             handlers.ClearHold,
		revisePromiseHandler:         handlers.RevisePromise,
		submitInvoiceHandler:         handlers.SubmitInvoice,
		instantiateRouteHandler:      handlers.InstantiateRoute,
		scanInHandler:                handlers.ScanIn,
		recordCaptureHandler:         handlers.RecordCapture,
		completeStepHandler:          handlers.CompleteStep,
		skipStepHandler:              handlers.SkipStep,
		unblockStepHandler:           handlers.UnblockStep,
		overrideDurationHandler:      handlers.OverrideDuration,
		supervisorDecisionHandler:    handlers.SupervisorDecision,
		requestReworkHandler:         handlers.RequestRework,
		closeReworkHandler:           handlers.CloseRework,
		createPolicyVersionHandler:   handlers.CreatePolicyVersion,
		recordPolicySignoffHandler:   handlers.RecordPolicySignoff,
		activatePolicyVersionHandler: handlers.ActivatePolicyVersion,
		migrateLegacyHandler:         handlers.MigrateLegacy,
		auditTrailHandler:            handlers.AuditTrail,
		eventLogHandler:              handlers.EventLog,
		routeProgressHandler:         handlers.RouteProgress,
		blockedOrdersHandler:         handlers.BlockedOrders,
		activePoliciesHandler:        handlers.ActivePolicies,
	}
}

// RegisterRoutes mounts the API under /api/v1. Mutating routes carry the
// actor middleware; reads stay open.
func (s *Server) RegisterRoutes(e *echo.Echo, actorMiddleware echo.MiddlewareFunc) {
	api := e.Group("/api/v1")

	api.GET("/orders/blocked", s.GetBlockedOrders)
	api.GET("/orders/:orderId/audit-trail", s.GetOrderAuditTrail)
	api.GET("/orders/:orderId/events", s.GetOrderEventLog)
	api.GET("/orders/:orderId/route-progress", s.GetRouteProgress)
	api.GET("/policies/active", s.GetActivePolicies)

	mutating := api.Group("", actorMiddleware)
	mutating.POST("/orders", s.CreateOrder)
	mutating.POST("/orders/:orderId/advance", s.AdvanceOrderStatus)
	mutating.POST("/orders/:orderId/hold", s.ApplyHold)
	mutating.DELETE("/orders/:orderId/hold", s.ClearHold)
	mutating.POST("/orders/:orderId/promise-date", s.RevisePromiseDate)
	mutating.POST("/orders/:orderId/invoice", s.SubmitInvoice)
	mutating.POST("/routes", s.InstantiateRoute)
	mutating.POST("/routes/:instanceId/steps/:sequence/scan-in", s.ScanInStep)
	mutating.POST("/routes/:instanceId/steps/:sequence/captures", s.RecordCapture)
	mutating.POST("/routes/:instanceId/steps/:sequence/complete", s.CompleteStep)
	mutating.POST("/routes/:instanceId/steps/:sequence/skip", s.SkipStep)
	mutating.POST("/routes/:instanceId/steps/:sequence/unblock", s.UnblockStep)
	mutating.POST("/routes/:instanceId/steps/:sequence/duration-override", s.OverrideStepDuration)
	mutating.POST("/routes/:instanceId/supervisor-decision", s.RecordSupervisorDecision)
	mutating.POST("/routes/:instanceId/rework", s.RequestRework)
	mutating.POST("/routes/:instanceId/rework/close", s.CloseRework)
	mutating.POST("/policies", s.CreatePolicyVersion)
	mutating.POST("/policies/:versionId/signoffs", s.RecordPolicySignoff)
	mutating.POST("/policies/:versionId/activate", s.ActivatePolicyVersion)
	mutating.POST("/admin/migrate-legacy-statuses", s.MigrateLegacyStatuses)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return respondError(ctx, err)
	}
	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return respondError(ctx, err)
	}
	siteID, err := kernel.UUIDFromString(request.SiteID)
	if err != nil {
		return respondError(ctx, err)
	}

	lines := make([]commands.LineInput, 0, len(request.Lines))
	for _, line := range request.Lines {
		input, lineErr := lineInputFromRequest(line)
		if lineErr != nil {
			return respondError(ctx, lineErr)
		}
		lines = append(lines, input)
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, request.OrderNo, customerID, siteID, request.RequestedDate, lines)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// AdvanceOrderStatus handles POST /api/v1/orders/:orderId/advance.
func (s *Server) AdvanceOrderStatus(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request AdvanceStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.StatusFromString(request.TargetStatus)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(orderID, target)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.advanceStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ApplyHold handles POST /api/v1/orders/:orderId/hold.
func (s *Server) ApplyHold(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request ApplyHoldRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	overlay, err := order.OverlayFromString(request.Overlay)
	if err != nil {
		return respondError(ctx, err)
	}

	var details *order.CustomerHoldDetails
	if request.CustomerHold != nil {
		details = &order.CustomerHoldDetails{
			ReadyRetryUtc:  request.CustomerHold.ReadyRetryUtc,
			LastContactUtc: request.CustomerHold.LastContactUtc,
			ContactName:    request.CustomerHold.ContactName,
		}
	}

	cmd, err := commands.NewApplyHoldOverlayCommand(orderID, overlay, request.ReasonCode, request.Note, details)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.applyHoldHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ClearHold handles DELETE /api/v1/orders/:orderId/hold.
func (s *Server) ClearHold(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request ClearHoldRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewClearHoldOverlayCommand(orderID, request.Note)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.clearHoldHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RevisePromiseDate handles POST /api/v1/orders/:orderId/promise-date.
func (s *Server) RevisePromiseDate(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request RevisePromiseDateRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRevisePromiseDateCommand(orderID, request.NewDate, request.ReasonCode)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.revisePromiseHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SubmitInvoice handles POST /api/v1/orders/:orderId/invoice.
func (s *Server) SubmitInvoice(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSubmitInvoiceCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.submitInvoiceHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// InstantiateRoute handles POST /api/v1/routes.
func (s *Server) InstantiateRoute(ctx echo.Context) error {
	var request InstantiateRouteRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return respondError(ctx, err)
	}
	lineID, err := kernel.UUIDFromString(request.LineID)
	if err != nil {
		return respondError(ctx, err)
	}

	var templateID *kernel.UUID
	if request.TemplateID != nil {
		id, idErr := kernel.UUIDFromString(*request.TemplateID)
		if idErr != nil {
			return respondError(ctx, idErr)
		}
		templateID = &id
	}

	cmd, err := commands.NewInstantiateRouteCommand(orderID, lineID, templateID, request.AutoStart)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.instantiateRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ScanInStep handles POST /api/v1/routes/:instanceId/steps/:sequence/scan-in.
func (s *Server) ScanInStep(ctx echo.Context) error {
	instanceID, sequence, err := stepPath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewScanInStepCommand(instanceID, sequence)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.scanInHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordCapture handles POST /api/v1/routes/:instanceId/steps/:sequence/captures.
func (s *Server) RecordCapture(ctx echo.Context) error {
	instanceID, sequence, err := stepPath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request CaptureRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	payload := commands.CapturePayload{
		Quantity:          request.Quantity,
		ScrapQuantity:     request.ScrapQuantity,
		ReasonCode:        request.ReasonCode,
		SerialNo:          request.SerialNo,
		ChecklistItemCode: request.ChecklistItemCode,
		ChecklistRequired: request.ChecklistRequired,
		ChecklistOutcome:  route.ChecklistOutcome(request.ChecklistOutcome),
		Note:              request.Note,
	}
	if request.ItemID != nil {
		itemID, idErr := kernel.UUIDFromString(*request.ItemID)
		if idErr != nil {
			return respondError(ctx, idErr)
		}
		payload.ItemID = &itemID
	}

	cmd, err := commands.NewRecordStepCaptureCommand(instanceID, sequence, route.CaptureKind(request.Kind), payload)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.recordCaptureHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteStep handles POST /api/v1/routes/:instanceId/steps/:sequence/complete.
func (s *Server) CompleteStep(ctx echo.Context) error {
	instanceID, sequence, err := stepPath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request CompleteStepRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCompleteStepCommand(instanceID, sequence, request.Notes)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.completeStepHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SkipStep handles POST /api/v1/routes/:instanceId/steps/:sequence/skip.
func (s *Server) SkipStep(ctx echo.Context) error {
	instanceID, sequence, err := stepPath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSkipStepCommand(instanceID, sequence)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.skipStepHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnblockStep handles POST /api/v1/routes/:instanceId/steps/:sequence/unblock.
func (s *Server) UnblockStep(ctx echo.Context) error {
	instanceID, sequence, err := stepPath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUnblockStepCommand(instanceID, sequence)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.unblockStepHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// OverrideStepDuration handles POST /api/v1/routes/:instanceId/steps/:sequence/duration-override.
func (s *Server) OverrideStepDuration(ctx echo.Context) error {
	instanceID, sequence, err := stepPath(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request DurationOverrideRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewOverrideStepDurationCommand(instanceID, sequence, request.Minutes, request.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.overrideDurationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordSupervisorDecision handles POST /api/v1/routes/:instanceId/supervisor-decision.
func (s *Server) RecordSupervisorDecision(ctx echo.Context) error {
	instanceID, err := pathUUID(ctx, "instanceId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request SupervisorDecisionRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRecordSupervisorDecisionCommand(instanceID, request.Approved, request.Note)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.supervisorDecisionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RequestRework handles POST /api/v1/routes/:instanceId/rework.
func (s *Server) RequestRework(ctx echo.Context) error {
	instanceID, err := pathUUID(ctx, "instanceId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request RequestReworkRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRequestReworkCommand(instanceID, request.FromSequence, request.ReasonCode)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.requestReworkHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CloseRework handles POST /api/v1/routes/:instanceId/rework/close.
func (s *Server) CloseRework(ctx echo.Context) error {
	instanceID, err := pathUUID(ctx, "instanceId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request CloseReworkRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCloseReworkCommand(instanceID, request.Note)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.closeReworkHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreatePolicyVersion handles POST /api/v1/policies.
func (s *Server) CreatePolicyVersion(ctx echo.Context) error {
	var request CreatePolicyVersionRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	versionID, err := kernel.UUIDFromString(request.VersionID)
	if err != nil {
		return respondError(ctx, err)
	}

	roles := make([]kernel.Role, 0, len(request.RequiredRoles))
	for _, role := range request.RequiredRoles {
		roles = append(roles, kernel.Role(role))
	}

	entries := make([]policy.Entry, 0, len(request.Entries))
	for _, entryRequest := range request.Entries {
		entry, entryErr := entryFromRequest(entryRequest)
		if entryErr != nil {
			return respondError(ctx, entryErr)
		}
		entries = append(entries, entry)
	}

	cmd, err := commands.NewCreatePolicyVersionCommand(versionID, request.VersionNo, request.Description, roles, entries)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createPolicyVersionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// RecordPolicySignoff handles POST /api/v1/policies/:versionId/signoffs.
func (s *Server) RecordPolicySignoff(ctx echo.Context) error {
	versionID, err := pathUUID(ctx, "versionId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request PolicySignoffRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRecordPolicySignoffCommand(versionID, request.Note)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.recordPolicySignoffHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ActivatePolicyVersion handles POST /api/v1/policies/:versionId/activate.
func (s *Server) ActivatePolicyVersion(ctx echo.Context) error {
	versionID, err := pathUUID(ctx, "versionId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewActivatePolicyVersionCommand(versionID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.activatePolicyVersionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MigrateLegacyStatuses handles POST /api/v1/admin/migrate-legacy-statuses.
func (s *Server) MigrateLegacyStatuses(ctx echo.Context) error {
	var request MigrateLegacyStatusesRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewMigrateLegacyStatusesCommand(request.DryRun)
	if err != nil {
		return respondError(ctx, err)
	}

	report, err := s.migrateLegacyHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]MigrationRowResponse, len(report))
	for i, row := range report {
		response[i] = MigrationRowResponse{
			OrderID:      row.OrderID.String(),
			OrderNo:      row.OrderNo,
			LegacyStatus: row.LegacyStatus,
			Proposed:     row.Proposed,
			RuleApplied:  row.RuleApplied,
			Skipped:      row.Skipped,
			SkipReason:   row.SkipReason,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderAuditTrail handles GET /api/v1/orders/:orderId/audit-trail.
func (s *Server) GetOrderAuditTrail(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderAuditTrailQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	trail, err := s.auditTrailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, trail)
}

// GetOrderEventLog handles GET /api/v1/orders/:orderId/events.
func (s *Server) GetOrderEventLog(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderEventLogQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	log, err := s.eventLogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, log)
}

// GetRouteProgress handles GET /api/v1/orders/:orderId/route-progress.
func (s *Server) GetRouteProgress(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetRouteProgressQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	progress, err := s.routeProgressHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, progress)
}

// GetBlockedOrders handles GET /api/v1/orders/blocked.
func (s *Server) GetBlockedOrders(ctx echo.Context) error {
	query := queries.NewGetBlockedOrdersQuery()

	blocked, err := s.blockedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, blocked)
}

// GetActivePolicies handles GET /api/v1/policies/active.
func (s *Server) GetActivePolicies(ctx echo.Context) error {
	query := queries.NewGetActivePoliciesQuery()

	policies, err := s.activePoliciesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, policies)
}

func lineInputFromRequest(request LineRequest) (commands.LineInput, error) {
	lineID, err := kernel.UUIDFromString(request.LineID)
	if err != nil {
		return commands.LineInput{}, err
	}
	itemID, err := kernel.UUIDFromString(request.ItemID)
	if err != nil {
		return commands.LineInput{}, err
	}

	input := commands.LineInput{
		LineID:        lineID,
		ItemID:        itemID,
		ItemType:      request.ItemType,
		Quantity:      request.Quantity,
		OrderPriority: request.OrderPriority,
	}
	if request.ShipViaID != nil {
		shipViaID, viaErr := kernel.UUIDFromString(*request.ShipViaID)
		if viaErr != nil {
			return commands.LineInput{}, viaErr
		}
		input.ShipViaID = &shipViaID
	}

	return input, nil
}

func entryFromRequest(request PolicyEntryRequest) (policy.Entry, error) {
	entry := policy.Entry{
		ID:          kernel.NewUUID(),
		DecisionKey: request.DecisionKey,
		ScopeType:   policy.ScopeType(request.ScopeType),
		Value:       request.Value,
	}

	if request.SiteID != nil {
		siteID, err := kernel.UUIDFromString(*request.SiteID)
		if err != nil {
			return policy.Entry{}, err
		}
		entry.SiteID = &siteID
	}
	if request.CustomerID != nil {
		customerID, err := kernel.UUIDFromString(*request.CustomerID)
		if err != nil {
			return policy.Entry{}, err
		}
		entry.CustomerID = &customerID
	}

	return entry, nil
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func stepPath(ctx echo.Context) (kernel.UUID, int, error) {
	instanceID, err := pathUUID(ctx, "instanceId")
	if err != nil {
		return kernel.UUID{}, 0, err
	}

	sequence, err := strconv.Atoi(ctx.Param("sequence"))
	if err != nil {
		return kernel.UUID{}, 0, errs.NewValueIsInvalidError("sequence")
	}

	return instanceID, sequence, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
