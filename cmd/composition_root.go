package cmd

import (
	"log/slog"
	"strconv"
	"time"

	httpin "cylindertrack/internal/adapters/in/http"
	"cylindertrack/internal/adapters/out/postgres"
	redisout "cylindertrack/internal/adapters/out/redis"
	"cylindertrack/internal/adapters/out/stub"
	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/application/usecases/queries"
	"cylindertrack/internal/core/domain/services"
	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/jobs"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	policies    ports.PolicyReader
	invalidator ports.PolicyCacheInvalidator
	recorder    audit.Recorder
	notifier    ports.Notifier
	refData     ports.ReferenceData
	documents   ports.DocumentGenerator
	erp         ports.ErpStaging
	logger      *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	var policies ports.PolicyReader = postgres.NewGormPolicyReader(gormDB)
	var invalidator ports.PolicyCacheInvalidator = stub.NewPolicyCacheInvalidator(logger)
	if redisClient != nil {
		cache := redisout.NewPolicyCache(redisClient, policies, policyCacheTTL(config))
		policies = cache
		invalidator = cache
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		policies:    policies,
		invalidator: invalidator,
		recorder:    audit.NewRecorder(),
		notifier:    stub.NewNotifier(logger),
		refData:     stub.NewReferenceData(logger),
		documents:   stub.NewDocumentGenerator(logger),
		erp:         stub.NewErpStaging(logger),
		logger:      logger,
	}
}

func policyCacheTTL(config Config) time.Duration {
	seconds, err := strconv.Atoi(config.PolicyCacheTTLSeconds)
	if err != nil || seconds <= 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) routeUoWFactory() commands.RouteUoWFactory {
	return FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) routingUoWFactory() commands.RoutingUoWFactory {
	return FuncRoutingUoWFactory(func() commands.RoutingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) policyUoWFactory() commands.PolicyUoWFactory {
	return FuncPolicyUoWFactory(func() commands.PolicyUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.refData, c.recorder)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.orderUoWFactory(), c.policies, c.recorder)
}

func (c *CompositionRoot) CreateApplyHoldOverlayCommandHandler() commands.ApplyHoldOverlayCommandHandler {
	return commands.NewApplyHoldOverlayCommandHandler(c.orderUoWFactory(), c.policies, c.notifier, c.recorder)
}

func (c *CompositionRoot) CreateClearHoldOverlayCommandHandler() commands.ClearHoldOverlayCommandHandler {
	return commands.NewClearHoldOverlayCommandHandler(c.orderUoWFactory(), c.policies, c.recorder)
}

func (c *CompositionRoot) CreateRevisePromiseDateCommandHandler() commands.RevisePromiseDateCommandHandler {
	return commands.NewRevisePromiseDateCommandHandler(c.orderUoWFactory(), c.policies, c.notifier, c.recorder)
}

func (c *CompositionRoot) CreateSubmitInvoiceCommandHandler() commands.SubmitInvoiceCommandHandler {
	return commands.NewSubmitInvoiceCommandHandler(c.orderUoWFactory(), c.erp, c.recorder)
}

func (c *CompositionRoot) CreateInstantiateRouteCommandHandler() commands.InstantiateRouteCommandHandler {
	return commands.NewInstantiateRouteCommandHandler(c.routingUoWFactory(), services.NewAssignmentResolver(), c.recorder)
}

func (c *CompositionRoot) CreateScanInStepCommandHandler() commands.ScanInStepCommandHandler {
	return commands.NewScanInStepCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateRecordStepCaptureCommandHandler() commands.RecordStepCaptureCommandHandler {
	return commands.NewRecordStepCaptureCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateCompleteStepCommandHandler() commands.CompleteStepCommandHandler {
	return commands.NewCompleteStepCommandHandler(c.routeUoWFactory(), c.documents)
}

func (c *CompositionRoot) CreateSkipStepCommandHandler() commands.SkipStepCommandHandler {
	return commands.NewSkipStepCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateUnblockStepCommandHandler() commands.UnblockStepCommandHandler {
	return commands.NewUnblockStepCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateOverrideStepDurationCommandHandler() commands.OverrideStepDurationCommandHandler {
	return commands.NewOverrideStepDurationCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateRecordSupervisorDecisionCommandHandler() commands.RecordSupervisorDecisionCommandHandler {
	return commands.NewRecordSupervisorDecisionCommandHandler(c.routeUoWFactory(), c.recorder)
}

func (c *CompositionRoot) CreateRequestReworkCommandHandler() commands.RequestReworkCommandHandler {
	return commands.NewRequestReworkCommandHandler(c.routeUoWFactory(), c.policies, c.recorder)
}

func (c *CompositionRoot) CreateCloseReworkCommandHandler() commands.CloseReworkCommandHandler {
	return commands.NewCloseReworkCommandHandler(c.routeUoWFactory(), c.recorder)
}

func (c *CompositionRoot) CreateCreatePolicyVersionCommandHandler() commands.CreatePolicyVersionCommandHandler {
	return commands.NewCreatePolicyVersionCommandHandler(c.policyUoWFactory())
}

func (c *CompositionRoot) CreateRecordPolicySignoffCommandHandler() commands.RecordPolicySignoffCommandHandler {
	return commands.NewRecordPolicySignoffCommandHandler(c.policyUoWFactory())
}

func (c *CompositionRoot) CreateActivatePolicyVersionCommandHandler() commands.ActivatePolicyVersionCommandHandler {
	return commands.NewActivatePolicyVersionCommandHandler(c.policyUoWFactory(), c.invalidator)
}

func (c *CompositionRoot) CreateMigrateLegacyStatusesCommandHandler() commands.MigrateLegacyStatusesCommandHandler {
	return commands.NewMigrateLegacyStatusesCommandHandler(c.orderUoWFactory(), services.NewLegacyStatusMigrator(), c.recorder)
}

func (c *CompositionRoot) CreateGetOrderAuditTrailQueryHandler() queries.GetOrderAuditTrailQueryHandler {
	return queries.NewGetOrderAuditTrailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderEventLogQueryHandler() queries.GetOrderEventLogQueryHandler {
	return queries.NewGetOrderEventLogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRouteProgressQueryHandler() queries.GetRouteProgressQueryHandler {
	return queries.NewGetRouteProgressQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBlockedOrdersQueryHandler() queries.GetBlockedOrdersQueryHandler {
	return queries.NewGetBlockedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActivePoliciesQueryHandler() queries.GetActivePoliciesQueryHandler {
	return queries.NewGetActivePoliciesQueryHandler(c.gormDB)
}

// CreateServerHandlers assembles every handler the HTTP server exposes.
func (c *CompositionRoot) CreateServerHandlers() httpin.ServerHandlers {
	return httpin.ServerHandlers{
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		AdvanceStatus:         c.CreateAdvanceOrderStatusCommandHandler(),
		ApplyHold:             c.CreateApplyHoldOverlayCommandHandler(),
		ClearHold:             c.CreateClearHoldOverlayCommandHandler(),
		RevisePromise:         c.CreateRevisePromiseDateCommandHandler(),
		SubmitInvoice:         c.CreateSubmitInvoiceCommandHandler(),
		InstantiateRoute:      c.CreateInstantiateRouteCommandHandler(),
		ScanIn:                c.CreateScanInStepCommandHandler(),
		RecordCapture:         c.CreateRecordStepCaptureCommandHandler(),
		CompleteStep:          c.CreateCompleteStepCommandHandler(),
		SkipStep:              c.CreateSkipStepCommandHandler(),
		UnblockStep:           c.CreateUnblockStepCommandHandler(),
		OverrideDuration:      c.CreateOverrideStepDurationCommandHandler(),
		SupervisorDecision:    c.CreateRecordSupervisorDecisionCommandHandler(),
		RequestRework:         c.CreateRequestReworkCommandHandler(),
		CloseRework:           c.CreateCloseReworkCommandHandler(),
		CreatePolicyVersion:   c.CreateCreatePolicyVersionCommandHandler(),
		RecordPolicySignoff:   c.CreateRecordPolicySignoffCommandHandler(),
		ActivatePolicyVersion: c.CreateActivatePolicyVersionCommandHandler(),
		MigrateLegacy:         c.CreateMigrateLegacyStatusesCommandHandler(),
		AuditTrail:            c.CreateGetOrderAuditTrailQueryHandler(),
		EventLog:              c.CreateGetOrderEventLogQueryHandler(),
		RouteProgress:         c.CreateGetRouteProgressQueryHandler(),
		BlockedOrders:         c.CreateGetBlockedOrdersQueryHandler(),
		ActivePolicies:        c.CreateGetActivePoliciesQueryHandler(),
	}
}

// CreateJobManager wires the background sweeps.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.orderUoWFactory(),
		c.CreateSubmitInvoiceCommandHandler(),
		c.notifier,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}

type FuncRoutingUoWFactory func() commands.RoutingUoW

func (f FuncRoutingUoWFactory) Create() commands.RoutingUoW {
	return f()
}

type FuncPolicyUoWFactory func() commands.PolicyUoW

func (f FuncPolicyUoWFactory) Create() commands.PolicyUoW {
	return f()
}
