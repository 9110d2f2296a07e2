package commands_test

import (
	"testing"
	"time"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/core/domain/services"
	"cylindertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end workflow tests driving the command handlers against the
// in-memory fakes, the way the HTTP layer drives them in production.

func storeOrderReadyForProduction(t *testing.T, uow *fakeUoW) (*order.Order, *order.Line) {
	t.Helper()
	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), "SO-3001", kernel.NewUUID(), kernel.NewUUID(),
		order.ReadyForProduction, order.OverlayNone, "", kernel.RoleUnspecified, "",
		time.Now().UTC(), 1)
	require.NoError(t, err)
	line, err := aggregate.AddLine(kernel.NewUUID(), kernel.NewUUID(), "Cylinder", 2, nil, nil)
	require.NoError(t, err)
	require.NoError(t, uow.orders.Add(t.Context(), aggregate))
	return aggregate, line
}

func storeThreeStepTemplate(t *testing.T, uow *fakeUoW) *route.Template {
	t.Helper()
	steps := []route.TemplateStep{
		{ID: kernel.NewUUID(), Sequence: 1, WorkCenter: "Prep", Required: true},
		{ID: kernel.NewUUID(), Sequence: 2, WorkCenter: "HydroTest", Required: true},
		{ID: kernel.NewUUID(), Sequence: 3, WorkCenter: "Paint", Required: true, GenerateBolOnComplete: true},
	}
	template, err := route.NewTemplate(kernel.NewUUID(), "Requal Route", steps)
	require.NoError(t, err)
	require.NoError(t, uow.templates.Add(t.Context(), template))
	return template
}

func TestWorkflow_RouteExecutionGeneratesOneBol(t *testing.T) {
	uow := newFakeUoW()
	aggregate, line := storeOrderReadyForProduction(t, uow)
	template := storeThreeStepTemplate(t, uow)

	customerID := aggregate.CustomerID()
	assignment, err := route.NewAssignment(
		kernel.NewUUID(), template.ID(), route.Scope{CustomerID: &customerID},
		10, 1, time.Now().UTC().Add(-time.Hour), nil, false)
	require.NoError(t, err)
	require.NoError(t, uow.assignments.Add(t.Context(), assignment))

	ctx, _ := actorContext(t, kernel.RoleProduction)
	documents := &fakeDocumentGenerator{}

	instantiate := commands.NewInstantiateRouteCommandHandler(
		fakeRoutingUoWFactory{uow: uow}, services.NewAssignmentResolver(), audit.NewRecorder())
	instantiateCmd, err := commands.NewInstantiateRouteCommand(aggregate.ID(), line.ID(), nil, false)
	require.NoError(t, err)
	require.NoError(t, instantiate.Handle(ctx, instantiateCmd))

	instance, err := uow.instances.GetByOrderLine(ctx, line.ID())
	require.NoError(t, err)
	assert.True(t, line.Routed())
	assert.Equal(t, template.ID(), instance.TemplateID())

	scanIn := commands.NewScanInStepCommandHandler(fakeRouteUoWFactory{uow: uow})
	complete := commands.NewCompleteStepCommandHandler(fakeRouteUoWFactory{uow: uow}, documents)
	for sequence := 1; sequence <= 3; sequence++ {
		scanCmd, cmdErr := commands.NewScanInStepCommand(instance.ID(), sequence)
		require.NoError(t, cmdErr)
		require.NoError(t, scanIn.Handle(ctx, scanCmd))

		completeCmd, cmdErr := commands.NewCompleteStepCommand(instance.ID(), sequence, "")
		require.NoError(t, cmdErr)
		require.NoError(t, complete.Handle(ctx, completeCmd))
	}

	assert.Equal(t, route.InstanceCompleted, instance.State())
	assert.Equal(t, 1, documents.countOf(route.DocumentBOL))
	assert.Len(t, documents.requests, 1)
}

func TestWorkflow_QualityHoldBlocksAdvanceUntilCleared(t *testing.T) {
	uow := newFakeUoW()
	aggregate, _ := storeOrderReadyForProduction(t, uow)
	ctx, _ := actorContext(t, kernel.RoleQuality)
	notifier := &fakeNotifier{}
	recorder := audit.NewRecorder()

	reader := fakePolicyReader{values: map[string]string{
		policy.OverlayReasonsKey(order.OnHoldQuality.String()):      "QualityInspectionOpen,QualityInspectionFailed",
		policy.OverlayReleaseRolesKey(order.OnHoldQuality.String()): "Quality",
		policy.AdvanceRolesKey(order.InProduction.String()):         "Production,Quality",
	}}

	apply := commands.NewApplyHoldOverlayCommandHandler(
		fakeOrderUoWFactory{uow: uow}, reader, notifier, recorder)
	applyCmd, err := commands.NewApplyHoldOverlayCommand(
		aggregate.ID(), order.OnHoldQuality, "QualityInspectionOpen", "", nil)
	require.NoError(t, err)
	require.NoError(t, apply.Handle(ctx, applyCmd))
	assert.Equal(t, order.OnHoldQuality, aggregate.HoldOverlay())
	assert.Len(t, notifier.requests, 1)

	advance := commands.NewAdvanceOrderStatusCommandHandler(
		fakeOrderUoWFactory{uow: uow}, reader, recorder)
	advanceCmd, err := commands.NewAdvanceOrderStatusCommand(aggregate.ID(), order.InProduction)
	require.NoError(t, err)

	err = advance.Handle(ctx, advanceCmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrBlocked)
	assert.Equal(t, order.ReadyForProduction, aggregate.Status())

	release := commands.NewClearHoldOverlayCommandHandler(
		fakeOrderUoWFactory{uow: uow}, reader, recorder)
	clearCmd, err := commands.NewClearHoldOverlayCommand(aggregate.ID(), "inspection passed")
	require.NoError(t, err)
	require.NoError(t, release.Handle(ctx, clearCmd))
	assert.Equal(t, order.OverlayNone, aggregate.HoldOverlay())

	require.NoError(t, advance.Handle(ctx, advanceCmd))
	assert.Equal(t, order.InProduction, aggregate.Status())
}

func TestWorkflow_RejectedReasonCodeKeepsOrderClean(t *testing.T) {
	uow := newFakeUoW()
	aggregate, _ := storeOrderReadyForProduction(t, uow)
	ctx, _ := actorContext(t, kernel.RoleQuality)

	reader := fakePolicyReader{values: map[string]string{
		policy.OverlayReasonsKey(order.OnHoldQuality.String()): "QualityInspectionOpen",
	}}
	apply := commands.NewApplyHoldOverlayCommandHandler(
		fakeOrderUoWFactory{uow: uow}, reader, &fakeNotifier{}, audit.NewRecorder())
	applyCmd, err := commands.NewApplyHoldOverlayCommand(
		aggregate.ID(), order.OnHoldQuality, "NotInCatalog", "", nil)
	require.NoError(t, err)

	err = apply.Handle(ctx, applyCmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, order.OverlayNone, aggregate.HoldOverlay())
	assert.Zero(t, uow.commits)
}
