package order_test

import (
	"testing"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions.
func createValidOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "SO-1001", kernel.NewUUID(), kernel.NewUUID(), nil)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func createOrderInStatus(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), "SO-1001", kernel.NewUUID(), kernel.NewUUID(),
		status, order.OverlayNone, "", kernel.RoleUnspecified, "", time.Now().UTC(), 1,
	)
	require.NoError(t, err)
	return o
}

func createOrderWithLine(t *testing.T, status order.Status) (*order.Order, kernel.UUID) {
	t.Helper()
	o := createOrderInStatus(t, status)
	lineID := kernel.NewUUID()
	line, err := order.RestoreLine(lineID, o.ID(), 1, kernel.NewUUID(), "Cylinder", 10, nil, nil, false, 0)
	require.NoError(t, err)
	require.NoError(t, o.AttachLines([]*order.Line{line}))
	return o, lineID
}

func officeActor() kernel.Actor {
	return kernel.Actor{EmpNo: "E100", Role: kernel.RoleOffice, Source: "test", CorrelationID: kernel.NewUUID()}
}

func supervisorActor() kernel.Actor {
	return kernel.Actor{EmpNo: "E200", Role: kernel.RoleSupervisor, Source: "test", CorrelationID: kernel.NewUUID()}
}

func validHoldDetails() *order.CustomerHoldDetails {
	return &order.CustomerHoldDetails{
		ReadyRetryUtc:  time.Now().UTC().Add(48 * time.Hour),
		LastContactUtc: time.Now().UTC(),
		ContactName:    "J. Smith",
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order in Draft with no overlay", func(t *testing.T) {
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()
		siteID := kernel.NewUUID()

		o, err := order.NewOrder(id, "SO-1001", customerID, siteID, nil)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, "SO-1001", o.OrderNo())
		assert.Equal(t, order.Draft, o.Status())
		assert.Equal(t, order.OverlayNone, o.HoldOverlay())
		assert.Empty(t, o.Lines())
	})

	t.Run("should reject empty order number", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), "", kernel.NewUUID(), kernel.NewUUID(), nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject empty identifiers", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, "SO-1001", kernel.NewUUID(), kernel.NewUUID(), nil)
		assert.Error(t, err)
	})
}

func TestOrderValidate(t *testing.T) {
	t.Run("should fail for zero-value order", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("should fail for nil order", func(t *testing.T) {
		var o *order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrderAdvance(t *testing.T) {
	t.Run("should advance to the immediate successor and append an event", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.Advance(order.PendingOrderEntryValidation, officeActor())

		require.NoError(t, err)
		assert.Equal(t, order.PendingOrderEntryValidation, o.Status())
		require.Len(t, o.PendingEvents(), 1)
		event := o.PendingEvents()[0]
		assert.Equal(t, order.EventStatusChanged, event.EventType)
		assert.Equal(t, "Draft", event.FromStatus)
		assert.Equal(t, "PendingOrderEntryValidation", event.ToStatus)
		assert.Equal(t, "E100", event.ActorEmpNo)
	})

	t.Run("should reject skipping a status", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.Advance(order.InProduction, officeActor())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Draft, o.Status())
		assert.Empty(t, o.PendingEvents())
	})

	t.Run("should reject advancing while a blocking overlay is active", func(t *testing.T) {
		o := createValidOrder(t)
		require.NoError(t, o.ApplyOverlay(order.OnHoldQuality, "QA-01", officeActor(), "", nil))

		err := o.Advance(order.PendingOrderEntryValidation, officeActor())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBlocked)
		assert.Equal(t, order.Draft, o.Status())
	})

	t.Run("should allow advancing under the informational erp exception", func(t *testing.T) {
		o := createValidOrder(t)
		require.NoError(t, o.ApplyOverlay(order.ExceptionErpReconcile, "ERP-01", officeActor(), "", nil))

		err := o.Advance(order.PendingOrderEntryValidation, officeActor())

		assert.NoError(t, err)
	})

	t.Run("should never reach ProductionComplete through a plain advance", func(t *testing.T) {
		o := createOrderInStatus(t, order.ProductionCompletePendingApproval)

		err := o.Advance(order.ProductionComplete, officeActor())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBlocked)
		assert.Equal(t, order.ProductionCompletePendingApproval, o.Status())
	})

	t.Run("should block InvoiceReady while rework is open", func(t *testing.T) {
		o, lineID := createOrderWithLine(t, order.DispatchedOrPickupReleased)
		require.NoError(t, o.OpenRework(lineID, "RW-01", supervisorActor()))

		err := o.Advance(order.InvoiceReady, officeActor())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBlocked)
	})

	t.Run("should allow InvoiceReady after rework is closed", func(t *testing.T) {
		o, lineID := createOrderWithLine(t, order.DispatchedOrPickupReleased)
		require.NoError(t, o.OpenRework(lineID, "RW-01", supervisorActor()))
		require.NoError(t, o.CloseRework(lineID, supervisorActor(), "done"))

		err := o.Advance(order.InvoiceReady, officeActor())

		assert.NoError(t, err)
	})
}

func TestOrderSupervisorDecision(t *testing.T) {
	t.Run("should complete production on approval", func(t *testing.T) {
		o := createOrderInStatus(t, order.ProductionCompletePendingApproval)

		err := o.ApproveProduction(supervisorActor(), "looks good")

		require.NoError(t, err)
		assert.Equal(t, order.ProductionComplete, o.Status())
		require.Len(t, o.PendingEvents(), 1)
		assert.Equal(t, order.EventSupervisorApproved, o.PendingEvents()[0].EventType)
	})

	t.Run("should reopen production on rejection", func(t *testing.T) {
		o := createOrderInStatus(t, order.ProductionCompletePendingApproval)

		err := o.RejectProduction(supervisorActor(), "rejected welds")

		require.NoError(t, err)
		assert.Equal(t, order.InProduction, o.Status())
		require.Len(t, o.PendingEvents(), 1)
		assert.Equal(t, order.EventSupervisorRejected, o.PendingEvents()[0].EventType)
	})

	t.Run("should reject a decision outside pending approval", func(t *testing.T) {
		o := createOrderInStatus(t, order.InProduction)

		err := o.ApproveProduction(supervisorActor(), "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrderOverlays(t *testing.T) {
	t.Run("should apply an overlay with reason and owner role", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.ApplyOverlay(order.OnHoldQuality, "QA-01", officeActor(), "leak test", nil)

		require.NoError(t, err)
		assert.Equal(t, order.OnHoldQuality, o.HoldOverlay())
		assert.Equal(t, "QA-01", o.StatusReasonCode())
		assert.Equal(t, kernel.RoleOffice, o.StatusOwnerRole())
		require.Len(t, o.PendingEvents(), 1)
		assert.Equal(t, order.EventOverlayApplied, o.PendingEvents()[0].EventType)
	})

	t.Run("should reject a second overlay while one is active", func(t *testing.T) {
		o := createValidOrder(t)
		require.NoError(t, o.ApplyOverlay(order.OnHoldQuality, "QA-01", officeActor(), "", nil))

		err := o.ApplyOverlay(order.OnHoldLogistics, "LG-01", officeActor(), "", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.OnHoldQuality, o.HoldOverlay())
	})

	t.Run("should reject an overlay without a reason code", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.ApplyOverlay(order.OnHoldQuality, "", officeActor(), "", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should require complete contact details for a customer hold", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.ApplyOverlay(order.OnHoldCustomer, "CU-01", officeActor(), "", nil)
		require.Error(t, err)

		incomplete := &order.CustomerHoldDetails{ContactName: "J. Smith"}
		err = o.ApplyOverlay(order.OnHoldCustomer, "CU-01", officeActor(), "", incomplete)
		require.Error(t, err)

		err = o.ApplyOverlay(order.OnHoldCustomer, "CU-01", officeActor(), "", validHoldDetails())
		require.NoError(t, err)
		require.NotNil(t, o.CustomerHold())
		assert.Equal(t, "J. Smith", o.CustomerHold().ContactName)
	})

	t.Run("should clear the active overlay and reset reason fields", func(t *testing.T) {
		o := createValidOrder(t)
		require.NoError(t, o.ApplyOverlay(order.OnHoldCustomer, "CU-01", officeActor(), "", validHoldDetails()))

		err := o.ClearOverlay(officeActor(), "customer ready")

		require.NoError(t, err)
		assert.Equal(t, order.OverlayNone, o.HoldOverlay())
		assert.Empty(t, o.StatusReasonCode())
		assert.Equal(t, kernel.RoleUnspecified, o.StatusOwnerRole())
		assert.Nil(t, o.CustomerHold())
	})

	t.Run("should reject clearing when no overlay is active", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.ClearOverlay(officeActor(), "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrderPromiseDates(t *testing.T) {
	t.Run("should set the initial promise exactly once", func(t *testing.T) {
		o := createValidOrder(t)
		promised := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

		require.NoError(t, o.SetPromisedDate(promised))
		assert.Equal(t, promised, *o.PromisedDate())
		assert.Equal(t, promised, *o.CurrentCommittedDate())

		err := o.SetPromisedDate(promised.Add(24 * time.Hour))
		assert.Error(t, err)
	})

	t.Run("should bump the revision counter and append a promise event", func(t *testing.T) {
		o := createValidOrder(t)
		promised := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		require.NoError(t, o.SetPromisedDate(promised))

		revised := promised.Add(72 * time.Hour)
		err := o.RevisePromiseDate(revised, "CAP-01", officeActor())

		require.NoError(t, err)
		assert.Equal(t, 1, o.PromiseRevisionCount())
		assert.Equal(t, revised, *o.CurrentCommittedDate())
		assert.Equal(t, promised, *o.PromisedDate())
		assert.Equal(t, "CAP-01", o.PromiseMissReasonCode())
		require.Len(t, o.PendingPromiseEvents(), 1)
		assert.Equal(t, 1, o.PendingPromiseEvents()[0].RevisionNo)
	})

	t.Run("should not record a miss reason when revising earlier", func(t *testing.T) {
		o := createValidOrder(t)
		promised := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		require.NoError(t, o.SetPromisedDate(promised))

		err := o.RevisePromiseDate(promised.Add(-24*time.Hour), "CAP-01", officeActor())

		require.NoError(t, err)
		assert.Empty(t, o.PromiseMissReasonCode())
	})

	t.Run("should reject a revision before an initial promise exists", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.RevisePromiseDate(time.Now().UTC(), "CAP-01", officeActor())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject a revision without a reason code", func(t *testing.T) {
		o := createValidOrder(t)
		require.NoError(t, o.SetPromisedDate(time.Now().UTC()))

		err := o.RevisePromiseDate(time.Now().UTC(), "", officeActor())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrderRework(t *testing.T) {
	t.Run("should track open rework per line and per order", func(t *testing.T) {
		o, lineID := createOrderWithLine(t, order.InProduction)

		require.NoError(t, o.OpenRework(lineID, "RW-01", supervisorActor()))
		assert.Equal(t, 1, o.OpenReworkCount())
		line, err := o.Line(lineID)
		require.NoError(t, err)
		assert.Equal(t, 1, line.OpenReworkCount())

		require.NoError(t, o.CloseRework(lineID, supervisorActor(), ""))
		assert.Equal(t, 0, o.OpenReworkCount())
		assert.Equal(t, 0, line.OpenReworkCount())
	})

	t.Run("should record a request when rework opens", func(t *testing.T) {
		o, lineID := createOrderWithLine(t, order.InProduction)
		actor := supervisorActor()

		require.NoError(t, o.OpenRework(lineID, "RW-01", actor))

		require.Len(t, o.ReworkRequests(), 1)
		request := o.ReworkRequests()[0]
		assert.True(t, request.Open())
		assert.True(t, request.OrderID().IsEqual(o.ID()))
		assert.True(t, request.OrderLineID().IsEqual(lineID))
		assert.Equal(t, "RW-01", request.ReasonCode())
		assert.Equal(t, actor.EmpNo, request.RequestedBy())
		assert.False(t, request.OpenedAt().IsZero())
		assert.Nil(t, request.ClosedAt())
	})

	t.Run("should stamp the request closed instead of removing it", func(t *testing.T) {
		o, lineID := createOrderWithLine(t, order.InProduction)
		actor := supervisorActor()
		require.NoError(t, o.OpenRework(lineID, "RW-01", actor))

		require.NoError(t, o.CloseRework(lineID, actor, "defect reground"))

		require.Len(t, o.ReworkRequests(), 1)
		request := o.ReworkRequests()[0]
		assert.False(t, request.Open())
		require.NotNil(t, request.ClosedAt())
		assert.Equal(t, actor.EmpNo, request.ClosedBy())
		assert.Equal(t, "defect reground", request.Note())
	})

	t.Run("should close the oldest open request first", func(t *testing.T) {
		o, lineID := createOrderWithLine(t, order.InProduction)
		require.NoError(t, o.OpenRework(lineID, "RW-01", supervisorActor()))
		require.NoError(t, o.OpenRework(lineID, "RW-02", supervisorActor()))

		require.NoError(t, o.CloseRework(lineID, supervisorActor(), ""))

		require.Len(t, o.ReworkRequests(), 2)
		assert.False(t, o.ReworkRequests()[0].Open())
		assert.True(t, o.ReworkRequests()[1].Open())
		assert.Equal(t, 1, o.OpenReworkCount())
	})

	t.Run("should reject closing when none is open", func(t *testing.T) {
		o, lineID := createOrderWithLine(t, order.InProduction)

		err := o.CloseRework(lineID, supervisorActor(), "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject rework against an unknown line", func(t *testing.T) {
		o, _ := createOrderWithLine(t, order.InProduction)

		err := o.OpenRework(kernel.NewUUID(), "RW-01", supervisorActor())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrderInvoiceSubmission(t *testing.T) {
	t.Run("should record the staging result in InvoiceReady", func(t *testing.T) {
		o := createOrderInStatus(t, order.InvoiceReady)
		correlationID := kernel.NewUUID()

		err := o.RecordInvoiceSubmission(correlationID, "Staged", "INV-42")

		require.NoError(t, err)
		require.NotNil(t, o.InvoiceCorrelationID())
		assert.True(t, o.InvoiceCorrelationID().IsEqual(correlationID))
		assert.Equal(t, "Staged", o.InvoiceStagingResult())
		assert.Equal(t, "INV-42", o.ErpInvoiceReference())
		assert.NotNil(t, o.InvoiceSubmittedAt())
	})

	t.Run("should reject recording outside InvoiceReady", func(t *testing.T) {
		o := createOrderInStatus(t, order.InProduction)

		err := o.RecordInvoiceSubmission(kernel.NewUUID(), "Staged", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrderMarkMigrated(t *testing.T) {
	t.Run("should backfill the status and stamp the migration", func(t *testing.T) {
		o := createValidOrder(t)

		err := o.MarkMigrated("WIP", order.InProduction, "legacy:WIP", kernel.SystemActor("migration"))

		require.NoError(t, err)
		assert.Equal(t, order.InProduction, o.Status())
		assert.Equal(t, "WIP", o.LegacyStatus())
		assert.NotNil(t, o.MigratedAt())
		require.Len(t, o.PendingEvents(), 1)
		assert.Equal(t, order.EventStatusMigrated, o.PendingEvents()[0].EventType)
	})

	t.Run("should never overwrite an already migrated order", func(t *testing.T) {
		o := createValidOrder(t)
		require.NoError(t, o.MarkMigrated("WIP", order.InProduction, "legacy:WIP", kernel.SystemActor("migration")))

		err := o.MarkMigrated("WIP", order.Draft, "legacy:WIP", kernel.SystemActor("migration"))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.InProduction, o.Status())
	})
}

func TestOrderLines(t *testing.T) {
	t.Run("should number lines sequentially", func(t *testing.T) {
		o := createValidOrder(t)

		first, err := o.AddLine(kernel.NewUUID(), kernel.NewUUID(), "Cylinder", 10, nil, nil)
		require.NoError(t, err)
		second, err := o.AddLine(kernel.NewUUID(), kernel.NewUUID(), "Valve", 2, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, first.LineNo())
		assert.Equal(t, 2, second.LineNo())
		assert.Len(t, o.Lines(), 2)
	})

	t.Run("should reject adding lines once production started", func(t *testing.T) {
		o := createOrderInStatus(t, order.InProduction)

		_, err := o.AddLine(kernel.NewUUID(), kernel.NewUUID(), "Cylinder", 10, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject attaching a line of a different order", func(t *testing.T) {
		o := createValidOrder(t)
		foreign, err := order.RestoreLine(kernel.NewUUID(), kernel.NewUUID(), 1, kernel.NewUUID(), "Cylinder", 1, nil, nil, false, 0)
		require.NoError(t, err)

		err = o.AttachLines([]*order.Line{foreign})

		require.Error(t, err)
	})

	t.Run("should clear pending events after persistence", func(t *testing.T) {
		o := createValidOrder(t)
		require.NoError(t, o.Advance(order.PendingOrderEntryValidation, officeActor()))
		require.NotEmpty(t, o.PendingEvents())

		o.ClearPendingEvents()

		assert.Empty(t, o.PendingEvents())
		assert.Empty(t, o.PendingPromiseEvents())
	})
}
