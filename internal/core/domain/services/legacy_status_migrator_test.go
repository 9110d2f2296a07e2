package services_test

import (
	"testing"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/services"
	"cylindertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLegacyOrder(t *testing.T, legacyStatus string) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), "SO-9001", kernel.NewUUID(), kernel.NewUUID(),
		order.Draft, order.OverlayNone, "", kernel.RoleUnspecified, "", time.Now().UTC(), 1,
	)
	require.NoError(t, err)
	o.RestoreAuxiliary(nil, nil, nil, nil, 0, "", nil, "", "", nil, 0, legacyStatus, nil)
	return o
}

func TestLegacyStatusMigratorPropose(t *testing.T) {
	migrator := services.NewLegacyStatusMigrator()

	t.Run("should map every retired status value", func(t *testing.T) {
		cases := map[string]order.Status{
			"new":              order.PendingOrderEntryValidation,
			"ready for pickup": order.InboundLogisticsPlanned,
			"pickup scheduled": order.InboundInTransit,
			"received":         order.ReceivedPendingReconciliation,
			"ready to ship":    order.OutboundLogisticsPlanned,
			"ready to invoice": order.InvoiceReady,
		}
		for legacy, want := range cases {
			proposed, rule, err := migrator.Propose(legacy)

			require.NoError(t, err, legacy)
			assert.Equal(t, want, proposed, legacy)
			assert.NotEmpty(t, rule, legacy)
		}
	})

	t.Run("should normalize casing and whitespace", func(t *testing.T) {
		proposed, _, err := migrator.Propose("  Ready To Invoice ")

		require.NoError(t, err)
		assert.Equal(t, order.InvoiceReady, proposed)
	})

	t.Run("should fail on an unknown legacy value", func(t *testing.T) {
		_, _, err := migrator.Propose("shipped")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestLegacyStatusMigratorProposeFor(t *testing.T) {
	migrator := services.NewLegacyStatusMigrator()

	t.Run("should propose a mapping for an unmigrated order", func(t *testing.T) {
		o := createLegacyOrder(t, "received")

		proposal, err := migrator.ProposeFor(o)

		require.NoError(t, err)
		assert.False(t, proposal.Skipped)
		assert.Equal(t, "received", proposal.LegacyStatus)
		assert.Equal(t, order.ReceivedPendingReconciliation, proposal.Proposed)
		assert.Equal(t, "ReceivedToPendingReconciliation", proposal.RuleApplied)
	})

	t.Run("should skip an order without a legacy status", func(t *testing.T) {
		o := createLegacyOrder(t, "")

		proposal, err := migrator.ProposeFor(o)

		require.NoError(t, err)
		assert.True(t, proposal.Skipped)
		assert.Equal(t, "no legacy status recorded", proposal.SkipReason)
	})

	t.Run("should skip an already migrated order", func(t *testing.T) {
		o := createLegacyOrder(t, "received")
		require.NoError(t, o.MarkMigrated("received", order.ReceivedPendingReconciliation,
			"ReceivedToPendingReconciliation", kernel.SystemActor("migration")))

		proposal, err := migrator.ProposeFor(o)

		require.NoError(t, err)
		assert.True(t, proposal.Skipped)
		assert.Equal(t, "already migrated", proposal.SkipReason)
	})
}
