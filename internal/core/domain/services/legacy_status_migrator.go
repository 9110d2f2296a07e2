package services

import (
	"strings"

	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/pkg/errs"
)

// MigrationProposal is the outcome of mapping one order's legacy status to
// the lifecycle vocabulary. Skipped proposals carry the reason instead of a
// mapped status.
type MigrationProposal struct {
	LegacyStatus string
	Proposed     order.Status
	RuleApplied  string
	Skipped      bool
	SkipReason   string
}

// LegacyStatusMigrator is a domain service mapping the retired short status
// vocabulary onto the lifecycle enum. The mapping is a pure function over
// the legacy value so it can run in dry-run mode and re-run idempotently;
// orders already carrying a migration stamp are skipped, never overwritten.
type LegacyStatusMigrator struct{}

// NewLegacyStatusMigrator creates a new LegacyStatusMigrator instance.
func NewLegacyStatusMigrator() LegacyStatusMigrator {
	return LegacyStatusMigrator{}
}

func getLegacyRules() map[string]struct {
	status order.Status
	rule   string
} {
	return map[string]struct {
		status order.Status
		rule   string
	}{
		"new":              {order.PendingOrderEntryValidation, "NewToPendingValidation"},
		"ready for pickup": {order.InboundLogisticsPlanned, "ReadyForPickupToInboundPlanned"},
		"pickup scheduled": {order.InboundInTransit, "PickupScheduledToInTransit"},
		"received":         {order.ReceivedPendingReconciliation, "ReceivedToPendingReconciliation"},
		"ready to ship":    {order.OutboundLogisticsPlanned, "ReadyToShipToOutboundPlanned"},
		"ready to invoice": {order.InvoiceReady, "ReadyToInvoiceToInvoiceReady"},
	}
}

// Propose maps a single legacy status value. Unknown values fail with a
// validation error so operators see bad data instead of a silent default.
func (m LegacyStatusMigrator) Propose(legacyStatus string) (order.Status, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(legacyStatus))
	entry, ok := getLegacyRules()[normalized]
	if !ok {
		return order.StatusUnknown, "", errs.NewValueIsInvalidError("legacyStatus " + legacyStatus + " has no migration rule")
	}
	return entry.status, entry.rule, nil
}

// ProposeFor evaluates one order. Already-migrated orders come back as
// skipped proposals; so do orders without a legacy status to map.
func (m LegacyStatusMigrator) ProposeFor(o *order.Order) (MigrationProposal, error) {
	if err := o.Validate(); err != nil {
		return MigrationProposal{}, err
	}
	legacy := o.LegacyStatus()
	if legacy == "" {
		return MigrationProposal{Skipped: true, SkipReason: "no legacy status recorded"}, nil
	}
	if o.MigratedAt() != nil {
		return MigrationProposal{
			LegacyStatus: legacy,
			Skipped:      true,
			SkipReason:   "already migrated",
		}, nil
	}

	proposed, rule, err := m.Propose(legacy)
	if err != nil {
		return MigrationProposal{}, err
	}
	return MigrationProposal{
		LegacyStatus: legacy,
		Proposed:     proposed,
		RuleApplied:  rule,
	}, nil
}
