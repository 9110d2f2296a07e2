package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/services"
)

// MigrationReportRow is one order's outcome in a backfill run.
type MigrationReportRow struct {
	OrderID      kernel.UUID
	OrderNo      string
	LegacyStatus string
	Proposed     string
	RuleApplied  string
	Skipped      bool
	SkipReason   string
}

// MigrateLegacyStatusesCommandHandler runs the legacy status backfill.
// The mapping itself is a pure function; the handler adds persistence,
// audit, and the never-overwrite-a-migrated-order guarantee, which makes
// repeat runs harmless.
type MigrateLegacyStatusesCommandHandler struct {
	uowFactory OrderUoWFactory
	migrator   services.LegacyStatusMigrator
	recorder   audit.Recorder
}

// NewMigrateLegacyStatusesCommandHandler creates a handler for the backfill.
func NewMigrateLegacyStatusesCommandHandler(
	uowFactory OrderUoWFactory,
	migrator services.LegacyStatusMigrator,
	recorder audit.Recorder,
) MigrateLegacyStatusesCommandHandler {
	return MigrateLegacyStatusesCommandHandler{
		uowFactory: uowFactory,
		migrator:   migrator,
		recorder:   recorder,
	}
}

// Handle runs the backfill and returns one report row per candidate order.
func (h *MigrateLegacyStatusesCommandHandler) Handle(ctx context.Context, cmd MigrateLegacyStatusesCommand) ([]MigrationReportRow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := kernel.ActorFromContext(ctx)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	candidates, err := orderRepo.GetAllWithLegacyStatus(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]MigrationReportRow, 0, len(candidates))
	for _, aggregate := range candidates {
		proposal, propErr := h.migrator.ProposeFor(aggregate)
		if propErr != nil {
			return nil, propErr
		}

		row := MigrationReportRow{
			OrderID:      aggregate.ID(),
			OrderNo:      aggregate.OrderNo(),
			LegacyStatus: proposal.LegacyStatus,
			Skipped:      proposal.Skipped,
			SkipReason:   proposal.SkipReason,
		}
		if !proposal.Skipped {
			row.Proposed = proposal.Proposed.String()
			row.RuleApplied = proposal.RuleApplied
		}
		report = append(report, row)

		if cmd.DryRun() || proposal.Skipped {
			continue
		}

		before := audit.SnapshotOrder(aggregate)
		if err = aggregate.MarkMigrated(proposal.LegacyStatus, proposal.Proposed, proposal.RuleApplied, actor); err != nil {
			return nil, err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return nil, err
		}
		if err = writeOrderAudit(ctx, uow, h.recorder, aggregate, before); err != nil {
			return nil, err
		}
	}

	if cmd.DryRun() {
		return report, uow.Rollback(ctx)
	}
	return report, uow.Commit(ctx)
}
