package commands

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/pkg/errs"
)

// authorizeRole checks the acting role against the policy-configured role
// list for a decision key. A missing policy entry denies by default; the
// system actor (jobs, migrations) is always allowed.
func authorizeRole(
	ctx context.Context,
	policies ports.PolicyReader,
	decisionKey string,
	actor kernel.Actor,
	siteID, customerID *kernel.UUID,
	action string,
) error {
	if actor.Role == kernel.RoleSystem {
		return nil
	}

	value, ok, err := policies.ActiveValue(ctx, decisionKey, siteID, customerID)
	if err != nil {
		return err
	}
	if ok {
		for _, role := range policy.ParseRoles(value) {
			if role == actor.Role {
				return nil
			}
		}
	}
	return errs.NewUnauthorizedError(string(actor.Role), action)
}

// validateReasonCode checks that a reason code belongs to the active
// catalog for a decision key. An absent catalog rejects every code.
func validateReasonCode(
	ctx context.Context,
	policies ports.PolicyReader,
	decisionKey string,
	reasonCode string,
	siteID, customerID *kernel.UUID,
) error {
	value, ok, err := policies.ActiveValue(ctx, decisionKey, siteID, customerID)
	if err != nil {
		return err
	}
	if ok {
		for _, code := range policy.ParseReasonCodes(value) {
			if code == reasonCode {
				return nil
			}
		}
	}
	return errs.NewValueIsInvalidError("reasonCode " + reasonCode + " is not in the active catalog")
}

// writeOrderAudit diffs the order against its pre-mutation snapshot and
// appends the batch inside the current transaction. An audit failure is
// fatal for the enclosing mutation.
func writeOrderAudit(
	ctx context.Context,
	repos AuditRepoFactory,
	recorder audit.Recorder,
	o *order.Order,
	before audit.Snapshot,
) error {
	actor := kernel.ActorFromContext(ctx)
	records := recorder.DiffUpdate(o.ID(), before, audit.SnapshotOrder(o), actor)
	if len(records) == 0 {
		return nil
	}
	if err := repos.AuditRepository().AddRecords(ctx, records); err != nil {
		return errs.NewAuditWriteFailureError(err)
	}
	return nil
}

// writeLineAudit does the same for one order line.
func writeLineAudit(
	ctx context.Context,
	repos AuditRepoFactory,
	recorder audit.Recorder,
	orderID kernel.UUID,
	line *order.Line,
	before audit.Snapshot,
) error {
	actor := kernel.ActorFromContext(ctx)
	records := recorder.DiffUpdate(orderID, before, audit.SnapshotLine(line), actor)
	if len(records) == 0 {
		return nil
	}
	if err := repos.AuditRepository().AddRecords(ctx, records); err != nil {
		return errs.NewAuditWriteFailureError(err)
	}
	return nil
}
