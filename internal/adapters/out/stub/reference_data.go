package stub

import (
	"context"
	"log/slog"

	"cylindertrack/internal/core/domain/model/kernel"
)

// ReferenceData answers every existence check positively. Order entry
// validation degrades to format checks when the master-data system is not
// wired in.
type ReferenceData struct {
	logger *slog.Logger
}

// NewReferenceData creates a permissive reference data stub.
func NewReferenceData(logger *slog.Logger) *ReferenceData {
	return &ReferenceData{logger: logger.With("component", "reference_data_stub")}
}

// CustomerExists reports true for any well-formed id.
func (r *ReferenceData) CustomerExists(ctx context.Context, id kernel.UUID) (bool, error) {
	return r.exists(ctx, "customer", id)
}

// SiteExists reports true for any well-formed id.
func (r *ReferenceData) SiteExists(ctx context.Context, id kernel.UUID) (bool, error) {
	return r.exists(ctx, "site", id)
}

// ItemExists reports true for any well-formed id.
func (r *ReferenceData) ItemExists(ctx context.Context, id kernel.UUID) (bool, error) {
	return r.exists(ctx, "item", id)
}

// ShipViaExists reports true for any well-formed id.
func (r *ReferenceData) ShipViaExists(ctx context.Context, id kernel.UUID) (bool, error) {
	return r.exists(ctx, "shipVia", id)
}

func (r *ReferenceData) exists(ctx context.Context, entity string, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, nil
	}
	r.logger.DebugContext(ctx, "reference existence check", "entity", entity, "id", id.String())
	return true, nil
}
