package queries

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActivePoliciesQueryHandler reads the active policy version's entries.
// Uses direct SQL for optimal read performance in the CQRS pattern.
type GetActivePoliciesQueryHandler struct {
	db *gorm.DB
}

// NewGetActivePoliciesQueryHandler creates a handler for active policy queries.
// Requires a GORM database connection for query execution.
func NewGetActivePoliciesQueryHandler(db *gorm.DB) GetActivePoliciesQueryHandler {
	return GetActivePoliciesQueryHandler{db: db}
}

// Handle executes the query. Returns an empty slice when no version is
// active yet.
func (h GetActivePoliciesQueryHandler) Handle(
	ctx context.Context,
	query GetActivePoliciesQuery,
) ([]GetActivePoliciesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetActivePoliciesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			v.version_no,
			e.decision_key,
			e.scope_type,
			e.site_id,
			e.customer_id,
			e.value
		FROM policy_entries e
		JOIN policy_versions v ON v.id = e.version_id
		WHERE v.active
		ORDER BY e.decision_key, e.scope_type
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetActivePoliciesQueryResponse
		var siteID, customerID *uuid.UUID

		err = rows.Scan(
			&entry.VersionNo,
			&entry.DecisionKey,
			&entry.ScopeType,
			&siteID,
			&customerID,
			&entry.Value,
		)
		if err != nil {
			return nil, err
		}

		if entry.SiteID, err = optionalUUID(siteID); err != nil {
			return nil, err
		}
		if entry.CustomerID, err = optionalUUID(customerID); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
