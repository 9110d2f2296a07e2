package queries

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderAuditTrailQueryHandler reads audit records straight from the
// database. Uses direct SQL for optimal read performance in the CQRS
// pattern.
type GetOrderAuditTrailQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderAuditTrailQueryHandler creates a handler for audit trail queries.
// Requires a GORM database connection for query execution.
func NewGetOrderAuditTrailQueryHandler(db *gorm.DB) GetOrderAuditTrailQueryHandler {
	return GetOrderAuditTrailQueryHandler{db: db}
}

// Handle executes the query and returns the order's records oldest first.
func (h GetOrderAuditTrailQueryHandler) Handle(
	ctx context.Context,
	query GetOrderAuditTrailQuery,
) ([]GetOrderAuditTrailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetOrderAuditTrailQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			entity_name,
			entity_id,
			field_name,
			old_value,
			new_value,
			action_type,
			actor_emp_no,
			actor_role,
			source,
			occurred_at
		FROM audit_records
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var record GetOrderAuditTrailQueryResponse
		var id, entityID uuid.UUID

		err = rows.Scan(
			&id,
			&record.EntityName,
			&entityID,
			&record.FieldName,
			&record.OldValue,
			&record.NewValue,
			&record.ActionType,
			&record.ActorEmpNo,
			&record.ActorRole,
			&record.Source,
			&record.OccurredAt,
		)
		if err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		record.ID = recordID

		recordEntityID, idErr := kernel.UUIDFromBytes(entityID[:])
		if idErr != nil {
			return nil, idErr
		}
		record.EntityID = recordEntityID

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
