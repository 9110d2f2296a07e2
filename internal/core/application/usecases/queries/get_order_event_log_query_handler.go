package queries

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderEventLogQueryHandler reads the lifecycle and promise change logs
// straight from the database. Uses direct SQL for optimal read performance
// in the CQRS pattern.
type GetOrderEventLogQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderEventLogQueryHandler creates a handler for event log queries.
func NewGetOrderEventLogQueryHandler(db *gorm.DB) GetOrderEventLogQueryHandler {
	return GetOrderEventLogQueryHandler{db: db}
}

// Handle executes the query and returns both logs oldest first.
func (h GetOrderEventLogQueryHandler) Handle(
	ctx context.Context,
	query GetOrderEventLogQuery,
) (GetOrderEventLogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderEventLogQueryResponse{}, err
	}

	response := GetOrderEventLogQueryResponse{
		Lifecycle:      make([]LifecycleEventResponse, 0),
		PromiseChanges: make([]PromiseChangeResponse, 0),
	}

	if err := h.readLifecycle(ctx, query.OrderID(), &response); err != nil {
		return GetOrderEventLogQueryResponse{}, err
	}
	if err := h.readPromiseChanges(ctx, query.OrderID(), &response); err != nil {
		return GetOrderEventLogQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderEventLogQueryHandler) readLifecycle(
	ctx context.Context,
	orderID kernel.UUID,
	response *GetOrderEventLogQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			event_type,
			from_status,
			to_status,
			overlay,
			reason_code,
			actor_emp_no,
			actor_role,
			note,
			occurred_at
		FROM order_lifecycle_events
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var event LifecycleEventResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&event.EventType,
			&event.FromStatus,
			&event.ToStatus,
			&event.Overlay,
			&event.ReasonCode,
			&event.ActorEmpNo,
			&event.ActorRole,
			&event.Note,
			&event.OccurredAt,
		)
		if err != nil {
			return err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return idErr
		}
		event.ID = eventID

		response.Lifecycle = append(response.Lifecycle, event)
	}

	return rows.Err()
}

func (h GetOrderEventLogQueryHandler) readPromiseChanges(
	ctx context.Context,
	orderID kernel.UUID,
	response *GetOrderEventLogQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			previous_date,
			new_date,
			reason_code,
			revision_no,
			actor_emp_no,
			occurred_at
		FROM order_promise_change_events
		WHERE order_id = ?
		ORDER BY revision_no
	`, orderID.Bytes()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var change PromiseChangeResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&change.PreviousDate,
			&change.NewDate,
			&change.ReasonCode,
			&change.RevisionNo,
			&change.ActorEmpNo,
			&change.OccurredAt,
		)
		if err != nil {
			return err
		}

		changeID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return idErr
		}
		change.ID = changeID

		response.PromiseChanges = append(response.PromiseChanges, change)
	}

	return rows.Err()
}
