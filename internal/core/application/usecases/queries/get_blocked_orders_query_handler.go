package queries

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetBlockedOrdersQueryHandler finds stuck orders in one scan. Uses direct
// SQL for optimal read performance in the CQRS pattern.
type GetBlockedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetBlockedOrdersQueryHandler creates a handler for blocked order queries.
// Requires a GORM database connection for query execution.
func NewGetBlockedOrdersQueryHandler(db *gorm.DB) GetBlockedOrdersQueryHandler {
	return GetBlockedOrdersQueryHandler{db: db}
}

// Handle executes the query. An order appears once even when several of
// its steps are blocked, oldest stuck order first.
func (h GetBlockedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetBlockedOrdersQuery,
) ([]GetBlockedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetBlockedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_no,
			o.lifecycle_status,
			o.hold_overlay,
			o.status_reason_code,
			o.status_updated_at
		FROM orders o
		WHERE o.hold_overlay != ?
		   OR EXISTS (
			SELECT 1
			FROM route_instances i
			JOIN route_step_instances s ON s.instance_id = i.id
			WHERE i.order_id = o.id AND s.state = ?
		   )
		ORDER BY o.status_updated_at, o.id
	`, int(order.OverlayNone), int(route.StepBlocked)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetBlockedOrdersQueryResponse
		var id uuid.UUID
		var status, overlay int

		err = rows.Scan(
			&id,
			&resp.OrderNo,
			&status,
			&overlay,
			&resp.StatusReasonCode,
			&resp.StatusUpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		resp.Status = order.Status(status).String()
		resp.HoldOverlay = order.Overlay(overlay).String()
		if order.Overlay(overlay) != order.OverlayNone {
			resp.BlockedBy = "Overlay"
		} else {
			resp.BlockedBy = "Step"
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
