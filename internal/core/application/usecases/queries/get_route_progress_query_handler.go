package queries

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRouteProgressQueryHandler reads route instances and their steps in
// one pass. Uses direct SQL for optimal read performance in the CQRS
// pattern.
type GetRouteProgressQueryHandler struct {
	db *gorm.DB
}

// NewGetRouteProgressQueryHandler creates a handler for route progress queries.
// Requires a GORM database connection for query execution.
func NewGetRouteProgressQueryHandler(db *gorm.DB) GetRouteProgressQueryHandler {
	return GetRouteProgressQueryHandler{db: db}
}

// Handle executes the query and returns one entry per route instance of
// the order, steps sorted by sequence.
func (h GetRouteProgressQueryHandler) Handle(
	ctx context.Context,
	query GetRouteProgressQuery,
) ([]GetRouteProgressQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	instances, index, err := h.readInstances(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return instances, nil
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.instance_id,
			s.sequence,
			s.name,
			s.work_center,
			s.state,
			s.required,
			s.scan_in_at,
			s.scan_out_at,
			s.blocked_reason
		FROM route_step_instances s
		JOIN route_instances i ON i.id = s.instance_id
		WHERE i.order_id = ?
		ORDER BY s.instance_id, s.sequence
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var step StepProgressResponse
		var instanceID uuid.UUID
		var state int

		err = rows.Scan(
			&instanceID,
			&step.Sequence,
			&step.Name,
			&step.WorkCenter,
			&state,
			&step.Required,
			&step.ScanInAt,
			&step.ScanOutAt,
			&step.BlockedReason,
		)
		if err != nil {
			return nil, err
		}
		step.State = route.StepState(state).String()

		pos, ok := index[instanceID]
		if !ok {
			continue
		}
		instances[pos].Steps = append(instances[pos].Steps, step)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return instances, nil
}

func (h GetRouteProgressQueryHandler) readInstances(
	ctx context.Context,
	orderID kernel.UUID,
) ([]GetRouteProgressQueryResponse, map[uuid.UUID]int, error) {
	instances := make([]GetRouteProgressQueryResponse, 0)
	index := make(map[uuid.UUID]int)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.id,
			i.order_line_id,
			t.name,
			i.template_version,
			i.state,
			i.current_step_sequence,
			i.rework_open
		FROM route_instances i
		JOIN route_templates t ON t.id = i.template_id
		WHERE i.order_id = ?
		ORDER BY i.started_at, i.id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var instance GetRouteProgressQueryResponse
		var id, lineID uuid.UUID
		var state int

		err = rows.Scan(
			&id,
			&lineID,
			&instance.TemplateName,
			&instance.TemplateVersion,
			&state,
			&instance.CurrentStepSequence,
			&instance.ReworkOpen,
		)
		if err != nil {
			return nil, nil, err
		}

		instanceID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, nil, idErr
		}
		instance.InstanceID = instanceID

		orderLineID, idErr := kernel.UUIDFromBytes(lineID[:])
		if idErr != nil {
			return nil, nil, idErr
		}
		instance.OrderLineID = orderLineID

		instance.State = route.InstanceState(state).String()
		instance.Steps = make([]StepProgressResponse, 0)

		index[id] = len(instances)
		instances = append(instances, instance)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return instances, index, nil
}
