package queries

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrGetRouteProgressQueryIsNotConstructed = errors.New(
	"GetRouteProgressQuery must be created via NewGetRouteProgressQuery constructor",
)

// GetRouteProgressQuery retrieves every route instance of one order with
// its per-step progress, for the shop-floor progress board.
type GetRouteProgressQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRouteProgressQuery creates a query for one order's route progress.
func NewGetRouteProgressQuery(orderID kernel.UUID) (GetRouteProgressQuery, error) {
	query := GetRouteProgressQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetRouteProgressQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRouteProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteProgressQueryIsNotConstructed)
}

// OrderID returns the order whose routes are requested.
func (q GetRouteProgressQuery) OrderID() kernel.UUID { return q.orderID }

func (q *GetRouteProgressQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	q.orderID = orderID
	return nil
}

// StepProgressResponse is one step's position in the route, in execution
// order.
type StepProgressResponse struct {
	Sequence      int
	Name          string
	WorkCenter    string
	State         string
	Required      bool
	ScanInAt      *time.Time
	ScanOutAt     *time.Time
	BlockedReason string
}

// GetRouteProgressQueryResponse is one route instance with its steps.
type GetRouteProgressQueryResponse struct {
	InstanceID          kernel.UUID
	OrderLineID         kernel.UUID
	TemplateName        string
	TemplateVersion     int
	State               string
	CurrentStepSequence int
	ReworkOpen          bool
	Steps               []StepProgressResponse
}
