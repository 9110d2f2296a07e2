package queries

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrGetOrderEventLogQueryIsNotConstructed = errors.New(
	"GetOrderEventLogQuery must be created via NewGetOrderEventLogQuery constructor",
)

// GetOrderEventLogQuery retrieves the append-only lifecycle event log of one
// order together with its promise change history, oldest entries first.
type GetOrderEventLogQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderEventLogQuery creates a query for one order's event log.
func NewGetOrderEventLogQuery(orderID kernel.UUID) (GetOrderEventLogQuery, error) {
	query := GetOrderEventLogQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderEventLogQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderEventLogQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderEventLogQueryIsNotConstructed)
}

// OrderID returns the order whose event log is requested.
func (q GetOrderEventLogQuery) OrderID() kernel.UUID { return q.orderID }

func (q *GetOrderEventLogQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	q.orderID = orderID
	return nil
}

// LifecycleEventResponse is one lifecycle log entry in the read model.
type LifecycleEventResponse struct {
	ID         kernel.UUID
	EventType  string
	FromStatus string
	ToStatus   string
	Overlay    string
	ReasonCode string
	ActorEmpNo string
	ActorRole  string
	Note       string
	OccurredAt time.Time
}

// PromiseChangeResponse is one promise revision in the read model.
type PromiseChangeResponse struct {
	ID           kernel.UUID
	PreviousDate *time.Time
	NewDate      time.Time
	ReasonCode   string
	RevisionNo   int
	ActorEmpNo   string
	OccurredAt   time.Time
}

// GetOrderEventLogQueryResponse bundles both append-only logs of an order.
type GetOrderEventLogQueryResponse struct {
	Lifecycle      []LifecycleEventResponse
	PromiseChanges []PromiseChangeResponse
}
