// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrGetOrderAuditTrailQueryIsNotConstructed = errors.New(
	"GetOrderAuditTrailQuery must be created via NewGetOrderAuditTrailQuery constructor",
)

// GetOrderAuditTrailQuery retrieves the full field-level change history of
// one order, oldest record first.
//
// Example:
//
//	query, err := NewGetOrderAuditTrailQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetOrderAuditTrailQueryHandler(db)
//
//	trail, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve audit trail: %w", err)
//	}
//
//	for _, rec := range trail {
//	    fmt.Printf("%s %s: %v -> %v\n", rec.EntityName, rec.FieldName, rec.OldValue, rec.NewValue)
//	}
type GetOrderAuditTrailQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderAuditTrailQuery creates a query for one order's audit trail.
func NewGetOrderAuditTrailQuery(orderID kernel.UUID) (GetOrderAuditTrailQuery, error) {
	query := GetOrderAuditTrailQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderAuditTrailQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderAuditTrailQueryIsNotConstructed)
}

// OrderID returns the order whose trail is requested.
func (q GetOrderAuditTrailQuery) OrderID() kernel.UUID { return q.orderID }

func (q *GetOrderAuditTrailQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	q.orderID = orderID
	return nil
}

// GetOrderAuditTrailQueryResponse is one field-level audit record in the
// read model. Old and new values are nil for inserts and deletes
// respectively.
type GetOrderAuditTrailQueryResponse struct {
	ID         kernel.UUID
	EntityName string
	EntityID   kernel.UUID
	FieldName  string
	OldValue   *string
	NewValue   *string
	ActionType string
	ActorEmpNo string
	ActorRole  string
	Source     string
	OccurredAt time.Time
}
