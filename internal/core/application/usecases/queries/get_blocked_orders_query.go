package queries

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrGetBlockedOrdersQueryIsNotConstructed = errors.New(
	"GetBlockedOrdersQuery must be created via NewGetBlockedOrdersQuery constructor",
)

// GetBlockedOrdersQuery retrieves every order that is currently not moving:
// either a hold overlay is active on the order, or at least one of its
// route steps sits in Blocked.
type GetBlockedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetBlockedOrdersQuery creates a query to list blocked orders.
// This is a parameterless query that scans the whole active order book.
func NewGetBlockedOrdersQuery() GetBlockedOrdersQuery {
	return GetBlockedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetBlockedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetBlockedOrdersQueryIsNotConstructed)
}

// GetBlockedOrdersQueryResponse is one stuck order. BlockedBy is either
// "Overlay" or "Step" depending on what stopped it; orders stuck both
// ways report "Overlay".
type GetBlockedOrdersQueryResponse struct {
	ID               kernel.UUID
	OrderNo          string
	Status           string
	HoldOverlay      string
	StatusReasonCode string
	BlockedBy        string
	StatusUpdatedAt  time.Time
}
