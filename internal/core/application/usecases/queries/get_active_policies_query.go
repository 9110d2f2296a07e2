package queries

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/guard"
)

var ErrGetActivePoliciesQueryIsNotConstructed = errors.New(
	"GetActivePoliciesQuery must be created via NewGetActivePoliciesQuery constructor",
)

// GetActivePoliciesQuery retrieves every decision entry of the currently
// active policy version, for the policy administration screen.
type GetActivePoliciesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActivePoliciesQuery creates a query to list the active policy set.
func NewGetActivePoliciesQuery() GetActivePoliciesQuery {
	return GetActivePoliciesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActivePoliciesQuery) Validate() error {
	return q.guard.Validate(ErrGetActivePoliciesQueryIsNotConstructed)
}

// GetActivePoliciesQueryResponse is one decision entry of the active
// version. SiteID and CustomerID are nil outside their scope.
type GetActivePoliciesQueryResponse struct {
	VersionNo   int
	DecisionKey string
	ScopeType   string
	SiteID      *kernel.UUID
	CustomerID  *kernel.UUID
	Value       string
}
