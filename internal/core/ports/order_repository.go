// Package ports defines repository and collaborator interfaces for the
// tracking core. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Update carries the optimistic-version predicate: a concurrent writer makes
// it fail with ConcurrencyConflictError instead of silently merging.
type OrderRepository interface {
	// Add persists a new order aggregate with its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, draining its
	// pending lifecycle and promise-change events in the same transaction.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate with its lines by identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByOrderNo retrieves an order by its business number.
	GetByOrderNo(ctx context.Context, orderNo string) (*order.Order, error)

	// GetAllWithLegacyStatus retrieves orders still carrying a legacy
	// status without a migration stamp. Used by the backfill routine.
	GetAllWithLegacyStatus(ctx context.Context) ([]*order.Order, error)

	// GetAllInvoiceReady retrieves orders in InvoiceReady that have not
	// been submitted to ERP staging yet.
	GetAllInvoiceReady(ctx context.Context) ([]*order.Order, error)

	// GetAllCustomerHoldDue retrieves orders on customer hold whose retry
	// time has passed as of the given instant.
	GetAllCustomerHoldDue(ctx context.Context, asOf time.Time) ([]*order.Order, error)
}
