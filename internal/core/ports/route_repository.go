package ports

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
)

// RouteTemplateRepository defines the persistence contract for route
// templates and their step definitions.
type RouteTemplateRepository interface {
	// Add persists a new template version with its steps.
	Add(ctx context.Context, template *route.Template) error

	// Update persists template flag changes (active, instantiated).
	// Step definitions are immutable once stored.
	Update(ctx context.Context, template *route.Template) error

	// Get retrieves a template version with its steps by identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.Template, error)

	// GetActiveByName retrieves the active version of a named template.
	GetActiveByName(ctx context.Context, name string) (*route.Template, error)
}

// AssignmentRepository defines the persistence contract for route
// assignment scoping rules.
type AssignmentRepository interface {
	// Add persists a new assignment rule.
	Add(ctx context.Context, assignment *route.Assignment) error

	// Update persists assignment flag changes.
	Update(ctx context.Context, assignment *route.Assignment) error

	// Get retrieves an assignment by identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.Assignment, error)

	// GetAllActive retrieves every active assignment. The resolver filters
	// and ranks the small candidate set in memory.
	GetAllActive(ctx context.Context) ([]*route.Assignment, error)
}

// RouteInstanceRepository defines the persistence contract for route
// instances, their step instances, and the append-only capture and
// activity rows recorded against them.
type RouteInstanceRepository interface {
	// Add persists a new instance with its snapshotted steps.
	Add(ctx context.Context, instance *route.Instance) error

	// Update persists instance and step state changes and drains the
	// pending capture and activity rows, all under the instance's
	// optimistic version.
	Update(ctx context.Context, instance *route.Instance) error

	// Get retrieves an instance with its steps and evidence rows.
	Get(ctx context.Context, id kernel.UUID) (*route.Instance, error)

	// GetByOrderLine retrieves the instance routed for an order line.
	GetByOrderLine(ctx context.Context, orderLineID kernel.UUID) (*route.Instance, error)

	// GetAllForOrder retrieves every instance belonging to an order.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*route.Instance, error)
}
