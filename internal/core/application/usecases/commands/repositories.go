// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, audit recording, and persistence.
package commands

import (
	"context"

	"cylindertrack/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Handlers depend on the narrowest interface that covers the
// repositories they touch; the postgres unit of work satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a
	// transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RouteInstanceRepoFactory provides access to the route instance
	// repository within a transaction.
	RouteInstanceRepoFactory interface {
		RouteInstanceRepository() ports.RouteInstanceRepository
	}

	// TemplateRepoFactory provides access to the route template repository
	// within a transaction.
	TemplateRepoFactory interface {
		RouteTemplateRepository() ports.RouteTemplateRepository
	}

	// AssignmentRepoFactory provides access to the assignment repository
	// within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// PolicyRepoFactory provides access to the policy repository within a
	// transaction.
	PolicyRepoFactory interface {
		PolicyRepository() ports.PolicyRepository
	}

	// AuditRepoFactory provides access to the audit repository within a
	// transaction. Every mutation of order or line state writes its audit
	// batch through this factory before commit.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// OrderUoW manages transactions for order-plus-audit operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AuditRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RouteUoW manages transactions spanning an order and its route
	// instances. Used by the step-execution commands, which mutate both.
	RouteUoW interface {
		TxManager
		OrderRepoFactory
		RouteInstanceRepoFactory
		AuditRepoFactory
	}

	// RouteUoWFactory creates new route unit of work instances.
	RouteUoWFactory interface {
		Create() RouteUoW
	}

	// RoutingUoW additionally reaches templates and assignments; used by
	// route instantiation and template administration.
	RoutingUoW interface {
		TxManager
		OrderRepoFactory
		TemplateRepoFactory
		AssignmentRepoFactory
		RouteInstanceRepoFactory
		AuditRepoFactory
	}

	// RoutingUoWFactory creates new routing unit of work instances.
	RoutingUoWFactory interface {
		Create() RoutingUoW
	}

	// PolicyUoW manages transactions for policy administration.
	PolicyUoW interface {
		TxManager
		PolicyRepoFactory
	}

	// PolicyUoWFactory creates new policy unit of work instances.
	PolicyUoWFactory interface {
		Create() PolicyUoW
	}
)
