package ports

import (
	"context"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
)

// PolicyRepository defines the persistence contract for business decision
// policy versions, their entries, and their signoffs.
type PolicyRepository interface {
	// Add persists a new draft policy version.
	Add(ctx context.Context, version *policy.Version) error

	// Update persists signoff and activation changes.
	Update(ctx context.Context, version *policy.Version) error

	// Get retrieves a policy version by identifier.
	Get(ctx context.Context, id kernel.UUID) (*policy.Version, error)

	// GetActive retrieves the currently active policy version.
	GetActive(ctx context.Context) (*policy.Version, error)

	// GetByVersionNo retrieves a policy version by number.
	GetByVersionNo(ctx context.Context, versionNo int) (*policy.Version, error)
}

// PolicyReader resolves decision values from the active policy version.
// Implementations may cache; readers tolerate values a short activation
// delay behind the store.
type PolicyReader interface {
	// ActiveValue resolves a decision key against the active version with
	// most-specific-scope-wins semantics. The second return is false when
	// no entry covers the key.
	ActiveValue(ctx context.Context, decisionKey string, siteID, customerID *kernel.UUID) (string, bool, error)
}

// PolicyCacheInvalidator drops cached decision values after a new policy
// version goes live. Implementations without a cache are no-ops.
type PolicyCacheInvalidator interface {
	// Invalidate removes every cached decision value so the next read
	// resolves against the newly active version.
	Invalidate(ctx context.Context) error
}
