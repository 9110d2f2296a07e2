package stub

import (
	"context"
	"log/slog"
)

// PolicyCacheInvalidator is the no-op invalidator used when no decision
// cache is configured. Uncached readers always see the active version.
type PolicyCacheInvalidator struct {
	logger *slog.Logger
}

// NewPolicyCacheInvalidator creates a no-op policy cache invalidator.
func NewPolicyCacheInvalidator(logger *slog.Logger) *PolicyCacheInvalidator {
	return &PolicyCacheInvalidator{logger: logger.With("component", "policy_cache_invalidator_stub")}
}

// Invalidate does nothing; there is no cache to drop.
func (i *PolicyCacheInvalidator) Invalidate(ctx context.Context) error {
	i.logger.DebugContext(ctx, "policy cache invalidation skipped, no cache configured")
	return nil
}
