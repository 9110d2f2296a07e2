package commands

import (
	"context"
	"errors"

	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/pkg/errs"
)

// ActivatePolicyVersionCommandHandler flips a signed-off version live and
// deactivates its predecessor in the same transaction, so readers always
// see exactly one active version. Cached decision values are dropped after
// the commit so readers do not serve the predecessor until a TTL expires.
type ActivatePolicyVersionCommandHandler struct {
	uowFactory PolicyUoWFactory
	cache      ports.PolicyCacheInvalidator
}

// NewActivatePolicyVersionCommandHandler creates a handler for activation.
func NewActivatePolicyVersionCommandHandler(
	uowFactory PolicyUoWFactory,
	cache ports.PolicyCacheInvalidator,
) ActivatePolicyVersionCommandHandler {
	return ActivatePolicyVersionCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

// Handle processes the activation.
func (h *ActivatePolicyVersionCommandHandler) Handle(ctx context.Context, cmd ActivatePolicyVersionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	policyRepo := uow.PolicyRepository()
	version, err := policyRepo.Get(ctx, cmd.VersionID())
	if err != nil {
		return err
	}

	current, err := policyRepo.GetActive(ctx)
	switch {
	case err == nil:
		if current.ID().IsEqual(version.ID()) {
			return errs.NewValueIsInvalidError("version is already active")
		}
		if err = current.Deactivate(); err != nil {
			return err
		}
		if err = policyRepo.Update(ctx, current); err != nil {
			return err
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		// first activation ever
	default:
		return err
	}

	if err = version.Activate(); err != nil {
		return err
	}
	if err = policyRepo.Update(ctx, version); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// The activation is committed; an invalidation failure only leaves
	// stale cached values until their TTL expires.
	_ = h.cache.Invalidate(ctx)
	return nil
}
