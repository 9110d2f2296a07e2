package commands

import (
	"context"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
)

// RecordPolicySignoffCommandHandler records one role's approval on a draft
// policy version.
type RecordPolicySignoffCommandHandler struct {
	uowFactory PolicyUoWFactory
}

// NewRecordPolicySignoffCommandHandler creates a handler for signoffs.
func NewRecordPolicySignoffCommandHandler(uowFactory PolicyUoWFactory) RecordPolicySignoffCommandHandler {
	return RecordPolicySignoffCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the signoff.
func (h *RecordPolicySignoffCommandHandler) Handle(ctx context.Context, cmd RecordPolicySignoffCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := kernel.ActorFromContext(ctx)

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

	if err = version.RecordSignoff(policy.Signoff{
		ID:       kernel.NewUUID(),
		Role:     actor.Role,
		SignedBy: actor.EmpNo,
		SignedAt: time.Now().UTC(),
		Note:     cmd.Note(),
	}); err != nil {
		return err
	}

	if err = policyRepo.Update(ctx, version); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
