package commands

import (
	"context"

	"cylindertrack/internal/core/domain/model/policy"
)

// CreatePolicyVersionCommandHandler drafts a new policy version. The
// version stays inactive until every required role signs off and an
// explicit activation follows.
type CreatePolicyVersionCommandHandler struct {
	uowFactory PolicyUoWFactory
}

// NewCreatePolicyVersionCommandHandler creates a handler for policy drafts.
func NewCreatePolicyVersionCommandHandler(uowFactory PolicyUoWFactory) CreatePolicyVersionCommandHandler {
	return CreatePolicyVersionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the draft.
func (h *CreatePolicyVersionCommandHandler) Handle(ctx context.Context, cmd CreatePolicyVersionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	version, err := policy.NewVersion(
		cmd.VersionID(), cmd.VersionNo(), cmd.Description(), cmd.RequiredRoles(), cmd.Entries())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PolicyRepository().Add(ctx, version); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
