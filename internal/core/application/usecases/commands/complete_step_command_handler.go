package commands

import (
	"context"
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/pkg/errs"
)

// CompleteStepCommandHandler finishes a route step: the aggregate enforces
// the capture requirements and checklist policy, advances auto-queued
// successors, and completes the instance on the last step. Document
// generation signals fire after commit, never inside the transaction.
//
// A completion rejected for missing evidence parks the step in Blocked;
// that parked state is persisted even though the command fails.
type CompleteStepCommandHandler struct {
	uowFactory RouteUoWFactory
	documents  ports.DocumentGenerator
}

// NewCompleteStepCommandHandler creates a handler for step completion.
func NewCompleteStepCommandHandler(
	uowFactory RouteUoWFactory,
	documents ports.DocumentGenerator,
) CompleteStepCommandHandler {
	return CompleteStepCommandHandler{
		uowFactory: uowFactory,
		documents:  documents,
	}
}

// Handle processes the completion.
func (h *CompleteStepCommandHandler) Handle(ctx context.Context, cmd CompleteStepCommand) error {
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

	instanceRepo := uow.RouteInstanceRepository()
	instance, err := instanceRepo.Get(ctx, cmd.InstanceID())
	if err != nil {
		return err
	}

	result, err := instance.CompleteStep(cmd.Sequence(), actor.EmpNo, cmd.Notes())
	if err != nil {
		if errors.Is(err, errs.ErrBlocked) {
			if updateErr := instanceRepo.Update(ctx, instance); updateErr == nil {
				_ = uow.Commit(ctx)
			}
		}
		return err
	}

	if err = instanceRepo.Update(ctx, instance); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, kind := range result.Documents {
		_ = h.documents.Generate(ctx, ports.DocumentRequest{
			OrderID: instance.OrderID(),
			LineID:  instance.OrderLineID(),
			Kind:    kind,
		})
	}

	return nil
}
