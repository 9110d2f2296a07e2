package jobs

import (
	"context"
	"log/slog"

	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// InvoiceSubmissionJob sweeps InvoiceReady orders once a minute and pushes
// each one to ERP staging through the submit-invoice handler. A failure on
// one order is logged and the sweep continues; the order stays eligible for
// the next run.
type InvoiceSubmissionJob struct {
	uowFactory commands.OrderUoWFactory
	handler    commands.SubmitInvoiceCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewInvoiceSubmissionJob creates the ERP invoice staging sweep.
func NewInvoiceSubmissionJob(
	uowFactory commands.OrderUoWFactory,
	handler commands.SubmitInvoiceCommandHandler,
	logger *slog.Logger,
) *InvoiceSubmissionJob {
	return &InvoiceSubmissionJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "invoice_submission_job"),
	}
}

// Start begins the invoice submission job to run every minute.
func (j *InvoiceSubmissionJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Invoice submission job started (running every minute)")
	return nil
}

// Stop stops the invoice submission job.
func (j *InvoiceSubmissionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Invoice submission job stopped")
}

func (j *InvoiceSubmissionJob) run() {
	ctx := kernel.WithActor(context.Background(), kernel.SystemActor("InvoiceSubmissionJob"))

	candidates, err := j.listCandidates(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invoice submission sweep failed to list orders", "error", err)
		return
	}

	for _, orderID := range candidates {
		cmd, cmdErr := commands.NewSubmitInvoiceCommand(orderID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Invoice submission command rejected", "orderId", orderID.String(), "error", cmdErr)
			continue
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Invoice submission failed", "orderId", orderID.String(), "error", handleErr)
		}
	}
}

func (j *InvoiceSubmissionJob) listCandidates(ctx context.Context) ([]kernel.UUID, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllInvoiceReady(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, aggregate := range orders {
		ids = append(ids, aggregate.ID())
	}
	return ids, nil
}
