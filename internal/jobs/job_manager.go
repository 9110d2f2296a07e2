package jobs

import (
	"fmt"
	"log/slog"

	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	invoiceSubmissionJob *InvoiceSubmissionJob
	customerHoldRetryJob *CustomerHoldRetryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the submit-invoice handler and the notifier as dependencies to wire
// up the job execution.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	submitInvoiceHandler commands.SubmitInvoiceCommandHandler,
	notifier ports.Notifier,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		invoiceSubmissionJob: NewInvoiceSubmissionJob(uowFactory, submitInvoiceHandler, logger),
		customerHoldRetryJob: NewCustomerHoldRetryJob(uowFactory, notifier, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.invoiceSubmissionJob.Start(); err != nil {
		return fmt.Errorf("failed to start invoice submission job: %w", err)
	}

	if err := jm.customerHoldRetryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.invoiceSubmissionJob.Stop()
		return fmt.Errorf("failed to start customer hold retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.invoiceSubmissionJob.Stop()
	jm.customerHoldRetryJob.Stop()
}
