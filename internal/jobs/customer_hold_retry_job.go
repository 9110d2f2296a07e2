package jobs

import (
	"context"
	"log/slog"
	"time"

	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// CustomerHoldRetryJob sweeps orders on customer hold whose retry time has
// passed and asks the notification collaborator to chase the customer. The
// hold itself stays in place; releasing it remains a human decision through
// the clear-overlay command.
type CustomerHoldRetryJob struct {
	uowFactory commands.OrderUoWFactory
	notifier   ports.Notifier
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewCustomerHoldRetryJob creates the customer hold retry sweep.
func NewCustomerHoldRetryJob(
	uowFactory commands.OrderUoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) *CustomerHoldRetryJob {
	return &CustomerHoldRetryJob{
		uowFactory: uowFactory,
		notifier:   notifier,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "customer_hold_retry_job"),
	}
}

// Start begins the customer hold retry job to run every five minutes.
func (j *CustomerHoldRetryJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Customer hold retry job started (running every five minutes)")
	return nil
}

// Stop stops the customer hold retry job.
func (j *CustomerHoldRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Customer hold retry job stopped")
}

func (j *CustomerHoldRetryJob) run() {
	ctx := kernel.WithActor(context.Background(), kernel.SystemActor("CustomerHoldRetryJob"))
	now := time.Now().UTC()

	due, err := j.listDue(ctx, now)
	if err != nil {
		j.logger.ErrorContext(ctx, "Customer hold sweep failed to list orders", "error", err)
		return
	}

	for _, candidate := range due {
		if notifyErr := j.notify(ctx, candidate); notifyErr != nil {
			j.logger.ErrorContext(ctx, "Customer hold retry notification failed",
				"orderId", candidate.orderID.String(), "error", notifyErr)
		}
	}
}

type holdCandidate struct {
	orderID     kernel.UUID
	orderNo     string
	contactName string
}

func (j *CustomerHoldRetryJob) listDue(ctx context.Context, asOf time.Time) ([]holdCandidate, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllCustomerHoldDue(ctx, asOf)
	if err != nil {
		return nil, err
	}

	candidates := make([]holdCandidate, 0, len(orders))
	for _, aggregate := range orders {
		candidate := holdCandidate{
			orderID: aggregate.ID(),
			orderNo: aggregate.OrderNo(),
		}
		if hold := aggregate.CustomerHold(); hold != nil {
			candidate.contactName = hold.ContactName
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// notify fires the collaborator and persists the receipt in its own short
// transaction.
func (j *CustomerHoldRetryJob) notify(ctx context.Context, candidate holdCandidate) error {
	receipt, err := j.notifier.Notify(ctx, ports.NotificationRequest{
		OrderID: candidate.orderID,
		Kind:    "CustomerHoldRetry",
		Summary: "retry customer " + candidate.contactName + " for order " + candidate.orderNo,
	})
	if err != nil {
		return err
	}

	uow := j.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sentAt := receipt.SentAt
	err = uow.AuditRepository().AddNotification(ctx, ports.NotificationRecord{
		ID:               kernel.NewUUID(),
		OrderID:          candidate.orderID,
		Kind:             "CustomerHoldRetry",
		Channel:          receipt.Channel,
		RecipientSummary: receipt.RecipientSummary,
		RequestedAt:      time.Now().UTC(),
		SentAt:           &sentAt,
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
