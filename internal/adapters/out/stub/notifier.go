package stub

import (
	"context"
	"log/slog"
	"time"

	"cylindertrack/internal/core/ports"
)

// Notifier logs notification requests and fabricates a delivery receipt.
type Notifier struct {
	logger *slog.Logger
}

// NewNotifier creates a logging notifier stub.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger.With("component", "notifier_stub")}
}

// Notify records the request and answers a log-channel receipt.
func (n *Notifier) Notify(ctx context.Context, request ports.NotificationRequest) (ports.NotificationReceipt, error) {
	n.logger.InfoContext(ctx, "notification requested",
		"kind", request.Kind,
		"orderId", request.OrderID.String(),
		"summary", request.Summary,
	)

	return ports.NotificationReceipt{
		Channel:          "log",
		RecipientSummary: request.Summary,
		SentAt:           time.Now().UTC(),
	}, nil
}
