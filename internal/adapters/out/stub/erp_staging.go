package stub

import (
	"context"
	"log/slog"

	"cylindertrack/internal/core/ports"
)

// ErpStaging logs invoice submissions and answers a staged result whose
// reference echoes the correlation id, so the round trip stays traceable.
type ErpStaging struct {
	logger *slog.Logger
}

// NewErpStaging creates a logging ERP staging stub.
func NewErpStaging(logger *slog.Logger) *ErpStaging {
	return &ErpStaging{logger: logger.With("component", "erp_staging_stub")}
}

// SubmitInvoice records the submission and reports it as staged.
func (e *ErpStaging) SubmitInvoice(ctx context.Context, submission ports.InvoiceSubmission) (ports.InvoiceStagingResult, error) {
	e.logger.InfoContext(ctx, "invoice submission staged",
		"orderId", submission.OrderID.String(),
		"orderNo", submission.OrderNo,
		"correlationId", submission.CorrelationID.String(),
	)

	return ports.InvoiceStagingResult{
		StagingResult:       "Staged",
		ErpInvoiceReference: "INV-" + submission.CorrelationID.String(),
	}, nil
}
