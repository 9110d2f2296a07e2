package ports

import (
	"context"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
)

// DocumentRequest is the fire-and-forget signal sent to the document
// generation collaborator when a step with a generate*OnComplete flag
// finishes. Signaled after commit, never inside the transaction.
type DocumentRequest struct {
	OrderID kernel.UUID
	LineID  kernel.UUID
	Kind    route.DocumentKind
}

// DocumentGenerator is the external document generation service.
type DocumentGenerator interface {
	Generate(ctx context.Context, request DocumentRequest) error
}

// NotificationRequest asks the notification collaborator to reach the
// customer about a promise-date or overlay change.
type NotificationRequest struct {
	OrderID kernel.UUID
	Kind    string
	Summary string
}

// NotificationReceipt is what the collaborator reports back; the core
// persists it as a NotificationRecord.
type NotificationReceipt struct {
	Channel          string
	RecipientSummary string
	SentAt           time.Time
}

// Notifier is the external notification/email service.
type Notifier interface {
	Notify(ctx context.Context, request NotificationRequest) (NotificationReceipt, error)
}

// InvoiceSubmission is the request handed to the ERP staging adapter once
// an order reaches InvoiceReady.
type InvoiceSubmission struct {
	OrderID       kernel.UUID
	OrderNo       string
	CorrelationID kernel.UUID
}

// InvoiceStagingResult is the ERP adapter's answer, recorded on the order.
type InvoiceStagingResult struct {
	StagingResult       string
	ErpInvoiceReference string
}

// ErpStaging is the external ERP staging adapter.
type ErpStaging interface {
	SubmitInvoice(ctx context.Context, submission InvoiceSubmission) (InvoiceStagingResult, error)
}

// ReferenceData provides read-only existence checks for the reference
// entities route assignments and order lines point at.
type ReferenceData interface {
	CustomerExists(ctx context.Context, id kernel.UUID) (bool, error)
	SiteExists(ctx context.Context, id kernel.UUID) (bool, error)
	ItemExists(ctx context.Context, id kernel.UUID) (bool, error)
	ShipViaExists(ctx context.Context, id kernel.UUID) (bool, error)
}
