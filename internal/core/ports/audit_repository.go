package ports

import (
	"context"
	"time"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/domain/model/kernel"
)

// NotificationRecord documents that a customer-facing notification was
// requested and, once the collaborator confirms, sent. The core records the
// fact, not the delivery mechanics.
type NotificationRecord struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	Kind             string
	Channel          string
	RecipientSummary string
	RequestedAt      time.Time
	SentAt           *time.Time
}

// AuditRepository defines the persistence contract for the append-only
// audit and notification logs. Rows are never updated or deleted.
type AuditRepository interface {
	// AddRecords persists one audit batch inside the current transaction.
	// A failure here must roll back the enclosing mutation.
	AddRecords(ctx context.Context, records []audit.Record) error

	// AddNotification persists one notification record.
	AddNotification(ctx context.Context, record NotificationRecord) error
}
