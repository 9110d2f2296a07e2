// Package auditrepo persists field-level audit records and notification
// receipts. Both tables are append-only; nothing here ever updates a row.
package auditrepo

import (
	"time"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/ports"

	"github.com/google/uuid"
)

// AuditRecordDTO represents one field-level change row.
type AuditRecordDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	EntityName    string
	EntityID      uuid.UUID `gorm:"type:uuid"`
	FieldName     string
	OldValue      *string
	NewValue      *string
	ActionType    string
	ActorEmpNo    string
	ActorRole     string
	Source        string
	CorrelationID uuid.UUID `gorm:"type:uuid;index"`
	OccurredAt    time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit record rows.
func (AuditRecordDTO) TableName() string {
	return "audit_records"
}

// NotificationRecordDTO represents one persisted notification receipt.
type NotificationRecordDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;index"`
	Kind             string
	Channel          string
	RecipientSummary string
	RequestedAt      time.Time
	SentAt           *time.Time
}

// TableName specifies the database table name for notification rows.
func (NotificationRecordDTO) TableName() string {
	return "notification_records"
}

func recordFromDomain(record audit.Record) AuditRecordDTO {
	return AuditRecordDTO{
		ID:            record.ID.Bytes(),
		OrderID:       record.OrderID.Bytes(),
		EntityName:    record.EntityName,
		EntityID:      record.EntityID.Bytes(),
		FieldName:     record.FieldName,
		OldValue:      record.OldValue,
		NewValue:      record.NewValue,
		ActionType:    string(record.ActionType),
		ActorEmpNo:    record.ActorEmpNo,
		ActorRole:     string(record.ActorRole),
		Source:        record.Source,
		CorrelationID: record.CorrelationID.Bytes(),
		OccurredAt:    record.OccurredAt,
	}
}

func notificationFromDomain(record ports.NotificationRecord) NotificationRecordDTO {
	return NotificationRecordDTO{
		ID:               record.ID.Bytes(),
		OrderID:          record.OrderID.Bytes(),
		Kind:             record.Kind,
		Channel:          record.Channel,
		RecipientSummary: record.RecipientSummary,
		RequestedAt:      record.RequestedAt,
		SentAt:           record.SentAt,
	}
}
