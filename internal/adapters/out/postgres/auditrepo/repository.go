package auditrepo

import (
	"context"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// AddRecords appends one batch of field-level records. The batch shares the
// caller's transaction so an audit failure rolls the mutation back with it.
func (r *GormAuditRepository) AddRecords(ctx context.Context, records []audit.Record) error {
	if len(records) == 0 {
		return nil
	}

	dtos := make([]AuditRecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, recordFromDomain(record))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// AddNotification appends one notification receipt row.
func (r *GormAuditRepository) AddNotification(ctx context.Context, record ports.NotificationRecord) error {
	dto := notificationFromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}
