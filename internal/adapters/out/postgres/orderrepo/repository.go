package orderrepo

import (
	"context"
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its lines to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if err := r.appendEvents(ctx, aggregate); err != nil {
		return err
	}

	aggregate.ClearPendingEvents()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order under an optimistic version predicate.
// A zero-row update means someone else committed first and surfaces as a
// concurrency conflict rather than a silent lost write.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	lines := dto.Lines
	rework := dto.Rework
	dto.Lines = nil
	dto.Rework = nil
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("order", aggregate.ID().String())
	}

	for i := range lines {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&lines[i]).Error
		if err != nil {
			return err
		}
	}
	for i := range rework {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&rework[i]).Error
		if err != nil {
			return err
		}
	}
	if err := r.appendEvents(ctx, aggregate); err != nil {
		return err
	}

	aggregate.ClearPendingEvents()
	aggregate.BumpVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// appendEvents inserts the lifecycle and promise change events accumulated
// on the aggregate since it was loaded. Rows are append-only.
func (r *GormOrderRepository) appendEvents(ctx context.Context, aggregate *order.Order) error {
	db := r.db.WithContext(ctx)

	for _, event := range aggregate.PendingEvents() {
		dto := lifecycleEventFromDomain(event)
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}
	for _, event := range aggregate.PendingPromiseEvents() {
		dto := promiseEventFromDomain(event)
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves an order with its lines by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Lines", lineOrdering).
		Preload("Rework", reworkOrdering).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderNo retrieves an order by its business number.
func (r *GormOrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	if orderNo == "" {
		return nil, errs.NewValueIsRequiredError("orderNo")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Lines", lineOrdering).
		Preload("Rework", reworkOrdering).
		First(&dto, "order_no = ?", orderNo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderNo)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllWithLegacyStatus retrieves every order carrying a legacy status
// string, migrated or not. The migration handler decides what to skip.
func (r *GormOrderRepository) GetAllWithLegacyStatus(ctx context.Context) ([]*order.Order, error) {
	return r.findAll(ctx, "legacy_status != ''")
}

// GetAllInvoiceReady retrieves orders in InvoiceReady that have not been
// submitted to ERP staging yet.
func (r *GormOrderRepository) GetAllInvoiceReady(ctx context.Context) ([]*order.Order, error) {
	return r.findAll(ctx, "lifecycle_status = ? AND invoice_submitted_at IS NULL", int(order.InvoiceReady))
}

// GetAllCustomerHoldDue retrieves orders on customer hold whose retry time
// has passed as of the given instant.
func (r *GormOrderRepository) GetAllCustomerHoldDue(ctx context.Context, asOf time.Time) ([]*order.Order, error) {
	return r.findAll(ctx, "hold_overlay = ? AND customer_ready_retry_utc <= ?", int(order.OnHoldCustomer), asOf)
}

func (r *GormOrderRepository) findAll(ctx context.Context, cond string, args ...any) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Lines", lineOrdering).
		Preload("Rework", reworkOrdering).
		Order("order_no").Find(&dtos, append([]any{cond}, args...)...).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

func lineOrdering(db *gorm.DB) *gorm.DB {
	return db.Order("line_no")
}

func reworkOrdering(db *gorm.DB) *gorm.DB {
	return db.Order("opened_at, id")
}
