package instancerepo

import (
	"context"
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRouteInstanceRepository implements RouteInstanceRepository using GORM.
type GormRouteInstanceRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteInstanceRepository creates a new GORM route instance repository.
func NewGormRouteInstanceRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteInstanceRepository {
	return &GormRouteInstanceRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new route instance with its step snapshot.
func (r *GormRouteInstanceRepository) Add(ctx context.Context, instance *route.Instance) error {
	if err := instance.Validate(); err != nil {
		return err
	}

	dto := headerFromDomain(instance)
	dto.Version = 1
	for _, step := range instance.Steps() {
		dto.Steps = append(dto.Steps, stepFromDomain(step))
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if err := r.appendCaptures(ctx, instance); err != nil {
		return err
	}

	instance.ClearPending()
	r.tracker.TrackAggregate(instance.ID(), instance)
	return nil
}

// Update saves an existing instance under an optimistic version predicate,
// upserts the step rows, and appends any capture rows recorded since load.
func (r *GormRouteInstanceRepository) Update(ctx context.Context, instance *route.Instance) error {
	if err := instance.Validate(); err != nil {
		return err
	}

	dto := headerFromDomain(instance)
	dto.Version = instance.Version() + 1

	result := r.db.WithContext(ctx).Model(&InstanceDTO{}).
		Where("id = ? AND version = ?", dto.ID, instance.Version()).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("routeInstance", instance.ID().String())
	}

	for _, step := range instance.Steps() {
		stepDTO := stepFromDomain(step)
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&stepDTO).Error
		if err != nil {
			return err
		}
	}

	if err := r.appendCaptures(ctx, instance); err != nil {
		return err
	}

	instance.ClearPending()
	instance.BumpVersion()
	r.tracker.TrackAggregate(instance.ID(), instance)
	return nil
}

// Get retrieves a route instance with steps and capture rows by ID.
func (r *GormRouteInstanceRepository) Get(ctx context.Context, id kernel.UUID) (*route.Instance, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto InstanceDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routeInstance", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderLine retrieves the route instance of one order line.
func (r *GormRouteInstanceRepository) GetByOrderLine(ctx context.Context, orderLineID kernel.UUID) (*route.Instance, error) {
	if err := orderLineID.Validate(); err != nil {
		return nil, err
	}

	var dto InstanceDTO
	err := r.preloaded(ctx).
		Order("started_at DESC").
		First(&dto, "order_line_id = ?", orderLineID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routeInstance", orderLineID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForOrder retrieves every route instance of one order.
func (r *GormRouteInstanceRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*route.Instance, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []InstanceDTO
	err := r.preloaded(ctx).
		Order("started_at").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	instances := make([]*route.Instance, 0, len(dtos))
	for _, dto := range dtos {
		instance, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

func (r *GormRouteInstanceRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("sequence") }).
		Preload("Steps.Materials").
		Preload("Steps.Scraps").
		Preload("Steps.Serials").
		Preload("Steps.Checklists")
}

// appendCaptures inserts the capture and activity rows recorded on the
// aggregate since it was loaded. Rows are append-only.
func (r *GormRouteInstanceRepository) appendCaptures(ctx context.Context, instance *route.Instance) error {
	db := r.db.WithContext(ctx)

	for _, row := range instance.PendingMaterials() {
		dto := MaterialUsageDTO{
			ID:             row.ID.Bytes(),
			StepInstanceID: row.StepInstanceID.Bytes(),
			ItemID:         row.ItemID.Bytes(),
			Quantity:       row.Quantity,
			RecordedBy:     row.RecordedBy,
			RecordedAt:     row.RecordedAt,
		}
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}

	for _, row := range instance.PendingScraps() {
		dto := ScrapEntryDTO{
			ID:             row.ID.Bytes(),
			StepInstanceID: row.StepInstanceID.Bytes(),
			Quantity:       row.Quantity,
			ReasonCode:     row.ReasonCode,
			Note:           row.Note,
			RecordedBy:     row.RecordedBy,
			RecordedAt:     row.RecordedAt,
		}
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}

	for _, row := range instance.PendingSerials() {
		dto := SerialCaptureDTO{
			ID:             row.ID.Bytes(),
			StepInstanceID: row.StepInstanceID.Bytes(),
			SerialNo:       row.SerialNo,
			RecordedBy:     row.RecordedBy,
			RecordedAt:     row.RecordedAt,
		}
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}

	for _, row := range instance.PendingChecklists() {
		dto := ChecklistResultDTO{
			ID:             row.ID.Bytes(),
			StepInstanceID: row.StepInstanceID.Bytes(),
			ItemCode:       row.ItemCode,
			Required:       row.Required,
			Outcome:        string(row.Outcome),
			Note:           row.Note,
			RecordedBy:     row.RecordedBy,
			RecordedAt:     row.RecordedAt,
		}
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}

	for _, row := range instance.PendingActivity() {
		dto := ActivityLogEntryDTO{
			ID:             row.ID.Bytes(),
			StepInstanceID: row.StepInstanceID.Bytes(),
			Action:         string(row.Action),
			OperatorEmpNo:  row.OperatorEmpNo,
			Detail:         row.Detail,
			OccurredAt:     row.OccurredAt,
		}
		if err := db.Create(&dto).Error; err != nil {
			return err
		}
	}

	return nil
}
