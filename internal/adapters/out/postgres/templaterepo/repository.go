package templaterepo

import (
	"context"
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRouteTemplateRepository implements RouteTemplateRepository using GORM.
type GormRouteTemplateRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteTemplateRepository creates a new GORM route template repository.
func NewGormRouteTemplateRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteTemplateRepository {
	return &GormRouteTemplateRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new template version with its steps.
func (r *GormRouteTemplateRepository) Add(ctx context.Context, template *route.Template) error {
	if err := template.Validate(); err != nil {
		return err
	}

	dto := fromDomain(template)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(template.ID(), template)
	return nil
}

// Update saves template header changes. Step definitions are frozen once
// written; only the header flags move.
func (r *GormRouteTemplateRepository) Update(ctx context.Context, template *route.Template) error {
	if err := template.Validate(); err != nil {
		return err
	}

	dto := fromDomain(template)
	result := r.db.WithContext(ctx).Model(&TemplateDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"active":       dto.Active,
			"instantiated": dto.Instantiated,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("routeTemplate", template.ID().String())
	}

	r.tracker.TrackAggregate(template.ID(), template)
	return nil
}

// Get retrieves a template version with its steps by ID.
func (r *GormRouteTemplateRepository) Get(ctx context.Context, id kernel.UUID) (*route.Template, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TemplateDTO
	err := r.db.WithContext(ctx).Preload("Steps", stepOrdering).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routeTemplate", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByName retrieves the active version of a named template.
func (r *GormRouteTemplateRepository) GetActiveByName(ctx context.Context, name string) (*route.Template, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	var dto TemplateDTO
	err := r.db.WithContext(ctx).Preload("Steps", stepOrdering).
		First(&dto, "name = ? AND active", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routeTemplate", name)
		}
		return nil, err
	}

	return toDomain(dto)
}

func stepOrdering(db *gorm.DB) *gorm.DB {
	return db.Order("sequence")
}
