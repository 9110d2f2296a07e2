package assignmentrepo

import (
	"context"
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment rule.
func (r *GormAssignmentRepository) Add(ctx context.Context, assignment *route.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}

	dto := fromDomain(assignment)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(assignment.ID(), assignment)
	return nil
}

// Update saves an existing assignment rule.
func (r *GormAssignmentRepository) Update(ctx context.Context, assignment *route.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}

	dto := fromDomain(assignment)
	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("routeAssignment", assignment.ID().String())
	}

	r.tracker.TrackAggregate(assignment.ID(), assignment)
	return nil
}

// Get retrieves an assignment rule by ID.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*route.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routeAssignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves every active assignment rule. Effective-window and
// scope filtering happen in the resolver, not here.
func (r *GormAssignmentRepository) GetAllActive(ctx context.Context) ([]*route.Assignment, error) {
	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).Order("priority, revision_no DESC").
		Find(&dtos, "active").Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*route.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		assignment, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}
