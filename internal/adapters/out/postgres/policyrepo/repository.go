package policyrepo

import (
	"context"
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPolicyRepository implements PolicyRepository using GORM.
type GormPolicyRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPolicyRepository creates a new GORM policy repository.
func NewGormPolicyRepository(db *gorm.DB, tracker aggregateTracker) *GormPolicyRepository {
	return &GormPolicyRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new policy version with its entries.
func (r *GormPolicyRepository) Add(ctx context.Context, version *policy.Version) error {
	if err := version.Validate(); err != nil {
		return err
	}

	dto := fromDomain(version)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(version.ID(), version)
	return nil
}

// Update saves header changes and upserts signoffs. Entries are immutable
// once the version exists; corrections go into the next version.
func (r *GormPolicyRepository) Update(ctx context.Context, version *policy.Version) error {
	if err := version.Validate(); err != nil {
		return err
	}

	dto := fromDomain(version)
	result := r.db.WithContext(ctx).Model(&VersionDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"active":       dto.Active,
			"activated_at": dto.ActivatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("policyVersion", version.ID().String())
	}

	for i := range dto.Signoffs {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dto.Signoffs[i]).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(version.ID(), version)
	return nil
}

// Get retrieves a policy version with entries and signoffs by ID.
func (r *GormPolicyRepository) Get(ctx context.Context, id kernel.UUID) (*policy.Version, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VersionDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("policyVersion", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActive retrieves the single active policy version.
func (r *GormPolicyRepository) GetActive(ctx context.Context) (*policy.Version, error) {
	var dto VersionDTO
	err := r.preloaded(ctx).First(&dto, "active").Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("policyVersion", "active")
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByVersionNo retrieves a policy version by its number.
func (r *GormPolicyRepository) GetByVersionNo(ctx context.Context, versionNo int) (*policy.Version, error) {
	if versionNo <= 0 {
		return nil, errs.NewValueIsInvalidError("versionNo")
	}

	var dto VersionDTO
	err := r.preloaded(ctx).First(&dto, "version_no = ?", versionNo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("policyVersion", versionNo)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormPolicyRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("decision_key") }).
		Preload("Signoffs", func(db *gorm.DB) *gorm.DB { return db.Order("signed_at") })
}
