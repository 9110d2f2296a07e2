package postgres

import (
	"context"
	"errors"

	"cylindertrack/internal/adapters/out/postgres/policyrepo"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPolicyReader resolves decision values against the active policy
// version, outside any unit of work. Authorization checks read through this
// interface so they never join the mutating transaction.
type GormPolicyReader struct {
	db *gorm.DB
}

// NewGormPolicyReader creates a policy reader over the given connection.
func NewGormPolicyReader(db *gorm.DB) *GormPolicyReader {
	return &GormPolicyReader{db: db}
}

// ActiveValue returns the most specific value the active version holds for
// the decision key, or found=false when no version is active or no entry
// covers the key. Missing is not an error; callers decide whether a missing
// decision denies or defaults.
func (r *GormPolicyReader) ActiveValue(
	ctx context.Context,
	decisionKey string,
	siteID, customerID *kernel.UUID,
) (string, bool, error) {
	repo := policyrepo.NewGormPolicyRepository(r.db, noopTracker{})

	version, err := repo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	value, found := version.Value(decisionKey, siteID, customerID)
	return value, found, nil
}

// noopTracker satisfies the repository's tracker dependency for reads.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}
