// Package policyrepo provides data transfer objects and mapping functions
// for policy version persistence. A version spans three tables: the header,
// its decision entries, and the signoffs collected against it. Required
// roles ride in a native postgres text array.
package policyrepo

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// VersionDTO represents one policy version header row.
type VersionDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	VersionNo     int       `gorm:"uniqueIndex"`
	Description   string
	RequiredRoles pq.StringArray `gorm:"type:text[]"`
	Active        bool           `gorm:"index"`
	CreatedAt     time.Time
	ActivatedAt   *time.Time

	Entries  []EntryDTO   `gorm:"foreignKey:VersionID"`
	Signoffs []SignoffDTO `gorm:"foreignKey:VersionID"`
}

// TableName specifies the database table name for policy version entities.
func (VersionDTO) TableName() string {
	return "policy_versions"
}

// EntryDTO represents one decision entry row.
type EntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	VersionID   uuid.UUID `gorm:"type:uuid;index"`
	DecisionKey string    `gorm:"index"`
	ScopeType   string
	SiteID      *uuid.UUID `gorm:"type:uuid"`
	CustomerID  *uuid.UUID `gorm:"type:uuid"`
	Value       string
}

// TableName specifies the database table name for policy entry rows.
func (EntryDTO) TableName() string {
	return "policy_entries"
}

// SignoffDTO represents one recorded signoff row.
type SignoffDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VersionID uuid.UUID `gorm:"type:uuid;index"`
	Role      string
	SignedBy  string
	SignedAt  time.Time
	Note      string
}

// TableName specifies the database table name for policy signoff rows.
func (SignoffDTO) TableName() string {
	return "policy_signoffs"
}

func fromDomain(version *policy.Version) VersionDTO {
	roles := make(pq.StringArray, 0, len(version.RequiredRoles()))
	for _, role := range version.RequiredRoles() {
		roles = append(roles, string(role))
	}

	dto := VersionDTO{
		ID:            version.ID().Bytes(),
		VersionNo:     version.VersionNo(),
		Description:   version.Description(),
		RequiredRoles: roles,
		Active:        version.IsActive(),
		CreatedAt:     version.CreatedAt(),
		ActivatedAt:   version.ActivatedAt(),
	}

	for _, entry := range version.Entries() {
		dto.Entries = append(dto.Entries, EntryDTO{
			ID:          entry.ID.Bytes(),
			VersionID:   dto.ID,
			DecisionKey: entry.DecisionKey,
			ScopeType:   string(entry.ScopeType),
			SiteID:      optionalUUIDBytes(entry.SiteID),
			CustomerID:  optionalUUIDBytes(entry.CustomerID),
			Value:       entry.Value,
		})
	}

	for _, signoff := range version.Signoffs() {
		dto.Signoffs = append(dto.Signoffs, SignoffDTO{
			ID:        signoff.ID.Bytes(),
			VersionID: dto.ID,
			Role:      string(signoff.Role),
			SignedBy:  signoff.SignedBy,
			SignedAt:  signoff.SignedAt,
			Note:      signoff.Note,
		})
	}

	return dto
}

func toDomain(dto VersionDTO) (*policy.Version, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	roles := make([]kernel.Role, 0, len(dto.RequiredRoles))
	for _, role := range dto.RequiredRoles {
		roles = append(roles, kernel.Role(role))
	}

	entries := make([]policy.Entry, 0, len(dto.Entries))
	for _, entryDTO := range dto.Entries {
		entry, entryErr := entryToDomain(entryDTO)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	signoffs := make([]policy.Signoff, 0, len(dto.Signoffs))
	for _, signoffDTO := range dto.Signoffs {
		signoffID, signErr := kernel.UUIDFromBytes(signoffDTO.ID[:])
		if signErr != nil {
			return nil, signErr
		}
		signoffs = append(signoffs, policy.Signoff{
			ID:       signoffID,
			Role:     kernel.Role(signoffDTO.Role),
			SignedBy: signoffDTO.SignedBy,
			SignedAt: signoffDTO.SignedAt,
			Note:     signoffDTO.Note,
		})
	}

	return policy.RestoreVersion(
		id,
		dto.VersionNo,
		dto.Description,
		roles,
		entries,
		signoffs,
		dto.Active,
		dto.CreatedAt,
		dto.ActivatedAt,
	)
}

func entryToDomain(dto EntryDTO) (policy.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return policy.Entry{}, err
	}
	siteID, err := optionalUUID(dto.SiteID)
	if err != nil {
		return policy.Entry{}, err
	}
	customerID, err := optionalUUID(dto.CustomerID)
	if err != nil {
		return policy.Entry{}, err
	}

	return policy.Entry{
		ID:          id,
		DecisionKey: dto.DecisionKey,
		ScopeType:   policy.ScopeType(dto.ScopeType),
		SiteID:      siteID,
		CustomerID:  customerID,
		Value:       dto.Value,
	}, nil
}

func optionalUUIDBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
