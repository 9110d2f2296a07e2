// Package assignmentrepo provides data transfer objects and mapping
// functions for route assignment persistence. Scope wildcards are stored as
// NULL columns; the ship-via list rides in a native postgres text array.
package assignmentrepo

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AssignmentDTO represents one route assignment rule row.
type AssignmentDTO struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TemplateID             uuid.UUID  `gorm:"type:uuid;index"`
	CustomerID             *uuid.UUID `gorm:"type:uuid"`
	SiteID                 *uuid.UUID `gorm:"type:uuid"`
	ItemID                 *uuid.UUID `gorm:"type:uuid"`
	ItemType               *string
	PriorityMin            *int
	PriorityMax            *int
	ShipViaIDs             pq.StringArray `gorm:"type:text[]"`
	Priority               int
	RevisionNo             int
	Active                 bool `gorm:"index"`
	EffectiveFrom          time.Time
	EffectiveTo            *time.Time
	SupervisorGateOverride bool
}

// TableName specifies the database table name for route assignment entities.
func (AssignmentDTO) TableName() string {
	return "route_assignments"
}

func fromDomain(assignment *route.Assignment) AssignmentDTO {
	scope := assignment.Scope()

	shipVias := make(pq.StringArray, 0, len(scope.ShipViaIDs))
	for _, id := range scope.ShipViaIDs {
		shipVias = append(shipVias, id.String())
	}

	return AssignmentDTO{
		ID:                     assignment.ID().Bytes(),
		TemplateID:             assignment.TemplateID().Bytes(),
		CustomerID:             optionalUUIDBytes(scope.CustomerID),
		SiteID:                 optionalUUIDBytes(scope.SiteID),
		ItemID:                 optionalUUIDBytes(scope.ItemID),
		ItemType:               scope.ItemType,
		PriorityMin:            scope.PriorityMin,
		PriorityMax:            scope.PriorityMax,
		ShipViaIDs:             shipVias,
		Priority:               assignment.Priority(),
		RevisionNo:             assignment.RevisionNo(),
		Active:                 assignment.Active(),
		EffectiveFrom:          assignment.EffectiveFrom(),
		EffectiveTo:            assignment.EffectiveTo(),
		SupervisorGateOverride: assignment.SupervisorGateOverride(),
	}
}

func toDomain(dto AssignmentDTO) (*route.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	templateID, err := kernel.UUIDFromBytes(dto.TemplateID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := optionalUUID(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	siteID, err := optionalUUID(dto.SiteID)
	if err != nil {
		return nil, err
	}
	itemID, err := optionalUUID(dto.ItemID)
	if err != nil {
		return nil, err
	}

	shipVias := make([]kernel.UUID, 0, len(dto.ShipViaIDs))
	for _, raw := range dto.ShipViaIDs {
		shipVia, viaErr := kernel.UUIDFromString(raw)
		if viaErr != nil {
			return nil, viaErr
		}
		shipVias = append(shipVias, shipVia)
	}

	scope := route.Scope{
		CustomerID:  customerID,
		SiteID:      siteID,
		ItemID:      itemID,
		ItemType:    dto.ItemType,
		PriorityMin: dto.PriorityMin,
		PriorityMax: dto.PriorityMax,
		ShipViaIDs:  shipVias,
	}

	return route.RestoreAssignment(
		id,
		templateID,
		scope,
		dto.Priority,
		dto.RevisionNo,
		dto.Active,
		dto.EffectiveFrom,
		dto.EffectiveTo,
		dto.SupervisorGateOverride,
	)
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
