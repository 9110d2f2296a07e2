// Package templaterepo provides data transfer objects and mapping functions
// for route template persistence. A template version and its ordered steps
// are stored across two tables and always loaded together.
package templaterepo

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// TemplateDTO represents one route template version row.
type TemplateDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"index"`
	VersionNo    int
	Active       bool `gorm:"index"`
	Instantiated bool
	CreatedAt    time.Time

	Steps []TemplateStepDTO `gorm:"foreignKey:TemplateID"`
}

// TableName specifies the database table name for route template entities.
func (TemplateDTO) TableName() string {
	return "route_templates"
}

// TemplateStepDTO represents one step definition row of a template version.
type TemplateStepDTO struct {
	ID                            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TemplateID                    uuid.UUID `gorm:"type:uuid;index"`
	Sequence                      int
	WorkCenter                    string
	Description                   string
	Required                      bool
	RequiresChecklistCompletion   bool
	RequiresScrapEntry            bool
	RequiresSerialCapture         bool
	RequiresMaterialUsage         bool
	RequiresSupervisorApproval    bool
	ChecklistFailureHandling      int
	AutoQueueNextStep             bool
	GeneratePackingSlipOnComplete bool
	GenerateBolOnComplete         bool
	SlaMinutes                    int
}

// TableName specifies the database table name for template step entities.
func (TemplateStepDTO) TableName() string {
	return "route_template_steps"
}

func fromDomain(template *route.Template) TemplateDTO {
	dto := TemplateDTO{
		ID:           template.ID().Bytes(),
		Name:         template.Name(),
		VersionNo:    template.VersionNo(),
		Active:       template.Active(),
		Instantiated: template.Instantiated(),
		CreatedAt:    template.CreatedAt(),
	}

	for _, step := range template.Steps() {
		dto.Steps = append(dto.Steps, TemplateStepDTO{
			ID:                            step.ID.Bytes(),
			TemplateID:                    dto.ID,
			Sequence:                      step.Sequence,
			WorkCenter:                    step.WorkCenter,
			Description:                   step.Description,
			Required:                      step.Required,
			RequiresChecklistCompletion:   step.RequiresChecklistCompletion,
			RequiresScrapEntry:            step.RequiresScrapEntry,
			RequiresSerialCapture:         step.RequiresSerialCapture,
			RequiresMaterialUsage:         step.RequiresMaterialUsage,
			RequiresSupervisorApproval:    step.RequiresSupervisorApproval,
			ChecklistFailureHandling:      int(step.ChecklistFailureHandling),
			AutoQueueNextStep:             step.AutoQueueNextStep,
			GeneratePackingSlipOnComplete: step.GeneratePackingSlipOnComplete,
			GenerateBolOnComplete:         step.GenerateBolOnComplete,
			SlaMinutes:                    step.SlaMinutes,
		})
	}

	return dto
}

func toDomain(dto TemplateDTO) (*route.Template, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	steps := make([]route.TemplateStep, 0, len(dto.Steps))
	for _, stepDTO := range dto.Steps {
		stepID, stepErr := kernel.UUIDFromBytes(stepDTO.ID[:])
		if stepErr != nil {
			return nil, stepErr
		}
		steps = append(steps, route.TemplateStep{
			ID:                            stepID,
			Sequence:                      stepDTO.Sequence,
			WorkCenter:                    stepDTO.WorkCenter,
			Description:                   stepDTO.Description,
			Required:                      stepDTO.Required,
			RequiresChecklistCompletion:   stepDTO.RequiresChecklistCompletion,
			RequiresScrapEntry:            stepDTO.RequiresScrapEntry,
			RequiresSerialCapture:         stepDTO.RequiresSerialCapture,
			RequiresMaterialUsage:         stepDTO.RequiresMaterialUsage,
			RequiresSupervisorApproval:    stepDTO.RequiresSupervisorApproval,
			ChecklistFailureHandling:      route.ChecklistFailurePolicy(stepDTO.ChecklistFailureHandling),
			AutoQueueNextStep:             stepDTO.AutoQueueNextStep,
			GeneratePackingSlipOnComplete: stepDTO.GeneratePackingSlipOnComplete,
			GenerateBolOnComplete:         stepDTO.GenerateBolOnComplete,
			SlaMinutes:                    stepDTO.SlaMinutes,
		})
	}

	return route.RestoreTemplate(
		id,
		dto.Name,
		dto.VersionNo,
		dto.Active,
		dto.Instantiated,
		steps,
		dto.CreatedAt,
	)
}
