// Package instancerepo provides data transfer objects and mapping functions
// for route instance persistence. An instance spans the instance header, its
// step rows, and four capture tables plus the operator activity log; capture
// rows are append-only and never updated in place.
package instancerepo

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// InstanceDTO represents one route instance header row. The version column
// backs optimistic concurrency the same way the orders table does.
type InstanceDTO struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID                  uuid.UUID `gorm:"type:uuid;index"`
	OrderLineID              uuid.UUID `gorm:"type:uuid;index"`
	TemplateID               uuid.UUID `gorm:"type:uuid"`
	TemplateVersion          int
	AssignmentID             *uuid.UUID `gorm:"type:uuid"`
	State                    int        `gorm:"index"`
	CurrentStepSequence      int
	StartedAt                *time.Time
	CompletedAt              *time.Time
	SupervisorGate           bool
	SupervisorReviewRequired bool
	SupervisorDecision       string
	SupervisorDecidedBy      string
	SupervisorDecidedAt      *time.Time
	SupervisorNote           string
	ReworkOpen               bool
	Version                  int

	Steps []StepInstanceDTO `gorm:"foreignKey:InstanceID"`
}

// TableName specifies the database table name for route instance entities.
func (InstanceDTO) TableName() string {
	return "route_instances"
}

// StepInstanceDTO represents one step row, definition snapshot included so
// later template versions never change history.
type StepInstanceDTO struct {
	ID                            uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstanceID                    uuid.UUID `gorm:"type:uuid;index"`
	TemplateStepID                uuid.UUID `gorm:"type:uuid"`
	Sequence                      int
	WorkCenter                    string
	Description                   string
	State                         int
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
	ScanInAt                      *time.Time
	ScanOutAt                     *time.Time
	StartedByEmpNo                string
	CompletedByEmpNo              string
	ManualDurationMinutes         *int
	ManualDurationReason          string
	BlockedReason                 string
	Notes                         string

	Materials  []MaterialUsageDTO   `gorm:"foreignKey:StepInstanceID"`
	Scraps     []ScrapEntryDTO      `gorm:"foreignKey:StepInstanceID"`
	Serials    []SerialCaptureDTO   `gorm:"foreignKey:StepInstanceID"`
	Checklists []ChecklistResultDTO `gorm:"foreignKey:StepInstanceID"`
}

// TableName specifies the database table name for step instance entities.
func (StepInstanceDTO) TableName() string {
	return "route_step_instances"
}

// MaterialUsageDTO represents one material consumption row.
type MaterialUsageDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StepInstanceID uuid.UUID `gorm:"type:uuid;index"`
	ItemID         uuid.UUID `gorm:"type:uuid"`
	Quantity       float64
	RecordedBy     string
	RecordedAt     time.Time
}

// TableName specifies the database table name for material usage rows.
func (MaterialUsageDTO) TableName() string {
	return "step_material_usages"
}

// ScrapEntryDTO represents one scrap count row.
type ScrapEntryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StepInstanceID uuid.UUID `gorm:"type:uuid;index"`
	Quantity       int
	ReasonCode     string
	Note           string
	RecordedBy     string
	RecordedAt     time.Time
}

// TableName specifies the database table name for scrap entry rows.
func (ScrapEntryDTO) TableName() string {
	return "step_scrap_entries"
}

// SerialCaptureDTO represents one captured serial number row.
type SerialCaptureDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StepInstanceID uuid.UUID `gorm:"type:uuid;index"`
	SerialNo       string
	RecordedBy     string
	RecordedAt     time.Time
}

// TableName specifies the database table name for serial capture rows.
func (SerialCaptureDTO) TableName() string {
	return "step_serial_captures"
}

// ChecklistResultDTO represents one checklist item outcome row.
type ChecklistResultDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StepInstanceID uuid.UUID `gorm:"type:uuid;index"`
	ItemCode       string
	Required       bool
	Outcome        string
	Note           string
	RecordedBy     string
	RecordedAt     time.Time
}

// TableName specifies the database table name for checklist result rows.
func (ChecklistResultDTO) TableName() string {
	return "step_checklist_results"
}

// ActivityLogEntryDTO represents one operator action row.
type ActivityLogEntryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StepInstanceID uuid.UUID `gorm:"type:uuid;index"`
	Action         string
	OperatorEmpNo  string
	Detail         string
	OccurredAt     time.Time
}

// TableName specifies the database table name for activity log rows.
func (ActivityLogEntryDTO) TableName() string {
	return "step_activity_log"
}

func headerFromDomain(instance *route.Instance) InstanceDTO {
	return InstanceDTO{
		ID:                       instance.ID().Bytes(),
		OrderID:                  instance.OrderID().Bytes(),
		OrderLineID:              instance.OrderLineID().Bytes(),
		TemplateID:               instance.TemplateID().Bytes(),
		TemplateVersion:          instance.TemplateVersion(),
		AssignmentID:             optionalUUIDBytes(instance.AssignmentID()),
		State:                    int(instance.State()),
		CurrentStepSequence:      instance.CurrentStepSequence(),
		StartedAt:                instance.StartedAt(),
		CompletedAt:              instance.CompletedAt(),
		SupervisorGate:           instance.SupervisorGate(),
		SupervisorReviewRequired: instance.SupervisorReviewRequired(),
		SupervisorDecision:       string(instance.SupervisorDecisionValue()),
		SupervisorDecidedBy:      instance.SupervisorDecidedBy(),
		SupervisorDecidedAt:      instance.SupervisorDecidedAt(),
		SupervisorNote:           instance.SupervisorNote(),
		ReworkOpen:               instance.ReworkOpen(),
		Version:                  instance.Version(),
	}
}

func stepFromDomain(step *route.StepInstance) StepInstanceDTO {
	return StepInstanceDTO{
		ID:                            step.ID().Bytes(),
		InstanceID:                    step.InstanceID().Bytes(),
		TemplateStepID:                step.TemplateStepID().Bytes(),
		Sequence:                      step.Sequence(),
		WorkCenter:                    step.WorkCenter(),
		Description:                   step.Description(),
		State:                         int(step.State()),
		Required:                      step.Required(),
		RequiresChecklistCompletion:   step.RequiresChecklistCompletion(),
		RequiresScrapEntry:            step.RequiresScrapEntry(),
		RequiresSerialCapture:         step.RequiresSerialCapture(),
		RequiresMaterialUsage:         step.RequiresMaterialUsage(),
		RequiresSupervisorApproval:    step.RequiresSupervisorApproval(),
		ChecklistFailureHandling:      int(step.ChecklistFailureHandling()),
		AutoQueueNextStep:             step.AutoQueueNextStep(),
		GeneratePackingSlipOnComplete: step.GeneratePackingSlipOnComplete(),
		GenerateBolOnComplete:         step.GenerateBolOnComplete(),
		SlaMinutes:                    step.SlaMinutes(),
		ScanInAt:                      step.ScanInAt(),
		ScanOutAt:                     step.ScanOutAt(),
		StartedByEmpNo:                step.StartedByEmpNo(),
		CompletedByEmpNo:              step.CompletedByEmpNo(),
		ManualDurationMinutes:         step.ManualDurationMinutes(),
		ManualDurationReason:          step.ManualDurationReason(),
		BlockedReason:                 step.BlockedReason(),
		Notes:                         step.Notes(),
	}
}

func toDomain(dto InstanceDTO) (*route.Instance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	orderLineID, err := kernel.UUIDFromBytes(dto.OrderLineID[:])
	if err != nil {
		return nil, err
	}
	templateID, err := kernel.UUIDFromBytes(dto.TemplateID[:])
	if err != nil {
		return nil, err
	}
	assignmentID, err := optionalUUID(dto.AssignmentID)
	if err != nil {
		return nil, err
	}

	instance, err := route.RestoreInstance(
		id,
		orderID,
		orderLineID,
		templateID,
		dto.TemplateVersion,
		assignmentID,
		route.InstanceState(dto.State),
		dto.CurrentStepSequence,
		dto.StartedAt,
		dto.CompletedAt,
		dto.SupervisorGate,
		dto.SupervisorReviewRequired,
		route.SupervisorDecision(dto.SupervisorDecision),
		dto.SupervisorDecidedBy,
		dto.SupervisorDecidedAt,
		dto.SupervisorNote,
		dto.ReworkOpen,
		dto.Version,
	)
	if err != nil {
		return nil, err
	}

	steps := make([]*route.StepInstance, 0, len(dto.Steps))
	for _, stepDTO := range dto.Steps {
		step, stepErr := stepToDomain(stepDTO)
		if stepErr != nil {
			return nil, stepErr
		}
		steps = append(steps, step)
	}
	if err = instance.AttachSteps(steps); err != nil {
		return nil, err
	}

	return instance, nil
}

func stepToDomain(dto StepInstanceDTO) (*route.StepInstance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	instanceID, err := kernel.UUIDFromBytes(dto.InstanceID[:])
	if err != nil {
		return nil, err
	}
	templateStepID, err := kernel.UUIDFromBytes(dto.TemplateStepID[:])
	if err != nil {
		return nil, err
	}

	def := route.TemplateStep{
		ID:                            templateStepID,
		Sequence:                      dto.Sequence,
		WorkCenter:                    dto.WorkCenter,
		Description:                   dto.Description,
		Required:                      dto.Required,
		RequiresChecklistCompletion:   dto.RequiresChecklistCompletion,
		RequiresScrapEntry:            dto.RequiresScrapEntry,
		RequiresSerialCapture:         dto.RequiresSerialCapture,
		RequiresMaterialUsage:         dto.RequiresMaterialUsage,
		RequiresSupervisorApproval:    dto.RequiresSupervisorApproval,
		ChecklistFailureHandling:      route.ChecklistFailurePolicy(dto.ChecklistFailureHandling),
		AutoQueueNextStep:             dto.AutoQueueNextStep,
		GeneratePackingSlipOnComplete: dto.GeneratePackingSlipOnComplete,
		GenerateBolOnComplete:         dto.GenerateBolOnComplete,
		SlaMinutes:                    dto.SlaMinutes,
	}

	materials, err := materialsToDomain(dto.Materials)
	if err != nil {
		return nil, err
	}
	scraps, err := scrapsToDomain(dto.Scraps)
	if err != nil {
		return nil, err
	}
	serials, err := serialsToDomain(dto.Serials)
	if err != nil {
		return nil, err
	}
	checklists, err := checklistsToDomain(dto.Checklists)
	if err != nil {
		return nil, err
	}

	return route.RestoreStepInstance(
		id,
		instanceID,
		templateStepID,
		dto.Sequence,
		dto.WorkCenter,
		dto.Description,
		route.StepState(dto.State),
		def,
		dto.ScanInAt,
		dto.ScanOutAt,
		dto.StartedByEmpNo,
		dto.CompletedByEmpNo,
		dto.ManualDurationMinutes,
		dto.ManualDurationReason,
		dto.BlockedReason,
		dto.Notes,
		materials,
		scraps,
		serials,
		checklists,
	)
}

func materialsToDomain(dtos []MaterialUsageDTO) ([]route.MaterialUsage, error) {
	rows := make([]route.MaterialUsage, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		stepID, err := kernel.UUIDFromBytes(dto.StepInstanceID[:])
		if err != nil {
			return nil, err
		}
		itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
		if err != nil {
			return nil, err
		}
		rows = append(rows, route.MaterialUsage{
			ID:             id,
			StepInstanceID: stepID,
			ItemID:         itemID,
			Quantity:       dto.Quantity,
			RecordedBy:     dto.RecordedBy,
			RecordedAt:     dto.RecordedAt,
		})
	}
	return rows, nil
}

func scrapsToDomain(dtos []ScrapEntryDTO) ([]route.ScrapEntry, error) {
	rows := make([]route.ScrapEntry, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		stepID, err := kernel.UUIDFromBytes(dto.StepInstanceID[:])
		if err != nil {
			return nil, err
		}
		rows = append(rows, route.ScrapEntry{
			ID:             id,
			StepInstanceID: stepID,
			Quantity:       dto.Quantity,
			ReasonCode:     dto.ReasonCode,
			Note:           dto.Note,
			RecordedBy:     dto.RecordedBy,
			RecordedAt:     dto.RecordedAt,
		})
	}
	return rows, nil
}

func serialsToDomain(dtos []SerialCaptureDTO) ([]route.SerialCapture, error) {
	rows := make([]route.SerialCapture, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		stepID, err := kernel.UUIDFromBytes(dto.StepInstanceID[:])
		if err != nil {
			return nil, err
		}
		rows = append(rows, route.SerialCapture{
			ID:             id,
			StepInstanceID: stepID,
			SerialNo:       dto.SerialNo,
			RecordedBy:     dto.RecordedBy,
			RecordedAt:     dto.RecordedAt,
		})
	}
	return rows, nil
}

func checklistsToDomain(dtos []ChecklistResultDTO) ([]route.ChecklistResult, error) {
	rows := make([]route.ChecklistResult, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		stepID, err := kernel.UUIDFromBytes(dto.StepInstanceID[:])
		if err != nil {
			return nil, err
		}
		rows = append(rows, route.ChecklistResult{
			ID:             id,
			StepInstanceID: stepID,
			ItemCode:       dto.ItemCode,
			Required:       dto.Required,
			Outcome:        route.ChecklistOutcome(dto.Outcome),
			Note:           dto.Note,
			RecordedBy:     dto.RecordedBy,
			RecordedAt:     dto.RecordedAt,
		})
	}
	return rows, nil
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
