package route

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// CaptureKind identifies the four immutable evidence-row types a step can
// record. Capture rows are append-only: recording never mutates or deletes an
// existing row.
type CaptureKind string

const (
	CaptureMaterial  CaptureKind = "Material"
	CaptureScrap     CaptureKind = "Scrap"
	CaptureSerial    CaptureKind = "Serial"
	CaptureChecklist CaptureKind = "Checklist"
)

// MaterialUsage records material consumed at a step.
type MaterialUsage struct {
	ID             kernel.UUID
	StepInstanceID kernel.UUID
	ItemID         kernel.UUID
	Quantity       float64
	RecordedBy     string
	RecordedAt     time.Time
}

// Validate checks required fields of a material usage row.
func (m MaterialUsage) Validate() error {
	if err := m.ID.Validate(); err != nil {
		return err
	}
	if err := m.ItemID.Validate(); err != nil {
		return err
	}
	if m.Quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}
	return nil
}

// ScrapEntry records scrapped cylinders at a step with a coded reason.
type ScrapEntry struct {
	ID             kernel.UUID
	StepInstanceID kernel.UUID
	Quantity       int
	ReasonCode     string
	Note           string
	RecordedBy     string
	RecordedAt     time.Time
}

// Validate checks required fields of a scrap entry.
func (s ScrapEntry) Validate() error {
	if err := s.ID.Validate(); err != nil {
		return err
	}
	if s.Quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}
	if s.ReasonCode == "" {
		return errs.NewValueIsRequiredError("reasonCode")
	}
	return nil
}

// SerialCapture records one cylinder serial number observed at a step.
type SerialCapture struct {
	ID             kernel.UUID
	StepInstanceID kernel.UUID
	SerialNo       string
	RecordedBy     string
	RecordedAt     time.Time
}

// Validate checks required fields of a serial capture.
func (s SerialCapture) Validate() error {
	if err := s.ID.Validate(); err != nil {
		return err
	}
	if s.SerialNo == "" {
		return errs.NewValueIsRequiredError("serialNo")
	}
	return nil
}

// ChecklistOutcome is the terminal result of one checklist item.
type ChecklistOutcome string

const (
	ChecklistPass          ChecklistOutcome = "Pass"
	ChecklistFail          ChecklistOutcome = "Fail"
	ChecklistNotApplicable ChecklistOutcome = "NotApplicable"
)

// ChecklistResult records the outcome of one checklist item at a step.
type ChecklistResult struct {
	ID             kernel.UUID
	StepInstanceID kernel.UUID
	ItemCode       string
	Required       bool
	Outcome        ChecklistOutcome
	Note           string
	RecordedBy     string
	RecordedAt     time.Time
}

// Validate checks required fields of a checklist result.
func (c ChecklistResult) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return err
	}
	if c.ItemCode == "" {
		return errs.NewValueIsRequiredError("itemCode")
	}
	switch c.Outcome {
	case ChecklistPass, ChecklistFail, ChecklistNotApplicable:
		return nil
	default:
		return errs.NewValueIsInvalidError("outcome")
	}
}

// ActivityAction classifies operator actions in the activity log.
type ActivityAction string

const (
	ActivityScanIn           ActivityAction = "ScanIn"
	ActivityCapture          ActivityAction = "Capture"
	ActivityComplete         ActivityAction = "Complete"
	ActivityBlock            ActivityAction = "Block"
	ActivitySkip             ActivityAction = "Skip"
	ActivityReopen           ActivityAction = "Reopen"
	ActivityDurationOverride ActivityAction = "DurationOverride"
)

// ActivityLogEntry is one row of the append-only operator activity log. It is
// independent of the step's own fields so traceability survives rework.
type ActivityLogEntry struct {
	ID             kernel.UUID
	StepInstanceID kernel.UUID
	Action         ActivityAction
	OperatorEmpNo  string
	Detail         string
	OccurredAt     time.Time
}
