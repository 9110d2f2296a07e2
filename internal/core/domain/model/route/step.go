package route

import (
	"fmt"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// StepState is the state machine of a single route step instance.
//
// Transitions:
//
//	Queued ──> InProgress ──> Completed
//	   │            │
//	   └> Skipped   └> Blocked ──> InProgress (unblock)
//
// Completed is terminal except for an explicit rework reopen on the owning
// instance. Skipped is reachable only from Queued and only for non-required
// steps.
type StepState int

const (
	// StepStateUnknown represents an invalid or undefined state.
	StepStateUnknown StepState = iota

	// StepQueued means the step waits for an operator scan-in.
	StepQueued

	// StepInProgress means an operator has scanned in and work is underway.
	StepInProgress

	// StepCompleted means the step finished with all required evidence.
	StepCompleted

	// StepBlocked means completion was rejected (failed required checklist
	// under BlockCompletion, or missing required capture).
	StepBlocked

	// StepSkipped means a non-required step was explicitly skipped.
	StepSkipped
)

func getStepStateStrings() map[StepState]string {
	return map[StepState]string{
		StepStateUnknown: "Unknown",
		StepQueued:       "Queued",
		StepInProgress:   "InProgress",
		StepCompleted:    "Completed",
		StepBlocked:      "Blocked",
		StepSkipped:      "Skipped",
	}
}

// Validate checks that the StepState is defined.
func (s StepState) Validate() error {
	if s <= StepStateUnknown || s > StepSkipped {
		return errs.NewValueIsInvalidErrorWithCause("step state is invalid",
			fmt.Errorf("%d is not a valid step state", s))
	}
	return nil
}

// String returns the state name. Implements fmt.Stringer.
func (s StepState) String() string {
	if str, ok := getStepStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StepInstance is the runtime snapshot of one template step for one order
// line. Capture-mode flags are copied from the template at instantiation so
// later template edits never change in-flight work.
type StepInstance struct {
	id             kernel.UUID
	instanceID     kernel.UUID
	templateStepID kernel.UUID
	sequence       int
	workCenter     string
	description    string
	state          StepState

	required                      bool
	requiresChecklistCompletion   bool
	requiresScrapEntry            bool
	requiresSerialCapture         bool
	requiresMaterialUsage         bool
	requiresSupervisorApproval    bool
	checklistFailureHandling      ChecklistFailurePolicy
	autoQueueNextStep             bool
	generatePackingSlipOnComplete bool
	generateBolOnComplete         bool
	slaMinutes                    int

	scanInAt              *time.Time
	scanOutAt             *time.Time
	startedByEmpNo        string
	completedByEmpNo      string
	manualDurationMinutes *int
	manualDurationReason  string
	blockedReason         string
	notes                 string

	materials  []MaterialUsage
	scraps     []ScrapEntry
	serials    []SerialCapture
	checklists []ChecklistResult
}

// snapshotStep copies a template step definition into a fresh Queued step
// instance owned by instanceID.
func snapshotStep(instanceID kernel.UUID, def TemplateStep) *StepInstance {
	return &StepInstance{
		id:                            kernel.NewUUID(),
		instanceID:                    instanceID,
		templateStepID:                def.ID,
		sequence:                      def.Sequence,
		workCenter:                    def.WorkCenter,
		description:                   def.Description,
		state:                         StepQueued,
		required:                      def.Required,
		requiresChecklistCompletion:   def.RequiresChecklistCompletion,
		requiresScrapEntry:            def.RequiresScrapEntry,
		requiresSerialCapture:         def.RequiresSerialCapture,
		requiresMaterialUsage:         def.RequiresMaterialUsage,
		requiresSupervisorApproval:    def.RequiresSupervisorApproval,
		checklistFailureHandling:      def.ChecklistFailureHandling,
		autoQueueNextStep:             def.AutoQueueNextStep,
		generatePackingSlipOnComplete: def.GeneratePackingSlipOnComplete,
		generateBolOnComplete:         def.GenerateBolOnComplete,
		slaMinutes:                    def.SlaMinutes,
	}
}

// ID returns the step instance identifier.
func (s *StepInstance) ID() kernel.UUID { return s.id }

// InstanceID returns the owning route instance identifier.
func (s *StepInstance) InstanceID() kernel.UUID { return s.instanceID }

// TemplateStepID returns the snapshotted template step identifier.
func (s *StepInstance) TemplateStepID() kernel.UUID { return s.templateStepID }

// Sequence returns the step's position in the route.
func (s *StepInstance) Sequence() int { return s.sequence }

// WorkCenter returns the work center the step runs at.
func (s *StepInstance) WorkCenter() string { return s.workCenter }

// Description returns the step description.
func (s *StepInstance) Description() string { return s.description }

// State returns the current step state.
func (s *StepInstance) State() StepState { return s.state }

// Required reports whether the step may not be skipped.
func (s *StepInstance) Required() bool { return s.required }

// RequiresChecklistCompletion reports the snapshotted checklist gate flag.
func (s *StepInstance) RequiresChecklistCompletion() bool { return s.requiresChecklistCompletion }

// RequiresScrapEntry reports the snapshotted scrap capture flag.
func (s *StepInstance) RequiresScrapEntry() bool { return s.requiresScrapEntry }

// RequiresSerialCapture reports the snapshotted serial capture flag.
func (s *StepInstance) RequiresSerialCapture() bool { return s.requiresSerialCapture }

// RequiresMaterialUsage reports the snapshotted material usage flag.
func (s *StepInstance) RequiresMaterialUsage() bool { return s.requiresMaterialUsage }

// RequiresSupervisorApproval reports the snapshotted supervisor gate flag.
func (s *StepInstance) RequiresSupervisorApproval() bool { return s.requiresSupervisorApproval }

// AutoQueueNextStep reports whether completing this step starts the next one.
func (s *StepInstance) AutoQueueNextStep() bool { return s.autoQueueNextStep }

// GeneratePackingSlipOnComplete reports the packing-slip signal flag.
func (s *StepInstance) GeneratePackingSlipOnComplete() bool { return s.generatePackingSlipOnComplete }

// GenerateBolOnComplete reports the BOL signal flag.
func (s *StepInstance) GenerateBolOnComplete() bool { return s.generateBolOnComplete }

// ChecklistFailureHandling returns the snapshotted checklist failure policy.
func (s *StepInstance) ChecklistFailureHandling() ChecklistFailurePolicy {
	return s.checklistFailureHandling
}

// ScanInAt returns when the operator scanned in, nil before that.
func (s *StepInstance) ScanInAt() *time.Time { return s.scanInAt }

// ScanOutAt returns when the step completed, nil before that.
func (s *StepInstance) ScanOutAt() *time.Time { return s.scanOutAt }

// StartedByEmpNo returns the scanning operator's employee number.
func (s *StepInstance) StartedByEmpNo() string { return s.startedByEmpNo }

// CompletedByEmpNo returns the completing operator's employee number.
func (s *StepInstance) CompletedByEmpNo() string { return s.completedByEmpNo }

// ManualDurationMinutes returns the manual duration override, nil when unset.
func (s *StepInstance) ManualDurationMinutes() *int { return s.manualDurationMinutes }

// ManualDurationReason returns the reason recorded with the override.
func (s *StepInstance) ManualDurationReason() string { return s.manualDurationReason }

// BlockedReason returns why the step is blocked, empty otherwise.
func (s *StepInstance) BlockedReason() string { return s.blockedReason }

// Notes returns the completion notes.
func (s *StepInstance) Notes() string { return s.notes }

// Materials returns the material usage evidence rows.
func (s *StepInstance) Materials() []MaterialUsage { return s.materials }

// Scraps returns the scrap evidence rows.
func (s *StepInstance) Scraps() []ScrapEntry { return s.scraps }

// Serials returns the serial capture evidence rows.
func (s *StepInstance) Serials() []SerialCapture { return s.serials }

// Checklists returns the checklist result rows.
func (s *StepInstance) Checklists() []ChecklistResult { return s.checklists }

// SlaMinutes returns the snapshotted SLA for the step.
func (s *StepInstance) SlaMinutes() int { return s.slaMinutes }

// scanIn moves the step from Queued to InProgress.
func (s *StepInstance) scanIn(operatorEmpNo string, now time.Time) error {
	if s.state != StepQueued {
		return errs.NewInvalidTransitionError(s.state.String(), StepInProgress.String())
	}
	if operatorEmpNo == "" {
		return errs.NewValueIsRequiredError("operatorEmpNo")
	}
	s.state = StepInProgress
	s.scanInAt = &now
	s.startedByEmpNo = operatorEmpNo
	return nil
}

// unblock returns a Blocked step to InProgress after the obstacle is fixed.
func (s *StepInstance) unblock() error {
	if s.state != StepBlocked {
		return errs.NewInvalidTransitionError(s.state.String(), StepInProgress.String())
	}
	s.state = StepInProgress
	s.blockedReason = ""
	return nil
}

// skip marks a non-required Queued step as Skipped.
func (s *StepInstance) skip() error {
	if s.state != StepQueued {
		return errs.NewInvalidTransitionError(s.state.String(), StepSkipped.String())
	}
	if s.required {
		return errs.NewValueIsInvalidError("required step cannot be skipped")
	}
	s.state = StepSkipped
	return nil
}

// block rejects a completion attempt and parks the step in Blocked.
func (s *StepInstance) block(reason string) {
	s.state = StepBlocked
	s.blockedReason = reason
}

// missingCaptures lists the capture kinds the requires* flags demand that
// have no recorded row yet.
func (s *StepInstance) missingCaptures() []CaptureKind {
	var missing []CaptureKind
	if s.requiresMaterialUsage && len(s.materials) == 0 {
		missing = append(missing, CaptureMaterial)
	}
	if s.requiresScrapEntry && len(s.scraps) == 0 {
		missing = append(missing, CaptureScrap)
	}
	if s.requiresSerialCapture && len(s.serials) == 0 {
		missing = append(missing, CaptureSerial)
	}
	return missing
}

// checklistSatisfied reports whether every required checklist item recorded a
// terminal, non-failing outcome.
func (s *StepInstance) checklistSatisfied() bool {
	if !s.requiresChecklistCompletion {
		return true
	}
	if len(s.checklists) == 0 {
		return false
	}
	for _, result := range s.checklists {
		if result.Required && result.Outcome == ChecklistFail {
			return false
		}
	}
	return true
}

// reopen puts a terminal step back in Queued for rework. The evidence rows
// stay: capture history is append-only across reworks.
func (s *StepInstance) reopen() {
	s.state = StepQueued
	s.scanInAt = nil
	s.scanOutAt = nil
	s.startedByEmpNo = ""
	s.completedByEmpNo = ""
	s.blockedReason = ""
}
