package route

import (
	"errors"
	"fmt"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// ErrInstanceIsNotConstructed is returned when an Instance was not created
// through NewInstanceFromTemplate or RestoreInstance.
var ErrInstanceIsNotConstructed = errors.New("Instance must be created via NewInstanceFromTemplate or RestoreInstance")

// InstanceState is the state machine of a route instance as a whole.
type InstanceState int

const (
	// InstanceStateUnknown represents an invalid or undefined state.
	InstanceStateUnknown InstanceState = iota

	// InstanceNotStarted means the route exists but no work has begun.
	InstanceNotStarted

	// InstanceInProgress means at least one step has been worked.
	InstanceInProgress

	// InstanceCompleted means every step is Completed or Skipped.
	InstanceCompleted

	// InstanceCancelled means the route was abandoned.
	InstanceCancelled
)

func getInstanceStateStrings() map[InstanceState]string {
	return map[InstanceState]string{
		InstanceStateUnknown: "Unknown",
		InstanceNotStarted:   "NotStarted",
		InstanceInProgress:   "InProgress",
		InstanceCompleted:    "Completed",
		InstanceCancelled:    "Cancelled",
	}
}

// Validate checks that the InstanceState is defined.
func (s InstanceState) Validate() error {
	if s <= InstanceStateUnknown || s > InstanceCancelled {
		return errs.NewValueIsInvalidErrorWithCause("instance state is invalid",
			fmt.Errorf("%d is not a valid instance state", s))
	}
	return nil
}

// String returns the state name. Implements fmt.Stringer.
func (s InstanceState) String() string {
	if str, ok := getInstanceStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// SupervisorDecision records the outcome of the production-approval gate on
// the route instance it was made for.
type SupervisorDecision string

const (
	DecisionNone     SupervisorDecision = ""
	DecisionApproved SupervisorDecision = "Approved"
	DecisionRejected SupervisorDecision = "Rejected"
)

// DocumentKind identifies the documents a completing step can request from
// the external document-generation collaborator.
type DocumentKind string

const (
	DocumentPackingSlip DocumentKind = "PackingSlip"
	DocumentBOL         DocumentKind = "BOL"
)

// CompletionResult tells the caller what a successful step completion caused
// beyond the step itself: whether the whole route finished, which document
// signals must fire after commit, and whether the instance was flagged for
// supervisor review by a checklist override.
type CompletionResult struct {
	InstanceCompleted       bool
	Documents               []DocumentKind
	SupervisorReviewFlagged bool
}

// Instance is the per-order-line runtime snapshot of a route template: the
// aggregate root of the route execution engine. It owns its step instances
// and the append-only capture and activity rows recorded against them.
//
// Step instances are snapshotted at instantiation; later template edits never
// change in-flight routes.
type Instance struct {
	id              kernel.UUID
	orderID         kernel.UUID
	orderLineID     kernel.UUID
	templateID      kernel.UUID
	templateVersion int
	assignmentID    *kernel.UUID

	state               InstanceState
	currentStepSequence int
	startedAt           *time.Time
	completedAt         *time.Time

	supervisorGate           bool
	supervisorReviewRequired bool
	supervisorDecision       SupervisorDecision
	supervisorDecidedBy      string
	supervisorDecidedAt      *time.Time
	supervisorNote           string

	reworkOpen bool
	version    int

	steps []*StepInstance

	pendingMaterials  []MaterialUsage
	pendingScraps     []ScrapEntry
	pendingSerials    []SerialCapture
	pendingChecklists []ChecklistResult
	pendingActivity   []ActivityLogEntry

	isConstructed bool
}

// NewInstanceFromTemplate snapshots every step of the template version into a
// fresh route instance for one order line. The instance starts InProgress
// with the first step Queued, or already InProgress when autoStartFirstStep
// is set (scan-in happens at routing time on the floor).
//
// assignment may be nil when the route was attached manually rather than
// resolved; when present, its supervisor gate override carries over.
func NewInstanceFromTemplate(
	id kernel.UUID,
	orderID kernel.UUID,
	orderLineID kernel.UUID,
	template *Template,
	assignment *Assignment,
	autoStartFirstStep bool,
) (*Instance, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := orderLineID.Validate(); err != nil {
		return nil, err
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inst := &Instance{
		id:                  id,
		orderID:             orderID,
		orderLineID:         orderLineID,
		templateID:          template.ID(),
		templateVersion:     template.VersionNo(),
		state:               InstanceInProgress,
		currentStepSequence: 1,
		startedAt:           &now,
		isConstructed:       true,
	}

	if assignment != nil {
		if err := assignment.Validate(); err != nil {
			return nil, err
		}
		aID := assignment.ID()
		inst.assignmentID = &aID
		inst.supervisorGate = assignment.SupervisorGateOverride()
	}

	for _, def := range template.Steps() {
		step := snapshotStep(id, def)
		if def.RequiresSupervisorApproval {
			inst.supervisorGate = true
		}
		inst.steps = append(inst.steps, step)
	}
	if autoStartFirstStep {
		inst.steps[0].state = StepInProgress
		inst.steps[0].scanInAt = &now
	}

	return inst, nil
}

// RestoreInstance reconstructs a route instance from persistence. Steps are
// attached separately via AttachSteps.
func RestoreInstance(
	id kernel.UUID,
	orderID kernel.UUID,
	orderLineID kernel.UUID,
	templateID kernel.UUID,
	templateVersion int,
	assignmentID *kernel.UUID,
	state InstanceState,
	currentStepSequence int,
	startedAt, completedAt *time.Time,
	supervisorGate, supervisorReviewRequired bool,
	supervisorDecision SupervisorDecision,
	supervisorDecidedBy string,
	supervisorDecidedAt *time.Time,
	supervisorNote string,
	reworkOpen bool,
	version int,
) (*Instance, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), orderLineID.Validate(), templateID.Validate()); err != nil {
		return nil, err
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	return &Instance{
		id:                       id,
		orderID:                  orderID,
		orderLineID:              orderLineID,
		templateID:               templateID,
		templateVersion:          templateVersion,
		assignmentID:             assignmentID,
		state:                    state,
		currentStepSequence:      currentStepSequence,
		startedAt:                startedAt,
		completedAt:              completedAt,
		supervisorGate:           supervisorGate,
		supervisorReviewRequired: supervisorReviewRequired,
		supervisorDecision:       supervisorDecision,
		supervisorDecidedBy:      supervisorDecidedBy,
		supervisorDecidedAt:      supervisorDecidedAt,
		supervisorNote:           supervisorNote,
		reworkOpen:               reworkOpen,
		version:                  version,
		isConstructed:            true,
	}, nil
}

// AttachSteps installs restored step instances. Repository use only.
func (i *Instance) AttachSteps(steps []*StepInstance) error {
	for _, s := range steps {
		if !s.InstanceID().IsEqual(i.id) {
			return errs.NewValueIsInvalidError("step belongs to a different instance")
		}
	}
	i.steps = steps
	return nil
}

// RestoreStepInstance rebuilds a step instance row from persistence.
// Repository use only; creation goes through NewInstanceFromTemplate.
func RestoreStepInstance(
	id kernel.UUID,
	instanceID kernel.UUID,
	templateStepID kernel.UUID,
	sequence int,
	workCenter string,
	description string,
	state StepState,
	def TemplateStep,
	scanInAt, scanOutAt *time.Time,
	startedByEmpNo, completedByEmpNo string,
	manualDurationMinutes *int,
	manualDurationReason string,
	blockedReason string,
	notes string,
	materials []MaterialUsage,
	scraps []ScrapEntry,
	serials []SerialCapture,
	checklists []ChecklistResult,
) (*StepInstance, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	step := snapshotStep(instanceID, def)
	step.id = id
	step.templateStepID = templateStepID
	step.sequence = sequence
	step.workCenter = workCenter
	step.description = description
	step.state = state
	step.scanInAt = scanInAt
	step.scanOutAt = scanOutAt
	step.startedByEmpNo = startedByEmpNo
	step.completedByEmpNo = completedByEmpNo
	step.manualDurationMinutes = manualDurationMinutes
	step.manualDurationReason = manualDurationReason
	step.blockedReason = blockedReason
	step.notes = notes
	step.materials = materials
	step.scraps = scraps
	step.serials = serials
	step.checklists = checklists
	return step, nil
}

// Validate ensures the Instance was created through a factory method.
func (i *Instance) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrInstanceIsNotConstructed
	}
	return nil
}

// ID returns the instance identifier.
func (i *Instance) ID() kernel.UUID { return i.id }

// OrderID returns the owning order.
func (i *Instance) OrderID() kernel.UUID { return i.orderID }

// OrderLineID returns the order line the route runs for.
func (i *Instance) OrderLineID() kernel.UUID { return i.orderLineID }

// TemplateID returns the snapshotted template version identifier.
func (i *Instance) TemplateID() kernel.UUID { return i.templateID }

// TemplateVersion returns the snapshotted template version number.
func (i *Instance) TemplateVersion() int { return i.templateVersion }

// AssignmentID returns the winning assignment, nil for manual routing.
func (i *Instance) AssignmentID() *kernel.UUID { return i.assignmentID }

// State returns the instance state.
func (i *Instance) State() InstanceState { return i.state }

// CurrentStepSequence returns the lowest not-yet-terminal step sequence.
func (i *Instance) CurrentStepSequence() int { return i.currentStepSequence }

// StartedAt returns when work began.
func (i *Instance) StartedAt() *time.Time { return i.startedAt }

// CompletedAt returns when the route finished, nil while in flight.
func (i *Instance) CompletedAt() *time.Time { return i.completedAt }

// SupervisorGate reports whether the owning order must pass through the
// supervisor-approval status before production completes.
func (i *Instance) SupervisorGate() bool { return i.supervisorGate }

// SupervisorReviewRequired reports whether a checklist override flagged the
// instance for review.
func (i *Instance) SupervisorReviewRequired() bool { return i.supervisorReviewRequired }

// SupervisorDecisionValue returns the recorded approval decision.
func (i *Instance) SupervisorDecisionValue() SupervisorDecision { return i.supervisorDecision }

// SupervisorDecidedBy returns who decided.
func (i *Instance) SupervisorDecidedBy() string { return i.supervisorDecidedBy }

// SupervisorDecidedAt returns when the decision was made.
func (i *Instance) SupervisorDecidedAt() *time.Time { return i.supervisorDecidedAt }

// SupervisorNote returns the decision note.
func (i *Instance) SupervisorNote() string { return i.supervisorNote }

// ReworkOpen reports whether an open rework keeps the instance reopened.
func (i *Instance) ReworkOpen() bool { return i.reworkOpen }

// Version returns the optimistic-concurrency version of the row.
func (i *Instance) Version() int { return i.version }

// BumpVersion moves the in-memory version forward after the repository
// persisted the instance under version+1. Without it a second update of the
// same loaded instance would carry a stale version predicate.
func (i *Instance) BumpVersion() { i.version++ }

// Steps returns the ordered step instances.
func (i *Instance) Steps() []*StepInstance { return i.steps }

// Step returns the step instance with the given sequence.
func (i *Instance) Step(sequence int) (*StepInstance, error) {
	for _, s := range i.steps {
		if s.sequence == sequence {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("stepSequence", sequence)
}

// ScanInStep moves the step at sequence from Queued to InProgress, recording
// the operator and an activity-log row. Earlier steps must all be terminal.
func (i *Instance) ScanInStep(sequence int, operatorEmpNo string) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.state != InstanceInProgress {
		return errs.NewInvalidTransitionError(i.state.String(), InstanceInProgress.String())
	}
	step, err := i.Step(sequence)
	if err != nil {
		return err
	}
	for _, earlier := range i.steps {
		if earlier.sequence < sequence && !isTerminal(earlier.state) {
			return errs.NewBlockedError(
				fmt.Sprintf("step %d is still %s", earlier.sequence, earlier.state))
		}
	}

	now := time.Now().UTC()
	if err = step.scanIn(operatorEmpNo, now); err != nil {
		return err
	}
	i.logActivity(step, ActivityScanIn, operatorEmpNo, "")
	return nil
}

// RecordMaterial appends a material usage row to an InProgress step.
func (i *Instance) RecordMaterial(sequence int, usage MaterialUsage) error {
	step, err := i.captureTarget(sequence)
	if err != nil {
		return err
	}
	usage.StepInstanceID = step.id
	if err = usage.Validate(); err != nil {
		return err
	}
	step.materials = append(step.materials, usage)
	i.pendingMaterials = append(i.pendingMaterials, usage)
	i.logActivity(step, ActivityCapture, usage.RecordedBy, string(CaptureMaterial))
	return nil
}

// RecordScrap appends a scrap entry to an InProgress step.
func (i *Instance) RecordScrap(sequence int, entry ScrapEntry) error {
	step, err := i.captureTarget(sequence)
	if err != nil {
		return err
	}
	entry.StepInstanceID = step.id
	if err = entry.Validate(); err != nil {
		return err
	}
	step.scraps = append(step.scraps, entry)
	i.pendingScraps = append(i.pendingScraps, entry)
	i.logActivity(step, ActivityCapture, entry.RecordedBy, string(CaptureScrap))
	return nil
}

// RecordSerial appends a serial capture to an InProgress step.
func (i *Instance) RecordSerial(sequence int, capture SerialCapture) error {
	step, err := i.captureTarget(sequence)
	if err != nil {
		return err
	}
	capture.StepInstanceID = step.id
	if err = capture.Validate(); err != nil {
		return err
	}
	step.serials = append(step.serials, capture)
	i.pendingSerials = append(i.pendingSerials, capture)
	i.logActivity(step, ActivityCapture, capture.RecordedBy, string(CaptureSerial))
	return nil
}

// RecordChecklist appends a checklist result to an InProgress step.
func (i *Instance) RecordChecklist(sequence int, result ChecklistResult) error {
	step, err := i.captureTarget(sequence)
	if err != nil {
		return err
	}
	result.StepInstanceID = step.id
	if err = result.Validate(); err != nil {
		return err
	}
	step.checklists = append(step.checklists, result)
	i.pendingChecklists = append(i.pendingChecklists, result)
	i.logActivity(step, ActivityCapture, result.RecordedBy, string(CaptureChecklist))
	return nil
}

// CompleteStep finishes the step at sequence. It enforces the snapshotted
// requires* flags against the recorded evidence rows:
//
//   - a missing required capture parks the step in Blocked and fails
//   - an unsatisfied required checklist follows the snapshotted failure
//     policy: BlockCompletion parks the step in Blocked and fails;
//     AllowWithSupervisorOverride completes but flags the instance for
//     supervisor review
//
// On success the step becomes Completed; with autoQueueNextStep the next step
// advances to InProgress; completing the last step completes the instance and
// returns the document-generation signals to fire after commit.
func (i *Instance) CompleteStep(sequence int, operatorEmpNo, notes string) (CompletionResult, error) {
	var result CompletionResult
	if err := i.Validate(); err != nil {
		return result, err
	}
	if i.state != InstanceInProgress {
		return result, errs.NewInvalidTransitionError(i.state.String(), InstanceCompleted.String())
	}
	step, err := i.Step(sequence)
	if err != nil {
		return result, err
	}
	if step.state != StepInProgress {
		return result, errs.NewInvalidTransitionError(step.state.String(), StepCompleted.String())
	}
	if operatorEmpNo == "" {
		return result, errs.NewValueIsRequiredError("operatorEmpNo")
	}

	if missing := step.missingCaptures(); len(missing) > 0 {
		reason := fmt.Sprintf("missing required capture(s): %v", missing)
		step.block(reason)
		i.logActivity(step, ActivityBlock, operatorEmpNo, reason)
		return result, errs.NewBlockedError(reason)
	}
	if !step.checklistSatisfied() {
		if step.checklistFailureHandling == BlockCompletion {
			reason := "required checklist incomplete or failed"
			step.block(reason)
			i.logActivity(step, ActivityBlock, operatorEmpNo, reason)
			return result, errs.NewBlockedError(reason)
		}
		i.supervisorReviewRequired = true
		result.SupervisorReviewFlagged = true
	}

	now := time.Now().UTC()
	step.state = StepCompleted
	step.scanOutAt = &now
	step.completedByEmpNo = operatorEmpNo
	step.notes = notes
	i.logActivity(step, ActivityComplete, operatorEmpNo, "")

	if step.generatePackingSlipOnComplete {
		result.Documents = append(result.Documents, DocumentPackingSlip)
	}
	if step.generateBolOnComplete {
		result.Documents = append(result.Documents, DocumentBOL)
	}

	if next := i.nextOpenStep(); next != nil {
		i.currentStepSequence = next.sequence
		if step.autoQueueNextStep && next.state == StepQueued {
			next.state = StepInProgress
			next.scanInAt = &now
			next.startedByEmpNo = operatorEmpNo
		}
	} else {
		i.state = InstanceCompleted
		i.completedAt = &now
		i.currentStepSequence = step.sequence
		result.InstanceCompleted = true
	}

	return result, nil
}

// SkipStep marks a non-required Queued step as Skipped. Completing the last
// open step by skipping also completes the instance.
func (i *Instance) SkipStep(sequence int, operatorEmpNo string) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.state != InstanceInProgress {
		return errs.NewInvalidTransitionError(i.state.String(), InstanceInProgress.String())
	}
	step, err := i.Step(sequence)
	if err != nil {
		return err
	}
	if err = step.skip(); err != nil {
		return err
	}
	i.logActivity(step, ActivitySkip, operatorEmpNo, "")

	if next := i.nextOpenStep(); next != nil {
		i.currentStepSequence = next.sequence
	} else {
		now := time.Now().UTC()
		i.state = InstanceCompleted
		i.completedAt = &now
	}
	return nil
}

// UnblockStep returns a Blocked step to InProgress once the obstacle is
// resolved (missing capture recorded, checklist fixed).
func (i *Instance) UnblockStep(sequence int, operatorEmpNo string) error {
	if err := i.Validate(); err != nil {
		return err
	}
	step, err := i.Step(sequence)
	if err != nil {
		return err
	}
	if err = step.unblock(); err != nil {
		return err
	}
	i.logActivity(step, ActivityReopen, operatorEmpNo, "unblocked")
	return nil
}

// OverrideStepDuration records a manual duration with a mandatory reason,
// for steps worked off-terminal.
func (i *Instance) OverrideStepDuration(sequence, minutes int, reason, operatorEmpNo string) error {
	if err := i.Validate(); err != nil {
		return err
	}
	step, err := i.Step(sequence)
	if err != nil {
		return err
	}
	if step.state != StepInProgress && step.state != StepCompleted {
		return errs.NewInvalidTransitionError(step.state.String(), step.state.String())
	}
	if minutes <= 0 {
		return errs.NewValueIsInvalidError("minutes")
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	step.manualDurationMinutes = &minutes
	step.manualDurationReason = reason
	i.logActivity(step, ActivityDurationOverride, operatorEmpNo, reason)
	return nil
}

// RecordSupervisorDecision stores the production-approval outcome on the
// instance. Approval requires a completed route; rejection may come earlier
// when the review flag is raised.
func (i *Instance) RecordSupervisorDecision(decision SupervisorDecision, empNo, note string) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if decision != DecisionApproved && decision != DecisionRejected {
		return errs.NewValueIsInvalidError("decision")
	}
	if empNo == "" {
		return errs.NewValueIsRequiredError("empNo")
	}
	if decision == DecisionApproved && i.state != InstanceCompleted {
		return errs.NewInvalidTransitionError(i.state.String(), InstanceCompleted.String())
	}

	now := time.Now().UTC()
	i.supervisorDecision = decision
	i.supervisorDecidedBy = empNo
	i.supervisorDecidedAt = &now
	i.supervisorNote = note
	if decision == DecisionApproved {
		i.supervisorReviewRequired = false
	}
	return nil
}

// Reopen puts a Completed instance back in motion for rework: the step at
// fromSequence and every later non-skipped step return to Queued, and the
// instance is marked rework-open until CloseRework. Evidence rows are kept.
func (i *Instance) Reopen(fromSequence int, operatorEmpNo string) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.state != InstanceCompleted {
		return errs.NewInvalidTransitionError(i.state.String(), InstanceInProgress.String())
	}
	step, err := i.Step(fromSequence)
	if err != nil {
		return err
	}

	for _, s := range i.steps {
		if s.sequence >= fromSequence && s.state != StepSkipped {
			s.reopen()
		}
	}
	i.state = InstanceInProgress
	i.completedAt = nil
	i.currentStepSequence = fromSequence
	i.supervisorDecision = DecisionNone
	i.supervisorDecidedBy = ""
	i.supervisorDecidedAt = nil
	i.reworkOpen = true
	i.logActivity(step, ActivityReopen, operatorEmpNo, "rework")
	return nil
}

// CloseRework clears the rework flag once the reopened work is done.
func (i *Instance) CloseRework() error {
	if err := i.Validate(); err != nil {
		return err
	}
	if !i.reworkOpen {
		return errs.NewValueIsInvalidError("no rework is open")
	}
	i.reworkOpen = false
	return nil
}

// Cancel abandons an unfinished route.
func (i *Instance) Cancel() error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.state == InstanceCompleted || i.state == InstanceCancelled {
		return errs.NewInvalidTransitionError(i.state.String(), InstanceCancelled.String())
	}
	i.state = InstanceCancelled
	return nil
}

// PendingMaterials returns unpersisted material rows. Repository use.
func (i *Instance) PendingMaterials() []MaterialUsage { return i.pendingMaterials }

// PendingScraps returns unpersisted scrap rows. Repository use.
func (i *Instance) PendingScraps() []ScrapEntry { return i.pendingScraps }

// PendingSerials returns unpersisted serial rows. Repository use.
func (i *Instance) PendingSerials() []SerialCapture { return i.pendingSerials }

// PendingChecklists returns unpersisted checklist rows. Repository use.
func (i *Instance) PendingChecklists() []ChecklistResult { return i.pendingChecklists }

// PendingActivity returns unpersisted activity-log rows. Repository use.
func (i *Instance) PendingActivity() []ActivityLogEntry { return i.pendingActivity }

// ClearPending drops the pending rows after the repository persisted them.
func (i *Instance) ClearPending() {
	i.pendingMaterials = nil
	i.pendingScraps = nil
	i.pendingSerials = nil
	i.pendingChecklists = nil
	i.pendingActivity = nil
}

func (i *Instance) captureTarget(sequence int) (*StepInstance, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	step, err := i.Step(sequence)
	if err != nil {
		return nil, err
	}
	if step.state != StepInProgress && step.state != StepBlocked {
		return nil, errs.NewInvalidTransitionError(step.state.String(), StepInProgress.String())
	}
	return step, nil
}

func (i *Instance) nextOpenStep() *StepInstance {
	for _, s := range i.steps {
		if !isTerminal(s.state) {
			return s
		}
	}
	return nil
}

func (i *Instance) logActivity(step *StepInstance, action ActivityAction, empNo, detail string) {
	i.pendingActivity = append(i.pendingActivity, ActivityLogEntry{
		ID:             kernel.NewUUID(),
		StepInstanceID: step.id,
		Action:         action,
		OperatorEmpNo:  empNo,
		Detail:         detail,
		OccurredAt:     time.Now().UTC(),
	})
}

func isTerminal(s StepState) bool {
	return s == StepCompleted || s == StepSkipped
}
