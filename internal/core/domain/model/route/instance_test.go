package route_test

import (
	"testing"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions.
func simpleStep(sequence int, workCenter string) route.TemplateStep {
	return route.TemplateStep{
		ID:         kernel.NewUUID(),
		Sequence:   sequence,
		WorkCenter: workCenter,
		Required:   true,
	}
}

func createTemplate(t *testing.T, steps ...route.TemplateStep) *route.Template {
	t.Helper()
	template, err := route.NewTemplate(kernel.NewUUID(), "Hydro Test Line", steps)
	require.NoError(t, err)
	return template
}

func createInstance(t *testing.T, steps ...route.TemplateStep) *route.Instance {
	t.Helper()
	template := createTemplate(t, steps...)
	inst, err := route.NewInstanceFromTemplate(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), template, nil, false)
	require.NoError(t, err)
	return inst
}

func materialRow(qty float64) route.MaterialUsage {
	return route.MaterialUsage{
		ID:         kernel.NewUUID(),
		ItemID:     kernel.NewUUID(),
		Quantity:   qty,
		RecordedBy: "E300",
		RecordedAt: time.Now().UTC(),
	}
}

func checklistRow(required bool, outcome route.ChecklistOutcome) route.ChecklistResult {
	return route.ChecklistResult{
		ID:         kernel.NewUUID(),
		ItemCode:   "VISUAL-01",
		Required:   required,
		Outcome:    outcome,
		RecordedBy: "E300",
		RecordedAt: time.Now().UTC(),
	}
}

func TestNewInstanceFromTemplate(t *testing.T) {
	t.Run("should snapshot steps and start with the first queued", func(t *testing.T) {
		template := createTemplate(t, simpleStep(1, "WC-10"), simpleStep(2, "WC-20"))

		inst, err := route.NewInstanceFromTemplate(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), template, nil, false)

		require.NoError(t, err)
		assert.Equal(t, route.InstanceInProgress, inst.State())
		assert.Equal(t, 1, inst.CurrentStepSequence())
		assert.Equal(t, template.VersionNo(), inst.TemplateVersion())
		require.Len(t, inst.Steps(), 2)
		assert.Equal(t, route.StepQueued, inst.Steps()[0].State())
		assert.Equal(t, route.StepQueued, inst.Steps()[1].State())
		assert.Nil(t, inst.AssignmentID())
		assert.False(t, inst.SupervisorGate())
	})

	t.Run("should auto start the first step when requested", func(t *testing.T) {
		template := createTemplate(t, simpleStep(1, "WC-10"))

		inst, err := route.NewInstanceFromTemplate(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), template, nil, true)

		require.NoError(t, err)
		assert.Equal(t, route.StepInProgress, inst.Steps()[0].State())
		assert.NotNil(t, inst.Steps()[0].ScanInAt())
	})

	t.Run("should raise the supervisor gate from a step flag", func(t *testing.T) {
		gated := simpleStep(2, "WC-20")
		gated.RequiresSupervisorApproval = true

		inst := createInstance(t, simpleStep(1, "WC-10"), gated)

		assert.True(t, inst.SupervisorGate())
	})
}

func TestInstanceScanIn(t *testing.T) {
	t.Run("should scan in the queued step and log activity", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.ScanInStep(1, "E300")

		require.NoError(t, err)
		step, err := inst.Step(1)
		require.NoError(t, err)
		assert.Equal(t, route.StepInProgress, step.State())
		assert.Equal(t, "E300", step.StartedByEmpNo())
		require.Len(t, inst.PendingActivity(), 1)
		assert.Equal(t, route.ActivityScanIn, inst.PendingActivity()[0].Action)
	})

	t.Run("should reject scanning in ahead of an open earlier step", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"), simpleStep(2, "WC-20"))

		err := inst.ScanInStep(2, "E300")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBlocked)
	})

	t.Run("should reject scanning in without an operator", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.ScanInStep(1, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject an unknown sequence", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.ScanInStep(9, "E300")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestInstanceCaptures(t *testing.T) {
	t.Run("should append capture rows to an in-progress step", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))

		require.NoError(t, inst.RecordMaterial(1, materialRow(2.5)))
		require.NoError(t, inst.RecordSerial(1, route.SerialCapture{
			ID: kernel.NewUUID(), SerialNo: "CYL-0001", RecordedBy: "E300", RecordedAt: time.Now().UTC(),
		}))

		step, err := inst.Step(1)
		require.NoError(t, err)
		assert.Len(t, step.Materials(), 1)
		assert.Len(t, step.Serials(), 1)
		assert.Len(t, inst.PendingMaterials(), 1)
		assert.Len(t, inst.PendingSerials(), 1)
	})

	t.Run("should reject captures against a queued step", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.RecordMaterial(1, materialRow(1))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should reject invalid capture payloads", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))

		err := inst.RecordMaterial(1, materialRow(0))
		assert.Error(t, err)

		err = inst.RecordScrap(1, route.ScrapEntry{ID: kernel.NewUUID(), Quantity: 3})
		assert.Error(t, err)
	})

	t.Run("should clear pending rows after persistence", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))
		require.NoError(t, inst.RecordMaterial(1, materialRow(1)))

		inst.ClearPending()

		assert.Empty(t, inst.PendingMaterials())
		assert.Empty(t, inst.PendingActivity())
		step, err := inst.Step(1)
		require.NoError(t, err)
		assert.Len(t, step.Materials(), 1)
	})
}

func TestInstanceCompleteStep(t *testing.T) {
	t.Run("should complete a step and advance the current sequence", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"), simpleStep(2, "WC-20"))
		require.NoError(t, inst.ScanInStep(1, "E300"))

		result, err := inst.CompleteStep(1, "E300", "done")

		require.NoError(t, err)
		assert.False(t, result.InstanceCompleted)
		assert.Equal(t, 2, inst.CurrentStepSequence())
		step, err := inst.Step(1)
		require.NoError(t, err)
		assert.Equal(t, route.StepCompleted, step.State())
		assert.Equal(t, "E300", step.CompletedByEmpNo())
		assert.Equal(t, "done", step.Notes())
		assert.NotNil(t, step.ScanOutAt())
	})

	t.Run("should block completion on a missing required capture", func(t *testing.T) {
		def := simpleStep(1, "WC-10")
		def.RequiresSerialCapture = true
		inst := createInstance(t, def)
		require.NoError(t, inst.ScanInStep(1, "E300"))

		_, err := inst.CompleteStep(1, "E300", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBlocked)
		step, stepErr := inst.Step(1)
		require.NoError(t, stepErr)
		assert.Equal(t, route.StepBlocked, step.State())
		assert.NotEmpty(t, step.BlockedReason())
	})

	t.Run("should complete after the missing capture is recorded and unblocked", func(t *testing.T) {
		def := simpleStep(1, "WC-10")
		def.RequiresSerialCapture = true
		inst := createInstance(t, def)
		require.NoError(t, inst.ScanInStep(1, "E300"))
		_, err := inst.CompleteStep(1, "E300", "")
		require.Error(t, err)

		require.NoError(t, inst.RecordSerial(1, route.SerialCapture{
			ID: kernel.NewUUID(), SerialNo: "CYL-0001", RecordedBy: "E300", RecordedAt: time.Now().UTC(),
		}))
		require.NoError(t, inst.UnblockStep(1, "E300"))

		result, err := inst.CompleteStep(1, "E300", "")
		require.NoError(t, err)
		assert.True(t, result.InstanceCompleted)
		assert.Equal(t, route.InstanceCompleted, inst.State())
		assert.NotNil(t, inst.CompletedAt())
	})

	t.Run("should block completion when a required checklist fails under BlockCompletion", func(t *testing.T) {
		def := simpleStep(1, "WC-10")
		def.RequiresChecklistCompletion = true
		def.ChecklistFailureHandling = route.BlockCompletion
		inst := createInstance(t, def)
		require.NoError(t, inst.ScanInStep(1, "E300"))
		require.NoError(t, inst.RecordChecklist(1, checklistRow(true, route.ChecklistFail)))

		_, err := inst.CompleteStep(1, "E300", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBlocked)
	})

	t.Run("should flag supervisor review under AllowWithSupervisorOverride", func(t *testing.T) {
		def := simpleStep(1, "WC-10")
		def.RequiresChecklistCompletion = true
		def.ChecklistFailureHandling = route.AllowWithSupervisorOverride
		inst := createInstance(t, def)
		require.NoError(t, inst.ScanInStep(1, "E300"))
		require.NoError(t, inst.RecordChecklist(1, checklistRow(true, route.ChecklistFail)))

		result, err := inst.CompleteStep(1, "E300", "")

		require.NoError(t, err)
		assert.True(t, result.SupervisorReviewFlagged)
		assert.True(t, inst.SupervisorReviewRequired())
		assert.Equal(t, route.InstanceCompleted, inst.State())
	})

	t.Run("should pass a satisfied required checklist", func(t *testing.T) {
		def := simpleStep(1, "WC-10")
		def.RequiresChecklistCompletion = true
		inst := createInstance(t, def)
		require.NoError(t, inst.ScanInStep(1, "E300"))
		require.NoError(t, inst.RecordChecklist(1, checklistRow(true, route.ChecklistPass)))

		result, err := inst.CompleteStep(1, "E300", "")

		require.NoError(t, err)
		assert.False(t, result.SupervisorReviewFlagged)
	})

	t.Run("should auto start the next step when flagged", func(t *testing.T) {
		first := simpleStep(1, "WC-10")
		first.AutoQueueNextStep = true
		inst := createInstance(t, first, simpleStep(2, "WC-20"))
		require.NoError(t, inst.ScanInStep(1, "E300"))

		_, err := inst.CompleteStep(1, "E300", "")

		require.NoError(t, err)
		next, stepErr := inst.Step(2)
		require.NoError(t, stepErr)
		assert.Equal(t, route.StepInProgress, next.State())
		assert.Equal(t, "E300", next.StartedByEmpNo())
	})

	t.Run("should emit document signals from the completing step", func(t *testing.T) {
		def := simpleStep(1, "WC-10")
		def.GeneratePackingSlipOnComplete = true
		def.GenerateBolOnComplete = true
		inst := createInstance(t, def)
		require.NoError(t, inst.ScanInStep(1, "E300"))

		result, err := inst.CompleteStep(1, "E300", "")

		require.NoError(t, err)
		assert.Equal(t, []route.DocumentKind{route.DocumentPackingSlip, route.DocumentBOL}, result.Documents)
	})

	t.Run("should reject completing a step that is not in progress", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		_, err := inst.CompleteStep(1, "E300", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestInstanceSkipStep(t *testing.T) {
	t.Run("should skip an optional queued step", func(t *testing.T) {
		optional := simpleStep(2, "WC-20")
		optional.Required = false
		inst := createInstance(t, simpleStep(1, "WC-10"), optional)
		require.NoError(t, inst.ScanInStep(1, "E300"))
		_, err := inst.CompleteStep(1, "E300", "")
		require.NoError(t, err)

		err = inst.SkipStep(2, "E300")

		require.NoError(t, err)
		step, stepErr := inst.Step(2)
		require.NoError(t, stepErr)
		assert.Equal(t, route.StepSkipped, step.State())
		assert.Equal(t, route.InstanceCompleted, inst.State())
	})

	t.Run("should reject skipping a required step", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.SkipStep(1, "E300")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestInstanceDurationOverride(t *testing.T) {
	t.Run("should record a manual duration with its reason", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))

		err := inst.OverrideStepDuration(1, 45, "terminal offline", "E300")

		require.NoError(t, err)
		step, stepErr := inst.Step(1)
		require.NoError(t, stepErr)
		require.NotNil(t, step.ManualDurationMinutes())
		assert.Equal(t, 45, *step.ManualDurationMinutes())
		assert.Equal(t, "terminal offline", step.ManualDurationReason())
	})

	t.Run("should reject an override without a reason", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))

		err := inst.OverrideStepDuration(1, 45, "", "E300")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non-positive minutes", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))

		err := inst.OverrideStepDuration(1, 0, "terminal offline", "E300")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an override on a queued step", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.OverrideStepDuration(1, 45, "terminal offline", "E300")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestInstanceSupervisorDecision(t *testing.T) {
	completedInstance := func(t *testing.T) *route.Instance {
		t.Helper()
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))
		_, err := inst.CompleteStep(1, "E300", "")
		require.NoError(t, err)
		return inst
	}

	t.Run("should approve a completed route", func(t *testing.T) {
		inst := completedInstance(t)

		err := inst.RecordSupervisorDecision(route.DecisionApproved, "E200", "ok")

		require.NoError(t, err)
		assert.Equal(t, route.DecisionApproved, inst.SupervisorDecisionValue())
		assert.Equal(t, "E200", inst.SupervisorDecidedBy())
		assert.NotNil(t, inst.SupervisorDecidedAt())
		assert.False(t, inst.SupervisorReviewRequired())
	})

	t.Run("should reject approval of an in-flight route", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.RecordSupervisorDecision(route.DecisionApproved, "E200", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should allow rejection before completion", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.RecordSupervisorDecision(route.DecisionRejected, "E200", "bad welds")

		require.NoError(t, err)
		assert.Equal(t, route.DecisionRejected, inst.SupervisorDecisionValue())
	})

	t.Run("should reject an empty decision or operator", func(t *testing.T) {
		inst := completedInstance(t)

		assert.Error(t, inst.RecordSupervisorDecision(route.DecisionNone, "E200", ""))
		assert.Error(t, inst.RecordSupervisorDecision(route.DecisionApproved, "", ""))
	})
}

func TestInstanceRework(t *testing.T) {
	completedTwoStep := func(t *testing.T) *route.Instance {
		t.Helper()
		inst := createInstance(t, simpleStep(1, "WC-10"), simpleStep(2, "WC-20"))
		require.NoError(t, inst.ScanInStep(1, "E300"))
		require.NoError(t, inst.RecordMaterial(1, materialRow(1)))
		_, err := inst.CompleteStep(1, "E300", "")
		require.NoError(t, err)
		require.NoError(t, inst.ScanInStep(2, "E300"))
		_, err = inst.CompleteStep(2, "E300", "")
		require.NoError(t, err)
		return inst
	}

	t.Run("should reopen from a sequence and keep evidence rows", func(t *testing.T) {
		inst := completedTwoStep(t)

		err := inst.Reopen(1, "E200")

		require.NoError(t, err)
		assert.Equal(t, route.InstanceInProgress, inst.State())
		assert.True(t, inst.ReworkOpen())
		assert.Equal(t, 1, inst.CurrentStepSequence())
		assert.Nil(t, inst.CompletedAt())
		assert.Equal(t, route.DecisionNone, inst.SupervisorDecisionValue())
		for _, step := range inst.Steps() {
			assert.Equal(t, route.StepQueued, step.State())
		}
		first, stepErr := inst.Step(1)
		require.NoError(t, stepErr)
		assert.Len(t, first.Materials(), 1)
	})

	t.Run("should reopen only from the given sequence", func(t *testing.T) {
		inst := completedTwoStep(t)

		err := inst.Reopen(2, "E200")

		require.NoError(t, err)
		first, stepErr := inst.Step(1)
		require.NoError(t, stepErr)
		assert.Equal(t, route.StepCompleted, first.State())
		second, stepErr := inst.Step(2)
		require.NoError(t, stepErr)
		assert.Equal(t, route.StepQueued, second.State())
	})

	t.Run("should reject reopening an in-flight route", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		err := inst.Reopen(1, "E200")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should close rework exactly once", func(t *testing.T) {
		inst := completedTwoStep(t)
		require.NoError(t, inst.Reopen(2, "E200"))

		require.NoError(t, inst.CloseRework())
		assert.False(t, inst.ReworkOpen())

		err := inst.CloseRework()
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestInstanceCancel(t *testing.T) {
	t.Run("should cancel an in-flight route", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))

		require.NoError(t, inst.Cancel())
		assert.Equal(t, route.InstanceCancelled, inst.State())
	})

	t.Run("should reject cancelling a finished route", func(t *testing.T) {
		inst := createInstance(t, simpleStep(1, "WC-10"))
		require.NoError(t, inst.ScanInStep(1, "E300"))
		_, err := inst.CompleteStep(1, "E300", "")
		require.NoError(t, err)

		err = inst.Cancel()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}
