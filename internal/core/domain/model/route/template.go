package route

import (
	"errors"
	"fmt"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// ChecklistFailurePolicy controls what happens when a step with a required
// checklist is completed while a required item failed or is unanswered.
type ChecklistFailurePolicy int

const (
	// BlockCompletion rejects the completion and moves the step to Blocked.
	BlockCompletion ChecklistFailurePolicy = iota

	// AllowWithSupervisorOverride lets the completion proceed but flags the
	// route instance for supervisor review.
	AllowWithSupervisorOverride
)

// String returns the policy name.
func (p ChecklistFailurePolicy) String() string {
	if p == AllowWithSupervisorOverride {
		return "AllowWithSupervisorOverride"
	}
	return "BlockCompletion"
}

// TemplateStep is one step definition inside a route template: where the work
// happens, what evidence it must capture, and how completion is gated.
type TemplateStep struct {
	ID                            kernel.UUID
	Sequence                      int
	WorkCenter                    string
	Description                   string
	Required                      bool
	RequiresChecklistCompletion   bool
	RequiresScrapEntry            bool
	RequiresSerialCapture         bool
	RequiresMaterialUsage         bool
	RequiresSupervisorApproval    bool
	ChecklistFailureHandling      ChecklistFailurePolicy
	AutoQueueNextStep             bool
	GeneratePackingSlipOnComplete bool
	GenerateBolOnComplete         bool
	SlaMinutes                    int
}

// Validate checks the structural invariants of a step definition.
func (s TemplateStep) Validate() error {
	if err := s.ID.Validate(); err != nil {
		return err
	}
	if s.Sequence <= 0 {
		return errs.NewValueIsInvalidError("sequence")
	}
	if s.WorkCenter == "" {
		return errs.NewValueIsRequiredError("workCenter")
	}
	if s.SlaMinutes < 0 {
		return errs.NewValueIsInvalidError("slaMinutes")
	}
	return nil
}

// ErrTemplateIsNotConstructed is returned when a Template was not created
// through NewTemplate or RestoreTemplate.
var ErrTemplateIsNotConstructed = errors.New("Template must be created via NewTemplate or RestoreTemplate")

// Template is a named, versioned, ordered list of production steps. Once a
// route instance has been created from a template version it is frozen for
// auditability; edits produce the next versionNo instead of changing history.
type Template struct {
	id           kernel.UUID
	name         string
	versionNo    int
	active       bool
	instantiated bool
	steps        []TemplateStep
	createdAt    time.Time

	isConstructed bool
}

// NewTemplate creates version 1 of a named template with the given ordered
// steps. Sequences must be contiguous starting at 1.
func NewTemplate(id kernel.UUID, name string, steps []TemplateStep) (*Template, error) {
	return newTemplateVersion(id, name, 1, steps)
}

func newTemplateVersion(id kernel.UUID, name string, versionNo int, steps []TemplateStep) (*Template, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if len(steps) == 0 {
		return nil, errs.NewValueIsRequiredError("steps")
	}
	for i, step := range steps {
		if err := step.Validate(); err != nil {
			return nil, err
		}
		if step.Sequence != i+1 {
			return nil, errs.NewValueIsInvalidErrorWithCause("sequence",
				fmt.Errorf("step %d has sequence %d, want %d", i, step.Sequence, i+1))
		}
	}

	return &Template{
		id:            id,
		name:          name,
		versionNo:     versionNo,
		active:        true,
		steps:         steps,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreTemplate reconstructs a template version from persistence.
func RestoreTemplate(
	id kernel.UUID,
	name string,
	versionNo int,
	active bool,
	instantiated bool,
	steps []TemplateStep,
	createdAt time.Time,
) (*Template, error) {
	t, err := newTemplateVersion(id, name, versionNo, steps)
	if err != nil {
		return nil, err
	}
	t.active = active
	t.instantiated = instantiated
	t.createdAt = createdAt
	return t, nil
}

// Validate ensures the Template was created through a factory method.
func (t *Template) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTemplateIsNotConstructed
	}
	return nil
}

// ID returns the template's unique identifier.
func (t *Template) ID() kernel.UUID { return t.id }

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// VersionNo returns the template version number.
func (t *Template) VersionNo() int { return t.versionNo }

// Active reports whether the version may be selected by new assignments.
func (t *Template) Active() bool { return t.active }

// Instantiated reports whether any route instance was created from this
// version, which freezes it.
func (t *Template) Instantiated() bool { return t.instantiated }

// Steps returns the ordered step definitions.
func (t *Template) Steps() []TemplateStep { return t.steps }

// CreatedAt returns when the version was created.
func (t *Template) CreatedAt() time.Time { return t.createdAt }

// MarkInstantiated freezes the version once an instance exists.
func (t *Template) MarkInstantiated() {
	t.instantiated = true
}

// Revise produces the next version of the template with new steps. The
// current version must be revised rather than edited once instantiated; the
// old version stays untouched for in-flight orders.
func (t *Template) Revise(newID kernel.UUID, steps []TemplateStep) (*Template, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	next, err := newTemplateVersion(newID, t.name, t.versionNo+1, steps)
	if err != nil {
		return nil, err
	}
	t.active = false
	return next, nil
}
