package route

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment was not created
// through NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment")

// Scope holds the optional matching constraints of an assignment. A nil field
// acts as a wildcard; a set field must match the resolution input exactly
// (ship-vias: the input ship-via must be in the list; priority: the input
// priority must fall in the closed range).
type Scope struct {
	CustomerID  *kernel.UUID
	SiteID      *kernel.UUID
	ItemID      *kernel.UUID
	ItemType    *string
	PriorityMin *int
	PriorityMax *int
	ShipViaIDs  []kernel.UUID
}

// Specificity tiers for the resolver's "most specific wins" ranking.
const (
	// SpecificityItem: the assignment names an exact item.
	SpecificityItem = 2
	// SpecificityItemType: the assignment constrains the item type only.
	SpecificityItemType = 1
	// SpecificityNone: no item constraint at all.
	SpecificityNone = 0
)

// Assignment is a scoping rule that selects which route template applies to
// an order line. Many assignments may exist; resolution filters to those whose
// effective window and scope match, then ranks by specificity, priority, and
// revision.
type Assignment struct {
	id            kernel.UUID
	templateID    kernel.UUID
	scope         Scope
	priority      int
	revisionNo    int
	active        bool
	effectiveFrom time.Time
	effectiveTo   *time.Time

	// supervisorGateOverride forces the owning order through the
	// supervisor-approval status even when no step requires it.
	supervisorGateOverride bool

	isConstructed bool
}

// NewAssignment creates a validated assignment rule. Lower priority values win
// ties among equally specific matches.
func NewAssignment(
	id kernel.UUID,
	templateID kernel.UUID,
	scope Scope,
	priority int,
	revisionNo int,
	effectiveFrom time.Time,
	effectiveTo *time.Time,
	supervisorGateOverride bool,
) (*Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := templateID.Validate(); err != nil {
		return nil, err
	}
	if priority < 0 {
		return nil, errs.NewValueIsInvalidError("priority")
	}
	if revisionNo <= 0 {
		return nil, errs.NewValueIsInvalidError("revisionNo")
	}
	if scope.PriorityMin != nil && scope.PriorityMax != nil && *scope.PriorityMin > *scope.PriorityMax {
		return nil, errs.NewValueIsOutOfRangeError("priorityRange", *scope.PriorityMin, 0, *scope.PriorityMax)
	}
	if effectiveTo != nil && effectiveTo.Before(effectiveFrom) {
		return nil, errs.NewValueIsInvalidError("effectiveTo precedes effectiveFrom")
	}

	return &Assignment{
		id:                     id,
		templateID:             templateID,
		scope:                  scope,
		priority:               priority,
		revisionNo:             revisionNo,
		active:                 true,
		effectiveFrom:          effectiveFrom.UTC(),
		effectiveTo:            effectiveTo,
		supervisorGateOverride: supervisorGateOverride,
		isConstructed:          true,
	}, nil
}

// RestoreAssignment reconstructs an assignment from persistence.
func RestoreAssignment(
	id kernel.UUID,
	templateID kernel.UUID,
	scope Scope,
	priority int,
	revisionNo int,
	active bool,
	effectiveFrom time.Time,
	effectiveTo *time.Time,
	supervisorGateOverride bool,
) (*Assignment, error) {
	a, err := NewAssignment(id, templateID, scope, priority, revisionNo, effectiveFrom, effectiveTo, supervisorGateOverride)
	if err != nil {
		return nil, err
	}
	a.active = active
	return a, nil
}

// Validate ensures the Assignment was created through a factory method.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID { return a.id }

// TemplateID returns the target route template version.
func (a *Assignment) TemplateID() kernel.UUID { return a.templateID }

// Scope returns the assignment's matching constraints.
func (a *Assignment) Scope() Scope { return a.scope }

// Priority returns the tie-break priority; lower wins.
func (a *Assignment) Priority() int { return a.priority }

// RevisionNo returns the revision; higher wins after priority.
func (a *Assignment) RevisionNo() int { return a.revisionNo }

// Active reports whether the assignment participates in resolution.
func (a *Assignment) Active() bool { return a.active }

// EffectiveFrom returns the start of the effective window.
func (a *Assignment) EffectiveFrom() time.Time { return a.effectiveFrom }

// EffectiveTo returns the end of the effective window, nil for open-ended.
func (a *Assignment) EffectiveTo() *time.Time { return a.effectiveTo }

// SupervisorGateOverride reports whether this assignment forces the owning
// order through the supervisor-approval gate.
func (a *Assignment) SupervisorGateOverride() bool { return a.supervisorGateOverride }

// Deactivate withdraws the assignment from resolution.
func (a *Assignment) Deactivate() {
	a.active = false
}

// InEffect reports whether asOf falls inside the effective window of an
// active assignment.
func (a *Assignment) InEffect(asOf time.Time) bool {
	if !a.active {
		return false
	}
	if asOf.Before(a.effectiveFrom) {
		return false
	}
	if a.effectiveTo != nil && asOf.After(*a.effectiveTo) {
		return false
	}
	return true
}

// ResolutionInput is what the resolver knows about an order line when it
// picks a route.
type ResolutionInput struct {
	CustomerID    kernel.UUID
	SiteID        kernel.UUID
	ItemID        kernel.UUID
	ItemType      string
	OrderPriority *int
	ShipViaIDs    []kernel.UUID
	AsOf          time.Time
}

// Matches reports whether every non-nil scope constraint matches the input.
// Nil constraints are wildcards.
func (a *Assignment) Matches(input ResolutionInput) bool {
	s := a.scope
	if s.CustomerID != nil && !s.CustomerID.IsEqual(input.CustomerID) {
		return false
	}
	if s.SiteID != nil && !s.SiteID.IsEqual(input.SiteID) {
		return false
	}
	if s.ItemID != nil && !s.ItemID.IsEqual(input.ItemID) {
		return false
	}
	if s.ItemType != nil && *s.ItemType != input.ItemType {
		return false
	}
	if s.PriorityMin != nil || s.PriorityMax != nil {
		if input.OrderPriority == nil {
			return false
		}
		if s.PriorityMin != nil && *input.OrderPriority < *s.PriorityMin {
			return false
		}
		if s.PriorityMax != nil && *input.OrderPriority > *s.PriorityMax {
			return false
		}
	}
	if len(s.ShipViaIDs) > 0 {
		found := false
		for _, want := range s.ShipViaIDs {
			for _, got := range input.ShipViaIDs {
				if want.IsEqual(got) {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Specificity returns the item-dimension specificity tier of the assignment:
// an exact item beats an item-type constraint, which beats no constraint.
func (a *Assignment) Specificity() int {
	switch {
	case a.scope.ItemID != nil:
		return SpecificityItem
	case a.scope.ItemType != nil:
		return SpecificityItemType
	default:
		return SpecificityNone
	}
}
