package services

import (
	"sort"

	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"
)

// Resolution is the outcome of a route assignment lookup. Matched is false
// when no assignment covers the input; callers must surface that instead of
// falling back to a default template.
type Resolution struct {
	Matched    bool
	Assignment *route.Assignment
}

// AssignmentResolver is a domain service that picks the single route
// assignment governing an order line, from the set of active, time-windowed
// scoping rules.
//
// Ranking, most specific wins:
//   - an exact item constraint beats an item-type constraint, which beats no
//     item constraint at all
//   - among equally specific matches, the lower priority number wins
//   - remaining ties go to the highest revision number
//   - anything still tied is a configuration error and fails with
//     AmbiguousAssignmentError rather than guessing
type AssignmentResolver struct{}

// NewAssignmentResolver creates a new AssignmentResolver instance.
func NewAssignmentResolver() AssignmentResolver {
	return AssignmentResolver{}
}

// Resolve filters candidates down to those in effect at input.AsOf whose
// scoping fields all match the input, then ranks them. A nil scoping field
// on an assignment acts as a wildcard.
func (r AssignmentResolver) Resolve(input route.ResolutionInput, candidates []*route.Assignment) (Resolution, error) {
	var matches []*route.Assignment
	for _, a := range candidates {
		if err := a.Validate(); err != nil {
			return Resolution{}, err
		}
		if !a.InEffect(input.AsOf) {
			continue
		}
		if a.Matches(input) {
			matches = append(matches, a)
		}
	}

	if len(matches) == 0 {
		return Resolution{Matched: false}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Specificity() != matches[j].Specificity() {
			return matches[i].Specificity() > matches[j].Specificity()
		}
		if matches[i].Priority() != matches[j].Priority() {
			return matches[i].Priority() < matches[j].Priority()
		}
		return matches[i].RevisionNo() > matches[j].RevisionNo()
	})

	winner := matches[0]
	if len(matches) > 1 {
		second := matches[1]
		if winner.Specificity() == second.Specificity() &&
			winner.Priority() == second.Priority() &&
			winner.RevisionNo() == second.RevisionNo() {
			ids := []string{winner.ID().String(), second.ID().String()}
			for _, m := range matches[2:] {
				if m.Specificity() == winner.Specificity() &&
					m.Priority() == winner.Priority() &&
					m.RevisionNo() == winner.RevisionNo() {
					ids = append(ids, m.ID().String())
				}
			}
			return Resolution{}, errs.NewAmbiguousAssignmentError(ids)
		}
	}

	return Resolution{Matched: true, Assignment: winner}, nil
}
