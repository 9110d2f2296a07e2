package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the workflow error kinds. They let callers decide retry
// policy without parsing messages: ErrConcurrencyConflict is safe to retry,
// the state-machine kinds are not, ErrAuditWriteFailure is fatal for the
// enclosing transaction.
var (
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrBlocked             = errors.New("blocked")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAmbiguousAssignment = errors.New("ambiguous assignment")
	ErrNoMatch             = errors.New("no match")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrAuditWriteFailure   = errors.New("audit write failure")
)

// InvalidTransitionError indicates a lifecycle or step transition whose target
// is not reachable from the current state.
type InvalidTransitionError struct {
	From string
	To   string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given states.
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s is not reachable from %s", ErrInvalidTransition, sanitize(e.To), sanitize(e.From))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// BlockedError indicates a transition prevented by an active hold overlay or
// an open rework.
type BlockedError struct {
	Reason string
}

// NewBlockedError creates a BlockedError naming what blocks the transition.
func NewBlockedError(reason string) *BlockedError {
	return &BlockedError{Reason: reason}
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBlocked, sanitize(e.Reason))
}

func (e *BlockedError) Unwrap() error {
	return ErrBlocked
}

// UnauthorizedError indicates that the acting role is not permitted to perform
// the attempted operation.
type UnauthorizedError struct {
	Role   string
	Action string
}

// NewUnauthorizedError creates an UnauthorizedError for the given role and action.
func NewUnauthorizedError(role, action string) *UnauthorizedError {
	return &UnauthorizedError{Role: role, Action: action}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: role %s may not %s", ErrUnauthorized, sanitize(e.Role), sanitize(e.Action))
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// AmbiguousAssignmentError indicates that route assignment resolution found
// more than one equally specific winner. This is a configuration problem that
// must surface to setup roles rather than be resolved by guessing.
type AmbiguousAssignmentError struct {
	CandidateIDs []string
}

// NewAmbiguousAssignmentError creates an AmbiguousAssignmentError listing the tied candidates.
func NewAmbiguousAssignmentError(candidateIDs []string) *AmbiguousAssignmentError {
	return &AmbiguousAssignmentError{CandidateIDs: candidateIDs}
}

func (e *AmbiguousAssignmentError) Error() string {
	return fmt.Sprintf("%s: %d assignments tie for most specific: %v",
		ErrAmbiguousAssignment, len(e.CandidateIDs), e.CandidateIDs)
}

func (e *AmbiguousAssignmentError) Unwrap() error {
	return ErrAmbiguousAssignment
}

// NoMatchError indicates that no active assignment covers a resolution
// input. Callers must surface it, never fall back to a default route.
type NoMatchError struct {
	Subject string
}

// NewNoMatchError creates a NoMatchError for the unmatched subject.
func NewNoMatchError(subject string) *NoMatchError {
	return &NoMatchError{Subject: subject}
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%s: no active assignment covers %s", ErrNoMatch, sanitize(e.Subject))
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}

// ConcurrencyConflictError indicates that a concurrent writer won the race for
// the same row. The whole operation is safe to retry.
type ConcurrencyConflictError struct {
	Entity string
	ID     any
}

// NewConcurrencyConflictError creates a ConcurrencyConflictError for the given entity row.
func NewConcurrencyConflictError(entity string, id any) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Entity: entity, ID: id}
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s was modified concurrently", ErrConcurrencyConflict, e.Entity, sanitize(e.ID))
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// AuditWriteFailureError indicates that the audit batch for a mutation could
// not be written. The triggering mutation must be rolled back in full.
type AuditWriteFailureError struct {
	Cause error
}

// NewAuditWriteFailureError creates an AuditWriteFailureError wrapping the write error.
func NewAuditWriteFailureError(cause error) *AuditWriteFailureError {
	return &AuditWriteFailureError{Cause: cause}
}

func (e *AuditWriteFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", ErrAuditWriteFailure, sanitize(e.Cause))
	}
	return ErrAuditWriteFailure.Error()
}

func (e *AuditWriteFailureError) Unwrap() error {
	return ErrAuditWriteFailure
}
