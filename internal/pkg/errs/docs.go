// Package errs provides standardized error types for the cylinder tracking
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// Two families of error kinds live here:
//
//   - Generic validation kinds: ValueIsRequiredError, ValueIsInvalidError,
//     ValueIsOutOfRangeError, ObjectNotFoundError, VersionIsInvalidError.
//   - Workflow kinds for the order lifecycle and routing core:
//     InvalidTransitionError, BlockedError, UnauthorizedError,
//     AmbiguousAssignmentError, ConcurrencyConflictError,
//     AuditWriteFailureError (plus the ErrNoMatch sentinel).
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Callers classify errors with errors.Is against the sentinels and decide
// policy per kind: validation and state-machine kinds surface to the user,
// ErrConcurrencyConflict is retryable, ErrAuditWriteFailure rolls back the
// enclosing transaction.
package errs
