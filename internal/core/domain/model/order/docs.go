// Package order provides the Order aggregate root for the cylinder tracking
// system: the lifecycle status state machine, the hold-overlay subsystem,
// order lines, promise-date governance, and the append-only lifecycle event
// log.
//
// Key business rules:
//   - The lifecycle is strictly linear: Draft through Invoiced, one immediate
//     successor per status. ProductionComplete is reachable only through a
//     recorded supervisor decision; rejection reopens InProduction.
//   - A hold overlay is orthogonal to the status. While a blocking overlay is
//     active every forward transition fails; clearing it restores progression
//     without touching the underlying status. At most one overlay is active.
//   - An active overlay always carries a reason code and the owning role.
//   - Open rework blocks the transition into InvoiceReady.
//   - Every mutation appends to the lifecycle event log, persisted in the
//     same unit of work as the order itself.
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are
// enforced.
package order
