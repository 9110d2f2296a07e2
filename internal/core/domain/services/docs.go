// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the tracking system. It
// implements logic that doesn't naturally belong to a single aggregate root.
//
// The package includes:
//   - AssignmentResolver: picks the single route assignment governing an
//     order line from a prioritized, time-windowed rule set
//   - LegacyStatusMigrator: maps the retired short status vocabulary onto
//     the lifecycle enum for the one-time backfill
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
