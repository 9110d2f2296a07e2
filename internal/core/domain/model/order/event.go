package order

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
)

// EventType classifies entries in the append-only order lifecycle log.
type EventType string

const (
	EventStatusChanged      EventType = "StatusChanged"
	EventOverlayApplied     EventType = "OverlayApplied"
	EventOverlayCleared     EventType = "OverlayCleared"
	EventSupervisorApproved EventType = "SupervisorApproved"
	EventSupervisorRejected EventType = "SupervisorRejected"
	EventPromiseRevised     EventType = "PromiseRevised"
	EventReworkOpened       EventType = "ReworkOpened"
	EventReworkClosed       EventType = "ReworkClosed"
	EventStatusMigrated     EventType = "StatusMigrated"
)

// LifecycleEvent is one row of the append-only order lifecycle log. The
// aggregate accumulates events in memory as it mutates; the repository drains
// and persists them within the same unit of work as the order itself.
type LifecycleEvent struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	EventType  EventType
	FromStatus string
	ToStatus   string
	Overlay    string
	ReasonCode string
	ActorEmpNo string
	ActorRole  kernel.Role
	Note       string
	OccurredAt time.Time
}

// PromiseChangeEvent records one revision of the committed promise date.
// Append-only, exposed read-only to reporting collaborators.
type PromiseChangeEvent struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	PreviousDate *time.Time
	NewDate      time.Time
	ReasonCode   string
	RevisionNo   int
	ActorEmpNo   string
	OccurredAt   time.Time
}
