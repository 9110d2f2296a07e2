package audit

import (
	"time"
	"unicode/utf8"

	"cylindertrack/internal/core/domain/model/kernel"
)

// maxValueLength caps stored old/new values. Longer values are truncated,
// never rejected.
const maxValueLength = 4000

// ActionType classifies the persistence operation a record belongs to.
type ActionType string

const (
	ActionInsert ActionType = "Insert"
	ActionUpdate ActionType = "Update"
	ActionDelete ActionType = "Delete"
)

// Record is one immutable field-level audit row. OldValue is nil on insert,
// NewValue is nil on delete.
type Record struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	EntityName    string
	EntityID      kernel.UUID
	FieldName     string
	OldValue      *string
	NewValue      *string
	ActionType    ActionType
	ActorEmpNo    string
	ActorRole     kernel.Role
	Source        string
	CorrelationID kernel.UUID
	OccurredAt    time.Time
}

// Recorder turns before/after snapshots into audit records. It never blocks
// the primary write: missing actor context falls back to the unspecified
// source with a fresh correlation id (kernel.ActorFromContext handles that
// before the actor reaches this point).
type Recorder struct{}

// NewRecorder creates a new Recorder instance.
func NewRecorder() Recorder {
	return Recorder{}
}

// DiffUpdate compares two snapshots of the same entity and returns one
// record per changed field. Fields whose canonical values are equal produce
// no row, so a save with no real deltas yields an empty batch.
func (r Recorder) DiffUpdate(orderID kernel.UUID, before, after Snapshot, actor kernel.Actor) []Record {
	now := time.Now().UTC()
	var records []Record
	for _, field := range fieldsFor(after.EntityName) {
		oldVal := truncate(before.Fields[field])
		newVal := truncate(after.Fields[field])
		if oldVal == newVal {
			continue
		}
		records = append(records, baseRecord(orderID, after, field, &oldVal, &newVal, ActionUpdate, actor, now))
	}
	return records
}

// ForInsert returns one record per captured field with OldValue nil.
func (r Recorder) ForInsert(orderID kernel.UUID, snap Snapshot, actor kernel.Actor) []Record {
	now := time.Now().UTC()
	var records []Record
	for _, field := range fieldsFor(snap.EntityName) {
		newVal := truncate(snap.Fields[field])
		records = append(records, baseRecord(orderID, snap, field, nil, &newVal, ActionInsert, actor, now))
	}
	return records
}

// ForDelete returns one record per captured field with NewValue nil.
func (r Recorder) ForDelete(orderID kernel.UUID, snap Snapshot, actor kernel.Actor) []Record {
	now := time.Now().UTC()
	var records []Record
	for _, field := range fieldsFor(snap.EntityName) {
		oldVal := truncate(snap.Fields[field])
		records = append(records, baseRecord(orderID, snap, field, &oldVal, nil, ActionDelete, actor, now))
	}
	return records
}

func baseRecord(
	orderID kernel.UUID,
	snap Snapshot,
	field string,
	oldVal, newVal *string,
	action ActionType,
	actor kernel.Actor,
	now time.Time,
) Record {
	return Record{
		ID:            kernel.NewUUID(),
		OrderID:       orderID,
		EntityName:    snap.EntityName,
		EntityID:      snap.EntityID,
		FieldName:     field,
		OldValue:      oldVal,
		NewValue:      newVal,
		ActionType:    action,
		ActorEmpNo:    actor.EmpNo,
		ActorRole:     actor.Role,
		Source:        actor.Source,
		CorrelationID: actor.CorrelationID,
		OccurredAt:    now,
	}
}

func truncate(v string) string {
	if len(v) <= maxValueLength {
		return v
	}
	// Back up to a rune boundary so a multi-byte character is dropped
	// whole instead of leaving an invalid tail.
	cut := maxValueLength
	for cut > 0 && !utf8.RuneStart(v[cut]) {
		cut--
	}
	return v[:cut]
}
