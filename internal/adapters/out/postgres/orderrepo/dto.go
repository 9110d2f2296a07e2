// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The version column backs optimistic concurrency: every update carries the
// expected version in its predicate and writes version+1.
type OrderDTO struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNo                string    `gorm:"uniqueIndex"`
	CustomerID             uuid.UUID `gorm:"type:uuid;index"`
	SiteID                 uuid.UUID `gorm:"type:uuid;index"`
	LifecycleStatus        int       `gorm:"index"`
	HoldOverlay            int
	StatusReasonCode       string
	StatusOwnerRole        string
	StatusNote             string
	StatusUpdatedAt        time.Time
	RequestedDate          *time.Time
	PromisedDate           *time.Time
	CurrentCommittedDate   *time.Time
	PromiseRevisionCount   int
	PromiseMissReasonCode  string
	CustomerReadyRetryUtc  *time.Time `gorm:"index"`
	CustomerLastContactUtc *time.Time
	CustomerContactName    string
	InvoiceCorrelationID   *uuid.UUID `gorm:"type:uuid"`
	InvoiceStagingResult   string
	ErpInvoiceReference    string
	InvoiceSubmittedAt     *time.Time
	OpenReworkCount        int
	LegacyStatus           string
	MigratedAt             *time.Time
	Version                int

	Lines  []LineDTO          `gorm:"foreignKey:OrderID"`
	Rework []ReworkRequestDTO `gorm:"foreignKey:OrderID"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO represents one order line row.
type LineDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;index"`
	LineNo          int
	ItemID          uuid.UUID `gorm:"type:uuid"`
	ItemType        string
	Quantity        int
	ShipViaID       *uuid.UUID `gorm:"type:uuid"`
	OrderPriority   *int
	Routed          bool
	OpenReworkCount int
}

// TableName specifies the database table name for order line entities.
func (LineDTO) TableName() string {
	return "order_lines"
}

// ReworkRequestDTO represents one rework request row. Open requests carry a
// NULL closed_at; closing updates the row in place.
type ReworkRequestDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	OrderLineID uuid.UUID `gorm:"type:uuid;index"`
	ReasonCode  string
	RequestedBy string
	Note        string
	OpenedAt    time.Time
	ClosedAt    *time.Time
	ClosedBy    string
}

// TableName specifies the database table name for rework request entities.
func (ReworkRequestDTO) TableName() string {
	return "rework_requests"
}

// LifecycleEventDTO is one append-only row of the order lifecycle log.
type LifecycleEventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	EventType  string
	FromStatus string
	ToStatus   string
	Overlay    string
	ReasonCode string
	ActorEmpNo string
	ActorRole  string
	Note       string
	OccurredAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for lifecycle events.
func (LifecycleEventDTO) TableName() string {
	return "order_lifecycle_events"
}

// PromiseChangeEventDTO is one append-only promise revision row.
type PromiseChangeEventDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	PreviousDate *time.Time
	NewDate      time.Time
	ReasonCode   string
	RevisionNo   int
	ActorEmpNo   string
	OccurredAt   time.Time `gorm:"index"`
}

// TableName specifies the database table name for promise change events.
func (PromiseChangeEventDTO) TableName() string {
	return "order_promise_change_events"
}

// fromDomain converts an order domain aggregate to its database
// representation, lines included.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                    aggregate.ID().Bytes(),
		OrderNo:               aggregate.OrderNo(),
		CustomerID:            aggregate.CustomerID().Bytes(),
		SiteID:                aggregate.SiteID().Bytes(),
		LifecycleStatus:       int(aggregate.Status()),
		HoldOverlay:           int(aggregate.HoldOverlay()),
		StatusReasonCode:      aggregate.StatusReasonCode(),
		StatusOwnerRole:       string(aggregate.StatusOwnerRole()),
		StatusNote:            aggregate.StatusNote(),
		StatusUpdatedAt:       aggregate.StatusUpdatedAt(),
		RequestedDate:         aggregate.RequestedDate(),
		PromisedDate:          aggregate.PromisedDate(),
		CurrentCommittedDate:  aggregate.CurrentCommittedDate(),
		PromiseRevisionCount:  aggregate.PromiseRevisionCount(),
		PromiseMissReasonCode: aggregate.PromiseMissReasonCode(),
		InvoiceCorrelationID:  optionalUUIDBytes(aggregate.InvoiceCorrelationID()),
		InvoiceStagingResult:  aggregate.InvoiceStagingResult(),
		ErpInvoiceReference:   aggregate.ErpInvoiceReference(),
		InvoiceSubmittedAt:    aggregate.InvoiceSubmittedAt(),
		OpenReworkCount:       aggregate.OpenReworkCount(),
		LegacyStatus:          aggregate.LegacyStatus(),
		MigratedAt:            aggregate.MigratedAt(),
		Version:               aggregate.Version(),
	}

	if hold := aggregate.CustomerHold(); hold != nil {
		retry := hold.ReadyRetryUtc
		contact := hold.LastContactUtc
		dto.CustomerReadyRetryUtc = &retry
		dto.CustomerLastContactUtc = &contact
		dto.CustomerContactName = hold.ContactName
	}

	for _, line := range aggregate.Lines() {
		dto.Lines = append(dto.Lines, lineFromDomain(line))
	}
	for _, request := range aggregate.ReworkRequests() {
		dto.Rework = append(dto.Rework, reworkFromDomain(request))
	}

	return dto
}

func reworkFromDomain(request *order.ReworkRequest) ReworkRequestDTO {
	return ReworkRequestDTO{
		ID:          request.ID().Bytes(),
		OrderID:     request.OrderID().Bytes(),
		OrderLineID: request.OrderLineID().Bytes(),
		ReasonCode:  request.ReasonCode(),
		RequestedBy: request.RequestedBy(),
		Note:        request.Note(),
		OpenedAt:    request.OpenedAt(),
		ClosedAt:    request.ClosedAt(),
		ClosedBy:    request.ClosedBy(),
	}
}

func lifecycleEventFromDomain(event order.LifecycleEvent) LifecycleEventDTO {
	return LifecycleEventDTO{
		ID:         event.ID.Bytes(),
		OrderID:    event.OrderID.Bytes(),
		EventType:  string(event.EventType),
		FromStatus: event.FromStatus,
		ToStatus:   event.ToStatus,
		Overlay:    event.Overlay,
		ReasonCode: event.ReasonCode,
		ActorEmpNo: event.ActorEmpNo,
		ActorRole:  string(event.ActorRole),
		Note:       event.Note,
		OccurredAt: event.OccurredAt,
	}
}

func promiseEventFromDomain(event order.PromiseChangeEvent) PromiseChangeEventDTO {
	return PromiseChangeEventDTO{
		ID:           event.ID.Bytes(),
		OrderID:      event.OrderID.Bytes(),
		PreviousDate: event.PreviousDate,
		NewDate:      event.NewDate,
		ReasonCode:   event.ReasonCode,
		RevisionNo:   event.RevisionNo,
		ActorEmpNo:   event.ActorEmpNo,
		OccurredAt:   event.OccurredAt,
	}
}

func lineFromDomain(line *order.Line) LineDTO {
	return LineDTO{
		ID:              line.ID().Bytes(),
		OrderID:         line.OrderID().Bytes(),
		LineNo:          line.LineNo(),
		ItemID:          line.ItemID().Bytes(),
		ItemType:        line.ItemType(),
		Quantity:        line.Quantity(),
		ShipViaID:       optionalUUIDBytes(line.ShipViaID()),
		OrderPriority:   line.OrderPriority(),
		Routed:          line.Routed(),
		OpenReworkCount: line.OpenReworkCount(),
	}
}

// toDomain reconstructs the complete aggregate, auxiliary columns and lines
// included, using the domain restore factories.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	siteID, err := kernel.UUIDFromBytes(dto.SiteID[:])
	if err != nil {
		return nil, err
	}

	aggregate, err := order.RestoreOrder(
		id,
		dto.OrderNo,
		customerID,
		siteID,
		order.Status(dto.LifecycleStatus),
		order.Overlay(dto.HoldOverlay),
		dto.StatusReasonCode,
		kernel.Role(dto.StatusOwnerRole),
		dto.StatusNote,
		dto.StatusUpdatedAt,
		dto.Version,
	)
	if err != nil {
		return nil, err
	}

	var hold *order.CustomerHoldDetails
	if dto.CustomerReadyRetryUtc != nil && dto.CustomerLastContactUtc != nil {
		hold = &order.CustomerHoldDetails{
			ReadyRetryUtc:  *dto.CustomerReadyRetryUtc,
			LastContactUtc: *dto.CustomerLastContactUtc,
			ContactName:    dto.CustomerContactName,
		}
	}

	invoiceCorrelationID, err := optionalUUID(dto.InvoiceCorrelationID)
	if err != nil {
		return nil, err
	}

	aggregate.RestoreAuxiliary(
		hold,
		dto.RequestedDate,
		dto.PromisedDate,
		dto.CurrentCommittedDate,
		dto.PromiseRevisionCount,
		dto.PromiseMissReasonCode,
		invoiceCorrelationID,
		dto.InvoiceStagingResult,
		dto.ErpInvoiceReference,
		dto.InvoiceSubmittedAt,
		dto.OpenReworkCount,
		dto.LegacyStatus,
		dto.MigratedAt,
	)

	lines := make([]*order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		line, lineErr := lineToDomain(lineDTO)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}
	if err = aggregate.AttachLines(lines); err != nil {
		return nil, err
	}

	requests := make([]*order.ReworkRequest, 0, len(dto.Rework))
	for _, reworkDTO := range dto.Rework {
		request, reworkErr := reworkToDomain(reworkDTO)
		if reworkErr != nil {
			return nil, reworkErr
		}
		requests = append(requests, request)
	}
	if err = aggregate.AttachReworkRequests(requests); err != nil {
		return nil, err
	}

	return aggregate, nil
}

func reworkToDomain(dto ReworkRequestDTO) (*order.ReworkRequest, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	orderLineID, err := kernel.UUIDFromBytes(dto.OrderLineID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreReworkRequest(
		id,
		orderID,
		orderLineID,
		dto.ReasonCode,
		dto.RequestedBy,
		dto.Note,
		dto.OpenedAt,
		dto.ClosedAt,
		dto.ClosedBy,
	)
}

func lineToDomain(dto LineDTO) (*order.Line, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}
	shipViaID, err := optionalUUID(dto.ShipViaID)
	if err != nil {
		return nil, err
	}

	return order.RestoreLine(
		id,
		orderID,
		dto.LineNo,
		itemID,
		dto.ItemType,
		dto.Quantity,
		shipViaID,
		dto.OrderPriority,
		dto.Routed,
		dto.OpenReworkCount,
	)
}

func optionalUUIDBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
