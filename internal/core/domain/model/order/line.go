package order

import (
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// Line is one sales-order line: an item in some quantity moving through
// refurbishment together. Routing happens per line; the order owns its lines.
type Line struct {
	id              kernel.UUID
	orderID         kernel.UUID
	lineNo          int
	itemID          kernel.UUID
	itemType        string
	quantity        int
	shipViaID       *kernel.UUID
	orderPriority   *int
	routed          bool
	openReworkCount int
}

// NewLine creates a validated order line. Called through Order.AddLine so the
// parent link is always consistent.
func NewLine(
	id kernel.UUID,
	orderID kernel.UUID,
	lineNo int,
	itemID kernel.UUID,
	itemType string,
	quantity int,
	shipViaID *kernel.UUID,
	orderPriority *int,
) (*Line, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := itemID.Validate(); err != nil {
		return nil, err
	}
	if lineNo <= 0 {
		return nil, errs.NewValueIsInvalidError("lineNo")
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidError("quantity")
	}

	return &Line{
		id:            id,
		orderID:       orderID,
		lineNo:        lineNo,
		itemID:        itemID,
		itemType:      itemType,
		quantity:      quantity,
		shipViaID:     shipViaID,
		orderPriority: orderPriority,
	}, nil
}

// RestoreLine reconstructs a line from persistence without re-running
// creation-time validation side effects.
func RestoreLine(
	id kernel.UUID,
	orderID kernel.UUID,
	lineNo int,
	itemID kernel.UUID,
	itemType string,
	quantity int,
	shipViaID *kernel.UUID,
	orderPriority *int,
	routed bool,
	openReworkCount int,
) (*Line, error) {
	line, err := NewLine(id, orderID, lineNo, itemID, itemType, quantity, shipViaID, orderPriority)
	if err != nil {
		return nil, err
	}
	line.routed = routed
	line.openReworkCount = openReworkCount
	return line, nil
}

// ID returns the line's unique identifier.
func (l *Line) ID() kernel.UUID { return l.id }

// OrderID returns the owning order's identifier.
func (l *Line) OrderID() kernel.UUID { return l.orderID }

// LineNo returns the 1-based position of the line on the order.
func (l *Line) LineNo() int { return l.lineNo }

// ItemID returns the identifier of the item on the line.
func (l *Line) ItemID() kernel.UUID { return l.itemID }

// ItemType returns the reference-data item type code, if any.
func (l *Line) ItemType() string { return l.itemType }

// Quantity returns the cylinder count on the line.
func (l *Line) Quantity() int { return l.quantity }

// ShipViaID returns the requested ship-via, nil when unspecified.
func (l *Line) ShipViaID() *kernel.UUID { return l.shipViaID }

// OrderPriority returns the line's order priority, nil when unspecified.
func (l *Line) OrderPriority() *int { return l.orderPriority }

// Routed reports whether a route instance has been created for the line.
func (l *Line) Routed() bool { return l.routed }

// OpenReworkCount returns the number of rework requests open against the line.
func (l *Line) OpenReworkCount() int { return l.openReworkCount }

// MarkRouted records that a route instance now exists for the line.
// A line is routed at most once.
func (l *Line) MarkRouted() error {
	if l.routed {
		return errs.NewValueIsInvalidError("line is already routed")
	}
	l.routed = true
	return nil
}
