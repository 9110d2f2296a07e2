package audit

import (
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
)

// Snapshot is a flat before/after picture of one entity: canonical string
// values keyed by field name. The field lists are static per entity type so
// the recorder never depends on persistence-framework change tracking.
type Snapshot struct {
	EntityName string
	EntityID   kernel.UUID
	Fields     map[string]string
}

// Static field lists keep diff output deterministic per entity type.
var orderFields = []string{
	"lifecycleStatus",
	"holdOverlay",
	"statusReasonCode",
	"statusOwnerRole",
	"statusNote",
	"statusUpdatedAt",
	"requestedDate",
	"promisedDate",
	"currentCommittedDate",
	"promiseRevisionCount",
	"promiseMissReasonCode",
	"invoiceStagingResult",
	"erpInvoiceReference",
	"invoiceSubmittedAt",
	"openReworkCount",
	"legacyStatus",
	"migratedAt",
}

var lineFields = []string{
	"lineNo",
	"itemID",
	"itemType",
	"quantity",
	"shipViaID",
	"orderPriority",
	"routed",
	"openReworkCount",
}

// SnapshotOrder captures the auditable fields of an order. Identifier
// columns are deliberately excluded.
func SnapshotOrder(o *order.Order) Snapshot {
	overlay := ""
	if o.HoldOverlay() != order.OverlayNone {
		overlay = o.HoldOverlay().String()
	}
	return Snapshot{
		EntityName: "Order",
		EntityID:   o.ID(),
		Fields: map[string]string{
			"lifecycleStatus":       o.Status().String(),
			"holdOverlay":           overlay,
			"statusReasonCode":      o.StatusReasonCode(),
			"statusOwnerRole":       string(o.StatusOwnerRole()),
			"statusNote":            o.StatusNote(),
			"statusUpdatedAt":       canonTime(o.StatusUpdatedAt()),
			"requestedDate":         canonTimePtr(o.RequestedDate()),
			"promisedDate":          canonTimePtr(o.PromisedDate()),
			"currentCommittedDate":  canonTimePtr(o.CurrentCommittedDate()),
			"promiseRevisionCount":  canonInt(o.PromiseRevisionCount()),
			"promiseMissReasonCode": o.PromiseMissReasonCode(),
			"invoiceStagingResult":  o.InvoiceStagingResult(),
			"erpInvoiceReference":   o.ErpInvoiceReference(),
			"invoiceSubmittedAt":    canonTimePtr(o.InvoiceSubmittedAt()),
			"openReworkCount":       canonInt(o.OpenReworkCount()),
			"legacyStatus":          o.LegacyStatus(),
			"migratedAt":            canonTimePtr(o.MigratedAt()),
		},
	}
}

// SnapshotLine captures the auditable fields of an order line.
func SnapshotLine(l *order.Line) Snapshot {
	return Snapshot{
		EntityName: "OrderLine",
		EntityID:   l.ID(),
		Fields: map[string]string{
			"lineNo":          canonInt(l.LineNo()),
			"itemID":          l.ItemID().String(),
			"itemType":        l.ItemType(),
			"quantity":        canonInt(l.Quantity()),
			"shipViaID":       canonUUIDPtr(l.ShipViaID()),
			"orderPriority":   canonIntPtr(l.OrderPriority()),
			"routed":          canonBool(l.Routed()),
			"openReworkCount": canonInt(l.OpenReworkCount()),
		},
	}
}

func fieldsFor(entityName string) []string {
	if entityName == "OrderLine" {
		return lineFields
	}
	return orderFields
}
