package order

import (
	"errors"
	"fmt"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for one customer sales order of cylinders. It
// owns the lifecycle status state machine, the hold-overlay tag, promise-date
// governance, its lines, and the in-memory tail of the lifecycle event log.
//
// Invariants:
//   - lifecycleStatus moves only to its immediate successor, and into
//     ProductionComplete only through a recorded supervisor decision
//   - an active blocking overlay stops every forward transition
//   - holdOverlay != None implies statusReasonCode and statusOwnerRole are set
//   - openReworkCount > 0 blocks the transition into InvoiceReady
//   - an order with routed lines is never physically deleted
type Order struct {
	id         kernel.UUID
	orderNo    string
	customerID kernel.UUID
	siteID     kernel.UUID

	lifecycleStatus Status
	holdOverlay     Overlay
	statusReason    string
	statusOwnerRole kernel.Role
	statusNote      string
	statusUpdatedAt time.Time
	customerHold    *CustomerHoldDetails

	requestedDate         *time.Time
	promisedDate          *time.Time
	currentCommittedDate  *time.Time
	promiseRevisionCount  int
	promiseMissReasonCode string

	invoiceCorrelationID *kernel.UUID
	invoiceStagingResult string
	erpInvoiceReference  string
	invoiceSubmittedAt   *time.Time

	openReworkCount int
	legacyStatus    string
	migratedAt      *time.Time

	version int

	lines                []*Line
	reworkRequests       []*ReworkRequest
	pendingEvents        []LifecycleEvent
	pendingPromiseEvents []PromiseChangeEvent

	isConstructed bool
}

// NewOrder creates a new order in Draft status. This is the only entry point
// for order entry; all other states are reached through transitions.
func NewOrder(id kernel.UUID, orderNo string, customerID, siteID kernel.UUID, requestedDate *time.Time) (*Order, error) {
	o := &Order{
		lifecycleStatus: Draft,
		holdOverlay:     OverlayNone,
		statusUpdatedAt: time.Now().UTC(),
		requestedDate:   requestedDate,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNo(orderNo),
		o.setCustomerID(customerID),
		o.setSiteID(siteID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence. The stored state is
// validated so corrupt rows surface as errors instead of invalid aggregates.
func RestoreOrder(
	id kernel.UUID,
	orderNo string,
	customerID, siteID kernel.UUID,
	status Status,
	overlay Overlay,
	statusReason string,
	statusOwnerRole kernel.Role,
	statusNote string,
	statusUpdatedAt time.Time,
	version int,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := overlay.Validate(); err != nil {
		return nil, err
	}
	if overlay != OverlayNone && (statusReason == "" || statusOwnerRole == kernel.RoleUnspecified) {
		return nil, errs.NewValueIsRequiredErrorWithCause("statusReasonCode",
			fmt.Errorf("overlay %s requires a reason code and owner role", overlay))
	}

	o := &Order{
		lifecycleStatus: status,
		holdOverlay:     overlay,
		statusReason:    statusReason,
		statusOwnerRole: statusOwnerRole,
		statusNote:      statusNote,
		statusUpdatedAt: statusUpdatedAt,
		version:         version,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNo(orderNo),
		o.setCustomerID(customerID),
		o.setSiteID(siteID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was created through a factory method.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// OrderNo returns the human-facing order number.
func (o *Order) OrderNo() string { return o.orderNo }

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// SiteID returns the plant site the order is worked at.
func (o *Order) SiteID() kernel.UUID { return o.siteID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.lifecycleStatus }

// HoldOverlay returns the active overlay, OverlayNone when clear.
func (o *Order) HoldOverlay() Overlay { return o.holdOverlay }

// StatusReasonCode returns the reason code recorded with the active overlay.
func (o *Order) StatusReasonCode() string { return o.statusReason }

// StatusOwnerRole returns the role that applied the active overlay.
func (o *Order) StatusOwnerRole() kernel.Role { return o.statusOwnerRole }

// StatusNote returns the free-text note recorded with the last status change.
func (o *Order) StatusNote() string { return o.statusNote }

// StatusUpdatedAt returns when the status or overlay last changed.
func (o *Order) StatusUpdatedAt() time.Time { return o.statusUpdatedAt }

// CustomerHold returns the customer-contact payload of an active
// OnHoldCustomer overlay, nil otherwise.
func (o *Order) CustomerHold() *CustomerHoldDetails { return o.customerHold }

// RequestedDate returns the customer's requested date.
func (o *Order) RequestedDate() *time.Time { return o.requestedDate }

// PromisedDate returns the originally promised date.
func (o *Order) PromisedDate() *time.Time { return o.promisedDate }

// CurrentCommittedDate returns the currently committed promise date.
func (o *Order) CurrentCommittedDate() *time.Time { return o.currentCommittedDate }

// PromiseRevisionCount returns how many times the committed date was revised.
func (o *Order) PromiseRevisionCount() int { return o.promiseRevisionCount }

// PromiseMissReasonCode returns the reason recorded for the last promise slip.
func (o *Order) PromiseMissReasonCode() string { return o.promiseMissReasonCode }

// InvoiceCorrelationID returns the idempotency key of the invoice submission.
func (o *Order) InvoiceCorrelationID() *kernel.UUID { return o.invoiceCorrelationID }

// InvoiceStagingResult returns the recorded ERP staging outcome.
func (o *Order) InvoiceStagingResult() string { return o.invoiceStagingResult }

// ErpInvoiceReference returns the ERP invoice reference, if one was returned.
func (o *Order) ErpInvoiceReference() string { return o.erpInvoiceReference }

// InvoiceSubmittedAt returns when the invoice submission was recorded.
func (o *Order) InvoiceSubmittedAt() *time.Time { return o.invoiceSubmittedAt }

// OpenReworkCount returns the number of rework requests open on the order.
func (o *Order) OpenReworkCount() int { return o.openReworkCount }

// LegacyStatus returns the pre-migration status vocabulary value, if any.
func (o *Order) LegacyStatus() string { return o.legacyStatus }

// MigratedAt returns when the legacy status backfill ran for this order.
func (o *Order) MigratedAt() *time.Time { return o.migratedAt }

// Version returns the optimistic-concurrency version of the row.
func (o *Order) Version() int { return o.version }

// BumpVersion moves the in-memory version forward after the repository
// persisted the aggregate under version+1. Without it a second update of the
// same loaded aggregate would carry a stale version predicate.
func (o *Order) BumpVersion() { o.version++ }

// Lines returns the order's lines.
func (o *Order) Lines() []*Line { return o.lines }

// Line returns the line with the given ID, or an ObjectNotFoundError.
func (o *Order) Line(lineID kernel.UUID) (*Line, error) {
	for _, l := range o.lines {
		if l.ID().IsEqual(lineID) {
			return l, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderLine", lineID.String())
}

// AddLine appends a new line to the order. Lines may only be added before
// production starts.
func (o *Order) AddLine(
	lineID kernel.UUID,
	itemID kernel.UUID,
	itemType string,
	quantity int,
	shipViaID *kernel.UUID,
	orderPriority *int,
) (*Line, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.lifecycleStatus >= InProduction {
		return nil, errs.NewValueIsInvalidErrorWithCause("lineNo",
			fmt.Errorf("cannot add lines in status %s", o.lifecycleStatus))
	}

	line, err := NewLine(lineID, o.id, len(o.lines)+1, itemID, itemType, quantity, shipViaID, orderPriority)
	if err != nil {
		return nil, err
	}
	o.lines = append(o.lines, line)
	return line, nil
}

// AttachLines installs restored lines on a restored order. Used by the
// repository only; panics are avoided by validating the parent link.
func (o *Order) AttachLines(lines []*Line) error {
	for _, l := range lines {
		if !l.OrderID().IsEqual(o.id) {
			return errs.NewValueIsInvalidError("line belongs to a different order")
		}
	}
	o.lines = lines
	return nil
}

// ForwardBlocked reports whether forward lifecycle transitions are currently
// blocked, and by what.
func (o *Order) ForwardBlocked() (bool, string) {
	if o.holdOverlay.BlocksForwardTransitions() {
		return true, fmt.Sprintf("hold overlay %s is active", o.holdOverlay)
	}
	return false, ""
}

// Advance moves the order to target, which must be the immediate successor of
// the current status. It fails with:
//   - InvalidTransitionError when target is not the immediate successor
//   - BlockedError when a blocking overlay is active, when target is
//     InvoiceReady with open rework, or when target is ProductionComplete
//     (only a recorded supervisor decision reaches that status)
//
// Role authorization is checked by the caller against the policy store before
// invoking Advance. On success the status and timestamp are updated and a
// StatusChanged event is appended.
func (o *Order) Advance(target Status, actor kernel.Actor) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.lifecycleStatus.Advance(target)
	if err != nil {
		return err
	}

	if blocked, reason := o.ForwardBlocked(); blocked {
		return errs.NewBlockedError(reason)
	}
	if target == ProductionComplete {
		return errs.NewBlockedError("a recorded supervisor decision is required to complete production")
	}
	if target == InvoiceReady && o.openReworkCount > 0 {
		return errs.NewBlockedError(fmt.Sprintf("%d open rework request(s) block invoice readiness", o.openReworkCount))
	}

	from := o.lifecycleStatus
	o.lifecycleStatus = newStatus
	o.statusUpdatedAt = time.Now().UTC()
	o.appendEvent(EventStatusChanged, from.String(), newStatus.String(), "", "", actor, "")

	return nil
}

// ApproveProduction records a supervisor approval, completing production.
// Allowed only from ProductionCompletePendingApproval.
func (o *Order) ApproveProduction(actor kernel.Actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.lifecycleStatus != ProductionCompletePendingApproval {
		return errs.NewInvalidTransitionError(o.lifecycleStatus.String(), ProductionComplete.String())
	}
	if blocked, reason := o.ForwardBlocked(); blocked {
		return errs.NewBlockedError(reason)
	}

	from := o.lifecycleStatus
	o.lifecycleStatus = ProductionComplete
	o.statusUpdatedAt = time.Now().UTC()
	o.appendEvent(EventSupervisorApproved, from.String(), ProductionComplete.String(), "", "", actor, note)
	return nil
}

// RejectProduction records a supervisor rejection, reopening production.
// Allowed only from ProductionCompletePendingApproval.
func (o *Order) RejectProduction(actor kernel.Actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.lifecycleStatus != ProductionCompletePendingApproval {
		return errs.NewInvalidTransitionError(o.lifecycleStatus.String(), InProduction.String())
	}

	from := o.lifecycleStatus
	o.lifecycleStatus = InProduction
	o.statusUpdatedAt = time.Now().UTC()
	o.appendEvent(EventSupervisorRejected, from.String(), InProduction.String(), "", "", actor, note)
	return nil
}

// ApplyOverlay sets a hold overlay on the order. Exactly one overlay may be
// active: applying while one is already set fails. The reason code must be
// non-empty (catalog membership is checked by the caller against the active
// reason-code policy), and OnHoldCustomer requires a complete
// CustomerHoldDetails payload.
func (o *Order) ApplyOverlay(
	overlay Overlay,
	reasonCode string,
	actor kernel.Actor,
	note string,
	details *CustomerHoldDetails,
) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := overlay.Validate(); err != nil {
		return err
	}
	if overlay == OverlayNone {
		return errs.NewValueIsInvalidError("overlay")
	}
	if o.holdOverlay != OverlayNone {
		return errs.NewValueIsInvalidErrorWithCause("overlay",
			fmt.Errorf("overlay %s is already active", o.holdOverlay))
	}
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reasonCode")
	}
	if overlay.RequiresCustomerContact() {
		if details == nil {
			return errs.NewValueIsRequiredError("customerHoldDetails")
		}
		if err := details.Validate(); err != nil {
			return err
		}
	}

	o.holdOverlay = overlay
	o.statusReason = reasonCode
	o.statusOwnerRole = actor.Role
	o.statusNote = note
	o.statusUpdatedAt = time.Now().UTC()
	if overlay.RequiresCustomerContact() {
		copied := *details
		o.customerHold = &copied
	}
	o.appendEvent(EventOverlayApplied, "", "", overlay.String(), reasonCode, actor, note)

	return nil
}

// ClearOverlay removes the active overlay. Clearing when none is active fails.
func (o *Order) ClearOverlay(actor kernel.Actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.holdOverlay == OverlayNone {
		return errs.NewValueIsInvalidError("no overlay is active")
	}

	cleared := o.holdOverlay
	o.holdOverlay = OverlayNone
	o.statusReason = ""
	o.statusOwnerRole = kernel.RoleUnspecified
	o.statusNote = ""
	o.statusUpdatedAt = time.Now().UTC()
	o.customerHold = nil
	o.appendEvent(EventOverlayCleared, "", "", cleared.String(), "", actor, note)

	return nil
}

// SetPromisedDate records the initial promise. Allowed once, before any
// revision exists.
func (o *Order) SetPromisedDate(date time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.promisedDate != nil {
		return errs.NewValueIsInvalidError("promisedDate is already set")
	}
	d := date.UTC()
	o.promisedDate = &d
	o.currentCommittedDate = &d
	return nil
}

// RevisePromiseDate moves the committed date, bumping the revision counter
// and appending a PromiseChangeEvent. A revision past the original promise
// requires a miss reason code.
func (o *Order) RevisePromiseDate(newDate time.Time, reasonCode string, actor kernel.Actor) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.promisedDate == nil {
		return errs.NewValueIsRequiredError("promisedDate")
	}
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reasonCode")
	}

	previous := o.currentCommittedDate
	d := newDate.UTC()
	o.currentCommittedDate = &d
	o.promiseRevisionCount++
	if d.After(*o.promisedDate) {
		o.promiseMissReasonCode = reasonCode
	}

	o.pendingPromiseEvents = append(o.pendingPromiseEvents, PromiseChangeEvent{
		ID:           kernel.NewUUID(),
		OrderID:      o.id,
		PreviousDate: previous,
		NewDate:      d,
		ReasonCode:   reasonCode,
		RevisionNo:   o.promiseRevisionCount,
		ActorEmpNo:   actor.EmpNo,
		OccurredAt:   time.Now().UTC(),
	})
	o.appendEvent(EventPromiseRevised, "", "", "", reasonCode, actor, "")

	return nil
}

// OpenRework records a rework request against the given line and bumps the
// open-rework counters on the order and the line. While any rework is open
// the transition into InvoiceReady is blocked.
func (o *Order) OpenRework(lineID kernel.UUID, reasonCode string, actor kernel.Actor) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if reasonCode == "" {
		return errs.NewValueIsRequiredError("reasonCode")
	}
	line, err := o.Line(lineID)
	if err != nil {
		return err
	}

	o.reworkRequests = append(o.reworkRequests, newReworkRequest(o.id, lineID, reasonCode, actor.EmpNo))
	line.openReworkCount++
	o.openReworkCount++
	o.appendEvent(EventReworkOpened, "", "", "", reasonCode, actor, "")
	return nil
}

// CloseRework closes the oldest open rework request for the given line and
// decrements the open-rework counters.
func (o *Order) CloseRework(lineID kernel.UUID, actor kernel.Actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	line, err := o.Line(lineID)
	if err != nil {
		return err
	}

	var open *ReworkRequest
	for _, request := range o.reworkRequests {
		if request.Open() && request.OrderLineID().IsEqual(lineID) {
			open = request
			break
		}
	}
	if open == nil || line.openReworkCount == 0 || o.openReworkCount == 0 {
		return errs.NewValueIsInvalidError("no rework is open for the line")
	}

	open.close(actor.EmpNo, note)
	line.openReworkCount--
	o.openReworkCount--
	o.appendEvent(EventReworkClosed, "", "", "", "", actor, note)
	return nil
}

// ReworkRequests returns every rework request ever recorded on the order,
// open and closed, oldest first.
func (o *Order) ReworkRequests() []*ReworkRequest { return o.reworkRequests }

// AttachReworkRequests installs restored rework requests on a restored
// order. Used by the repository only.
func (o *Order) AttachReworkRequests(requests []*ReworkRequest) error {
	for _, request := range requests {
		if !request.OrderID().IsEqual(o.id) {
			return errs.NewValueIsInvalidError("reworkRequest does not belong to the order")
		}
	}
	o.reworkRequests = requests
	return nil
}

// RecordInvoiceSubmission stores the result handed back by the ERP staging
// adapter for the submission keyed by correlationID.
func (o *Order) RecordInvoiceSubmission(correlationID kernel.UUID, stagingResult, erpReference string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := correlationID.Validate(); err != nil {
		return err
	}
	if o.lifecycleStatus != InvoiceReady {
		return errs.NewInvalidTransitionError(o.lifecycleStatus.String(), Invoiced.String())
	}

	now := time.Now().UTC()
	o.invoiceCorrelationID = &correlationID
	o.invoiceStagingResult = stagingResult
	o.erpInvoiceReference = erpReference
	o.invoiceSubmittedAt = &now
	return nil
}

// RestoreAuxiliary installs the slow-changing columns on a restored order.
// Repository use only.
func (o *Order) RestoreAuxiliary(
	customerHold *CustomerHoldDetails,
	requestedDate, promisedDate, currentCommittedDate *time.Time,
	promiseRevisionCount int,
	promiseMissReasonCode string,
	invoiceCorrelationID *kernel.UUID,
	invoiceStagingResult, erpInvoiceReference string,
	invoiceSubmittedAt *time.Time,
	openReworkCount int,
	legacyStatus string,
	migratedAt *time.Time,
) {
	o.customerHold = customerHold
	o.requestedDate = requestedDate
	o.promisedDate = promisedDate
	o.currentCommittedDate = currentCommittedDate
	o.promiseRevisionCount = promiseRevisionCount
	o.promiseMissReasonCode = promiseMissReasonCode
	o.invoiceCorrelationID = invoiceCorrelationID
	o.invoiceStagingResult = invoiceStagingResult
	o.erpInvoiceReference = erpInvoiceReference
	o.invoiceSubmittedAt = invoiceSubmittedAt
	o.openReworkCount = openReworkCount
	o.legacyStatus = legacyStatus
	o.migratedAt = migratedAt
}

// MarkMigrated records the result of the one-time legacy status backfill.
// An already-migrated order is never silently overwritten.
func (o *Order) MarkMigrated(legacyStatus string, mapped Status, ruleApplied string, actor kernel.Actor) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.migratedAt != nil {
		return errs.NewValueIsInvalidError("order is already migrated")
	}
	if err := mapped.Validate(); err != nil {
		return err
	}

	from := o.lifecycleStatus
	now := time.Now().UTC()
	o.legacyStatus = legacyStatus
	o.lifecycleStatus = mapped
	o.migratedAt = &now
	o.statusUpdatedAt = now
	o.appendEvent(EventStatusMigrated, from.String(), mapped.String(), "", ruleApplied, actor, "")
	return nil
}

// PendingEvents returns the lifecycle events accumulated since the order was
// loaded. The repository persists and then clears them via ClearPendingEvents.
func (o *Order) PendingEvents() []LifecycleEvent { return o.pendingEvents }

// PendingPromiseEvents returns accumulated promise change events.
func (o *Order) PendingPromiseEvents() []PromiseChangeEvent { return o.pendingPromiseEvents }

// ClearPendingEvents drops the accumulated events after they were persisted.
func (o *Order) ClearPendingEvents() {
	o.pendingEvents = nil
	o.pendingPromiseEvents = nil
}

func (o *Order) appendEvent(
	eventType EventType,
	from, to, overlay, reasonCode string,
	actor kernel.Actor,
	note string,
) {
	o.pendingEvents = append(o.pendingEvents, LifecycleEvent{
		ID:         kernel.NewUUID(),
		OrderID:    o.id,
		EventType:  eventType,
		FromStatus: from,
		ToStatus:   to,
		Overlay:    overlay,
		ReasonCode: reasonCode,
		ActorEmpNo: actor.EmpNo,
		ActorRole:  actor.Role,
		Note:       note,
		OccurredAt: time.Now().UTC(),
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNo(orderNo string) error {
	if orderNo == "" {
		return errs.NewValueIsRequiredError("orderNo")
	}
	o.orderNo = orderNo
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setSiteID(siteID kernel.UUID) error {
	if err := siteID.Validate(); err != nil {
		return err
	}
	o.siteID = siteID
	return nil
}
