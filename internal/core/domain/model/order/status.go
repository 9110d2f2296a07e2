package order

import (
	"fmt"

	"cylindertrack/internal/pkg/errs"
)

// Status represents the coarse, forward-moving workflow stage of an order.
// It implements a strictly linear state machine: every status has exactly one
// successor, and Advance only accepts the immediate successor. Backward
// movement happens only through the supervisor-rejection and rework paths,
// never through Advance.
//
// Hold overlays (see Overlay) are orthogonal to Status: they can block forward
// progression without changing the underlying stage.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Draft is the initial status at order entry, before validation.
	Draft

	// PendingOrderEntryValidation awaits office confirmation of the entered order.
	PendingOrderEntryValidation

	// InboundLogisticsPlanned means pickup or delivery of the cylinders has been scheduled.
	InboundLogisticsPlanned

	// InboundInTransit means the cylinders are on their way to the plant.
	InboundInTransit

	// ReceivedPendingReconciliation means the shipment arrived and counts are being reconciled.
	ReceivedPendingReconciliation

	// ReadyForProduction means reconciliation finished and lines may be routed.
	ReadyForProduction

	// InProduction means at least one route instance is being worked.
	InProduction

	// ProductionCompletePendingApproval awaits a supervisor decision on the finished work.
	ProductionCompletePendingApproval

	// ProductionComplete means production was approved. Reachable only through
	// a recorded supervisor decision, never through a plain advance.
	ProductionComplete

	// OutboundLogisticsPlanned means return shipping or pickup has been scheduled.
	OutboundLogisticsPlanned

	// DispatchedOrPickupReleased means the cylinders left the plant.
	DispatchedOrPickupReleased

	// InvoiceReady means the order may be staged for invoicing. Blocked while
	// any rework is open.
	InvoiceReady

	// Invoiced is the final status: the invoice was submitted to the ERP.
	Invoiced
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:                     "Unknown",
		Draft:                             "Draft",
		PendingOrderEntryValidation:       "PendingOrderEntryValidation",
		InboundLogisticsPlanned:           "InboundLogisticsPlanned",
		InboundInTransit:                  "InboundInTransit",
		ReceivedPendingReconciliation:     "ReceivedPendingReconciliation",
		ReadyForProduction:                "ReadyForProduction",
		InProduction:                      "InProduction",
		ProductionCompletePendingApproval: "ProductionCompletePendingApproval",
		ProductionComplete:                "ProductionComplete",
		OutboundLogisticsPlanned:          "OutboundLogisticsPlanned",
		DispatchedOrPickupReleased:        "DispatchedOrPickupReleased",
		InvoiceReady:                      "InvoiceReady",
		Invoiced:                          "Invoiced",
	}
}

// Validate checks that the Status is one of the defined workflow stages.
// StatusUnknown and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > Invoiced {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString resolves a status by its name. Names match what String
// returns; anything else fails with a ValueIsInvalidError.
func StatusFromString(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == name && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("status")
}

// Next returns the immediate successor in the lifecycle sequence.
// The second return value is false for Invoiced (the final status) and for
// invalid values.
func (s Status) Next() (Status, bool) {
	if s.Validate() != nil || s == Invoiced {
		return StatusUnknown, false
	}
	return s + 1, true
}

// Advance validates a transition to target and returns the new status.
//
// Target must be the immediate successor of s. Everything else, including
// skipping ahead, standing still, and moving backward, fails with an
// InvalidTransitionError.
func (s Status) Advance(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}

	next, ok := s.Next()
	if !ok || next != target {
		return StatusUnknown, errs.NewInvalidTransitionError(s.String(), target.String())
	}

	return target, nil
}
