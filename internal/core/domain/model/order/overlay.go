package order

import (
	"fmt"
	"time"

	"cylindertrack/internal/pkg/errs"
)

// Overlay is an orthogonal hold tag that can block forward lifecycle
// progression without changing the underlying status. At most one overlay is
// active per order; applying a second one fails rather than nesting.
type Overlay int

const (
	// OverlayNone means no hold is active.
	OverlayNone Overlay = iota

	// OnHoldCustomer waits on the customer (not ready to receive, unreachable).
	// Applying it requires the customer-contact completeness payload.
	OnHoldCustomer

	// OnHoldQuality waits on an open quality inspection.
	OnHoldQuality

	// OnHoldLogistics waits on carrier or scheduling problems.
	OnHoldLogistics

	// ExceptionQuantityMismatch flags a received count that does not reconcile.
	ExceptionQuantityMismatch

	// ExceptionDocumentation flags missing or inconsistent paperwork.
	ExceptionDocumentation

	// ExceptionErpReconcile flags an ERP bookkeeping discrepancy. This is the
	// one informational overlay: it must not stop physical flow.
	ExceptionErpReconcile

	// ReworkOpen marks an order with at least one open rework request.
	ReworkOpen

	// OverlayCancelled marks a cancelled order.
	OverlayCancelled
)

func getOverlayStrings() map[Overlay]string {
	return map[Overlay]string{
		OverlayNone:               "None",
		OnHoldCustomer:            "OnHoldCustomer",
		OnHoldQuality:             "OnHoldQuality",
		OnHoldLogistics:           "OnHoldLogistics",
		ExceptionQuantityMismatch: "ExceptionQuantityMismatch",
		ExceptionDocumentation:    "ExceptionDocumentation",
		ExceptionErpReconcile:     "ExceptionErpReconcile",
		ReworkOpen:                "ReworkOpen",
		OverlayCancelled:          "Cancelled",
	}
}

// OverlayFromString resolves an overlay by its name. OverlayNone is not
// addressable by name; clearing goes through its own operation.
func OverlayFromString(name string) (Overlay, error) {
	for overlay, str := range getOverlayStrings() {
		if str == name && overlay != OverlayNone {
			return overlay, nil
		}
	}
	return OverlayNone, errs.NewValueIsInvalidError("overlay")
}

// Validate checks that the Overlay is a defined overlay type.
// OverlayNone is valid: it is the cleared state, not an error.
func (o Overlay) Validate() error {
	if o < OverlayNone || o > OverlayCancelled {
		return errs.NewValueIsInvalidErrorWithCause("overlay is invalid",
			fmt.Errorf("%d is not a valid overlay", o))
	}
	return nil
}

// String returns the overlay name. Implements fmt.Stringer.
func (o Overlay) String() string {
	if str, ok := getOverlayStrings()[o]; ok {
		return str
	}
	return "Unknown"
}

// BlocksForwardTransitions reports whether an active overlay of this type
// prevents Advance. Every overlay blocks except the informational
// ExceptionErpReconcile (and OverlayNone itself).
func (o Overlay) BlocksForwardTransitions() bool {
	switch o {
	case OverlayNone, ExceptionErpReconcile:
		return false
	default:
		return true
	}
}

// RequiresCustomerContact reports whether applying this overlay requires the
// customer-contact completeness payload (CustomerHoldDetails).
func (o Overlay) RequiresCustomerContact() bool {
	return o == OnHoldCustomer
}

// CustomerHoldDetails is the completeness payload required when applying
// OnHoldCustomer: when the customer will be retried, when they were last
// reached, and who was spoken to. An incomplete payload is a validation
// error and the overlay is not applied.
type CustomerHoldDetails struct {
	ReadyRetryUtc  time.Time
	LastContactUtc time.Time
	ContactName    string
}

// Validate checks that every field of the payload is present.
func (d CustomerHoldDetails) Validate() error {
	if d.ReadyRetryUtc.IsZero() {
		return errs.NewValueIsRequiredError("customerReadyRetryUtc")
	}
	if d.LastContactUtc.IsZero() {
		return errs.NewValueIsRequiredError("customerReadyLastContactUtc")
	}
	if d.ContactName == "" {
		return errs.NewValueIsRequiredError("contactName")
	}
	return nil
}
