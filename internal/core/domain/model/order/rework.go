package order

import (
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// ReworkRequest is one recorded request to rework an order line. Requests
// are kept on the order aggregate for its lifetime; closing a request
// stamps it instead of removing it, so the history survives.
type ReworkRequest struct {
	id          kernel.UUID
	orderID     kernel.UUID
	orderLineID kernel.UUID
	reasonCode  string
	requestedBy string
	note        string
	openedAt    time.Time
	closedAt    *time.Time
	closedBy    string
}

func newReworkRequest(orderID, orderLineID kernel.UUID, reasonCode, requestedBy string) *ReworkRequest {
	return &ReworkRequest{
		id:          kernel.NewUUID(),
		orderID:     orderID,
		orderLineID: orderLineID,
		reasonCode:  reasonCode,
		requestedBy: requestedBy,
		openedAt:    time.Now().UTC(),
	}
}

// RestoreReworkRequest reconstructs a rework request from persistence.
func RestoreReworkRequest(
	id, orderID, orderLineID kernel.UUID,
	reasonCode, requestedBy, note string,
	openedAt time.Time,
	closedAt *time.Time,
	closedBy string,
) (*ReworkRequest, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := orderLineID.Validate(); err != nil {
		return nil, err
	}
	if reasonCode == "" {
		return nil, errs.NewValueIsRequiredError("reasonCode")
	}

	return &ReworkRequest{
		id:          id,
		orderID:     orderID,
		orderLineID: orderLineID,
		reasonCode:  reasonCode,
		requestedBy: requestedBy,
		note:        note,
		openedAt:    openedAt,
		closedAt:    closedAt,
		closedBy:    closedBy,
	}, nil
}

// ID returns the unique identifier of the rework request.
func (r *ReworkRequest) ID() kernel.UUID { return r.id }

// OrderID returns the order the request belongs to.
func (r *ReworkRequest) OrderID() kernel.UUID { return r.orderID }

// OrderLineID returns the line being reworked.
func (r *ReworkRequest) OrderLineID() kernel.UUID { return r.orderLineID }

// ReasonCode returns the policy-validated reason the rework was requested.
func (r *ReworkRequest) ReasonCode() string { return r.reasonCode }

// RequestedBy returns the employee number of the requester.
func (r *ReworkRequest) RequestedBy() string { return r.requestedBy }

// Note returns the free-text note recorded at closure.
func (r *ReworkRequest) Note() string { return r.note }

// OpenedAt returns when the request was opened.
func (r *ReworkRequest) OpenedAt() time.Time { return r.openedAt }

// ClosedAt returns when the request was closed, nil while it is open.
func (r *ReworkRequest) ClosedAt() *time.Time { return r.closedAt }

// ClosedBy returns the employee number that closed the request.
func (r *ReworkRequest) ClosedBy() string { return r.closedBy }

// Open reports whether the request is still awaiting closure.
func (r *ReworkRequest) Open() bool { return r.closedAt == nil }

func (r *ReworkRequest) close(closedBy, note string) {
	now := time.Now().UTC()
	r.closedAt = &now
	r.closedBy = closedBy
	r.note = note
}
