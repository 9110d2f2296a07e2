package http

import "time"

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LineRequest is one order line in a create-order request.
type LineRequest struct {
	LineID        string  `json:"lineId"`
	ItemID        string  `json:"itemId"`
	ItemType      string  `json:"itemType"`
	Quantity      int     `json:"quantity"`
	ShipViaID     *string `json:"shipViaId,omitempty"`
	OrderPriority *int    `json:"orderPriority,omitempty"`
}

// CreateOrderRequest creates an order with its lines in one call.
type CreateOrderRequest struct {
	OrderID       string        `json:"orderId"`
	OrderNo       string        `json:"orderNo"`
	CustomerID    string        `json:"customerId"`
	SiteID        string        `json:"siteId"`
	RequestedDate *time.Time    `json:"requestedDate,omitempty"`
	Lines         []LineRequest `json:"lines"`
}

// AdvanceStatusRequest names the status the order should move to.
type AdvanceStatusRequest struct {
	TargetStatus string `json:"targetStatus"`
}

// CustomerHoldRequest is the completeness payload of a customer hold.
type CustomerHoldRequest struct {
	ReadyRetryUtc  time.Time `json:"readyRetryUtc"`
	LastContactUtc time.Time `json:"lastContactUtc"`
	ContactName    string    `json:"contactName"`
}

// ApplyHoldRequest applies one hold overlay to an order.
type ApplyHoldRequest struct {
	Overlay      string               `json:"overlay"`
	ReasonCode   string               `json:"reasonCode"`
	Note         string               `json:"note,omitempty"`
	CustomerHold *CustomerHoldRequest `json:"customerHold,omitempty"`
}

// ClearHoldRequest releases the active hold overlay.
type ClearHoldRequest struct {
	Note string `json:"note,omitempty"`
}

// RevisePromiseDateRequest moves the committed promise date.
type RevisePromiseDateRequest struct {
	NewDate    time.Time `json:"newDate"`
	ReasonCode string    `json:"reasonCode"`
}

// InstantiateRouteRequest creates a route instance for an order line.
type InstantiateRouteRequest struct {
	OrderID    string  `json:"orderId"`
	LineID     string  `json:"lineId"`
	TemplateID *string `json:"templateId,omitempty"`
	AutoStart  bool    `json:"autoStart"`
}

// CaptureRequest records one capture row against a step.
type CaptureRequest struct {
	Kind              string  `json:"kind"`
	ItemID            *string `json:"itemId,omitempty"`
	Quantity          float64 `json:"quantity,omitempty"`
	ScrapQuantity     int     `json:"scrapQuantity,omitempty"`
	ReasonCode        string  `json:"reasonCode,omitempty"`
	SerialNo          string  `json:"serialNo,omitempty"`
	ChecklistItemCode string  `json:"checklistItemCode,omitempty"`
	ChecklistRequired bool    `json:"checklistRequired,omitempty"`
	ChecklistOutcome  string  `json:"checklistOutcome,omitempty"`
	Note              string  `json:"note,omitempty"`
}

// CompleteStepRequest completes a step with optional operator notes.
type CompleteStepRequest struct {
	Notes string `json:"notes,omitempty"`
}

// DurationOverrideRequest replaces a step's measured duration.
type DurationOverrideRequest struct {
	Minutes int    `json:"minutes"`
	Reason  string `json:"reason"`
}

// SupervisorDecisionRequest approves or rejects a gated route.
type SupervisorDecisionRequest struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note,omitempty"`
}

// RequestReworkRequest reopens a completed route from a step.
type RequestReworkRequest struct {
	FromSequence int    `json:"fromSequence"`
	ReasonCode   string `json:"reasonCode"`
}

// CloseReworkRequest closes the open rework on a route.
type CloseReworkRequest struct {
	Note string `json:"note,omitempty"`
}

// PolicyEntryRequest is one decision entry of a new policy version.
type PolicyEntryRequest struct {
	DecisionKey string  `json:"decisionKey"`
	ScopeType   string  `json:"scopeType"`
	SiteID      *string `json:"siteId,omitempty"`
	CustomerID  *string `json:"customerId,omitempty"`
	Value       string  `json:"value"`
}

// CreatePolicyVersionRequest creates one versioned policy set.
type CreatePolicyVersionRequest struct {
	VersionID     string               `json:"versionId"`
	VersionNo     int                  `json:"versionNo"`
	Description   string               `json:"description"`
	RequiredRoles []string             `json:"requiredRoles"`
	Entries       []PolicyEntryRequest `json:"entries"`
}

// PolicySignoffRequest records the calling actor's signoff.
type PolicySignoffRequest struct {
	Note string `json:"note,omitempty"`
}

// MigrateLegacyStatusesRequest runs the legacy status backfill.
type MigrateLegacyStatusesRequest struct {
	DryRun bool `json:"dryRun"`
}

// MigrationRowResponse is one order's outcome in a backfill run.
type MigrationRowResponse struct {
	OrderID      string `json:"orderId"`
	OrderNo      string `json:"orderNo"`
	LegacyStatus string `json:"legacyStatus"`
	Proposed     string `json:"proposed,omitempty"`
	RuleApplied  string `json:"ruleApplied,omitempty"`
	Skipped      bool   `json:"skipped"`
	SkipReason   string `json:"skipReason,omitempty"`
}
