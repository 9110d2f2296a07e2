package policy

import (
	"strings"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// ScopeType narrows where a decision entry applies. A customer-scoped entry
// beats a site-scoped one, which beats a global one, for the same key.
type ScopeType string

const (
	ScopeGlobal   ScopeType = "Global"
	ScopeSite     ScopeType = "Site"
	ScopeCustomer ScopeType = "Customer"
)

// Entry is one business decision value inside a policy version, uniquely
// identified by (version, decisionKey, scopeType, siteID?, customerID?).
type Entry struct {
	ID          kernel.UUID
	DecisionKey string
	ScopeType   ScopeType
	SiteID      *kernel.UUID
	CustomerID  *kernel.UUID
	Value       string
}

// Validate checks key presence and scope/reference consistency.
func (e Entry) Validate() error {
	if err := e.ID.Validate(); err != nil {
		return err
	}
	if e.DecisionKey == "" {
		return errs.NewValueIsRequiredError("decisionKey")
	}
	switch e.ScopeType {
	case ScopeGlobal:
		if e.SiteID != nil || e.CustomerID != nil {
			return errs.NewValueIsInvalidError("global entry must not reference a site or customer")
		}
	case ScopeSite:
		if e.SiteID == nil {
			return errs.NewValueIsRequiredError("siteID")
		}
	case ScopeCustomer:
		if e.CustomerID == nil {
			return errs.NewValueIsRequiredError("customerID")
		}
	default:
		return errs.NewValueIsInvalidError("scopeType")
	}
	return nil
}

// Signoff is one function role's approval of a policy version.
type Signoff struct {
	ID       kernel.UUID
	Role     kernel.Role
	SignedBy string
	SignedAt time.Time
	Note     string
}

// Validate checks the signoff fields.
func (s Signoff) Validate() error {
	if err := s.ID.Validate(); err != nil {
		return err
	}
	if s.Role == kernel.RoleUnspecified {
		return errs.NewValueIsRequiredError("role")
	}
	if s.SignedBy == "" {
		return errs.NewValueIsRequiredError("signedBy")
	}
	return nil
}

// ParseRoles splits a comma-separated decision value into roles.
// Values look like "Production,Supervisor".
func ParseRoles(value string) []kernel.Role {
	var roles []kernel.Role
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			roles = append(roles, kernel.Role(part))
		}
	}
	return roles
}

// ParseReasonCodes splits a comma-separated decision value into reason codes.
func ParseReasonCodes(value string) []string {
	var codes []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			codes = append(codes, part)
		}
	}
	return codes
}
