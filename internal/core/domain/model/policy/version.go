package policy

import (
	"errors"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/pkg/errs"
)

// ErrVersionIsNotConstructed is returned when a Version was not created via
// NewVersion or RestoreVersion.
var ErrVersionIsNotConstructed = errors.New("Version must be created via NewVersion or RestoreVersion")

// Version is a numbered set of business decision entries. A version goes
// live only after every required function role has signed off; activation
// deactivates the previously active version (handled by the caller, which
// sees both).
type Version struct {
	id            kernel.UUID
	versionNo     int
	description   string
	requiredRoles []kernel.Role
	entries       []Entry
	signoffs      []Signoff
	active        bool
	createdAt     time.Time
	activatedAt   *time.Time

	isConstructed bool
}

// NewVersion creates a draft policy version with its entries. requiredRoles
// names the function roles whose signoff gates activation; an empty list
// means the version can activate without signoffs.
func NewVersion(
	id kernel.UUID,
	versionNo int,
	description string,
	requiredRoles []kernel.Role,
	entries []Entry,
) (*Version, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if versionNo <= 0 {
		return nil, errs.NewValueIsInvalidError("versionNo")
	}
	if len(entries) == 0 {
		return nil, errs.NewValueIsRequiredError("entries")
	}
	seen := map[string]struct{}{}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		key := entryIdentity(e)
		if _, dup := seen[key]; dup {
			return nil, errs.NewValueIsInvalidError("duplicate decision entry: " + e.DecisionKey)
		}
		seen[key] = struct{}{}
	}

	return &Version{
		id:            id,
		versionNo:     versionNo,
		description:   description,
		requiredRoles: requiredRoles,
		entries:       entries,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreVersion reconstructs a policy version from persistence.
func RestoreVersion(
	id kernel.UUID,
	versionNo int,
	description string,
	requiredRoles []kernel.Role,
	entries []Entry,
	signoffs []Signoff,
	active bool,
	createdAt time.Time,
	activatedAt *time.Time,
) (*Version, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Version{
		id:            id,
		versionNo:     versionNo,
		description:   description,
		requiredRoles: requiredRoles,
		entries:       entries,
		signoffs:      signoffs,
		active:        active,
		createdAt:     createdAt,
		activatedAt:   activatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Version was created through a factory method.
func (v *Version) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrVersionIsNotConstructed
	}
	return nil
}

// ID returns the version identifier.
func (v *Version) ID() kernel.UUID { return v.id }

// VersionNo returns the version number.
func (v *Version) VersionNo() int { return v.versionNo }

// Description returns the free-text description.
func (v *Version) Description() string { return v.description }

// RequiredRoles returns the roles whose signoff gates activation.
func (v *Version) RequiredRoles() []kernel.Role { return v.requiredRoles }

// Entries returns the decision entries.
func (v *Version) Entries() []Entry { return v.entries }

// Signoffs returns the recorded signoffs.
func (v *Version) Signoffs() []Signoff { return v.signoffs }

// IsActive reports whether this version is live.
func (v *Version) IsActive() bool { return v.active }

// CreatedAt returns the creation time.
func (v *Version) CreatedAt() time.Time { return v.createdAt }

// ActivatedAt returns when the version went live, nil for drafts.
func (v *Version) ActivatedAt() *time.Time { return v.activatedAt }

// RecordSignoff adds a function role's approval. The role must be in the
// required set and must not have signed before.
func (v *Version) RecordSignoff(signoff Signoff) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if v.active {
		return errs.NewValueIsInvalidError("version is already active")
	}
	if err := signoff.Validate(); err != nil {
		return err
	}
	if !containsRole(v.requiredRoles, signoff.Role) {
		return errs.NewValueIsInvalidError("role " + string(signoff.Role) + " is not a required signoff role")
	}
	for _, existing := range v.signoffs {
		if existing.Role == signoff.Role {
			return errs.NewValueIsInvalidError("role " + string(signoff.Role) + " has already signed off")
		}
	}
	v.signoffs = append(v.signoffs, signoff)
	return nil
}

// MissingSignoffs returns the required roles that have not signed yet.
func (v *Version) MissingSignoffs() []kernel.Role {
	var missing []kernel.Role
	for _, role := range v.requiredRoles {
		signed := false
		for _, s := range v.signoffs {
			if s.Role == role {
				signed = true
				break
			}
		}
		if !signed {
			missing = append(missing, role)
		}
	}
	return missing
}

// Activate makes the version live. Fails while any required signoff is
// outstanding.
func (v *Version) Activate() error {
	if err := v.Validate(); err != nil {
		return err
	}
	if v.active {
		return errs.NewValueIsInvalidError("version is already active")
	}
	if missing := v.MissingSignoffs(); len(missing) > 0 {
		return errs.NewBlockedError("signoffs outstanding for roles: " + joinRoles(missing))
	}
	now := time.Now().UTC()
	v.active = true
	v.activatedAt = &now
	return nil
}

// Deactivate retires the version when a successor activates.
func (v *Version) Deactivate() error {
	if err := v.Validate(); err != nil {
		return err
	}
	if !v.active {
		return errs.NewValueIsInvalidError("version is not active")
	}
	v.active = false
	return nil
}

// Value resolves the decision value for a key with most-specific-scope-wins
// semantics: customer scope beats site scope beats global. Returns false
// when no entry covers the key for the given context.
func (v *Version) Value(decisionKey string, siteID, customerID *kernel.UUID) (string, bool) {
	var best *Entry
	bestRank := -1
	for idx := range v.entries {
		e := &v.entries[idx]
		if e.DecisionKey != decisionKey {
			continue
		}
		rank, ok := scopeRank(e, siteID, customerID)
		if ok && rank > bestRank {
			best = e
			bestRank = rank
		}
	}
	if best == nil {
		return "", false
	}
	return best.Value, true
}

func scopeRank(e *Entry, siteID, customerID *kernel.UUID) (int, bool) {
	switch e.ScopeType {
	case ScopeCustomer:
		if customerID != nil && e.CustomerID.IsEqual(*customerID) {
			return 2, true
		}
	case ScopeSite:
		if siteID != nil && e.SiteID.IsEqual(*siteID) {
			return 1, true
		}
	case ScopeGlobal:
		return 0, true
	}
	return 0, false
}

func entryIdentity(e Entry) string {
	key := e.DecisionKey + "|" + string(e.ScopeType)
	if e.SiteID != nil {
		key += "|" + e.SiteID.String()
	}
	if e.CustomerID != nil {
		key += "|" + e.CustomerID.String()
	}
	return key
}

func containsRole(roles []kernel.Role, role kernel.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func joinRoles(roles []kernel.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += ", "
		}
		out += string(r)
	}
	return out
}
