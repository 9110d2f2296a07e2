package commands

import (
	"errors"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/pkg/errs"
	"cylindertrack/internal/pkg/guard"
)

var ErrCreatePolicyVersionCommandIsNotConstructed = errors.New(
	"CreatePolicyVersionCommand must be created via NewCreatePolicyVersionCommand constructor",
)

// CreatePolicyVersionCommand represents a request to draft a new business
// decision policy version with its entries and required signoff roles.
type CreatePolicyVersionCommand struct { //nolint:recvcheck //using for validation
	versionID     kernel.UUID
	versionNo     int
	description   string
	requiredRoles []kernel.Role
	entries       []policy.Entry

	guard guard.ConstructorGuard
}

// NewCreatePolicyVersionCommand creates a command to draft a policy version.
func NewCreatePolicyVersionCommand(
	versionID kernel.UUID,
	versionNo int,
	description string,
	requiredRoles []kernel.Role,
	entries []policy.Entry,
) (CreatePolicyVersionCommand, error) {
	cmd := CreatePolicyVersionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setVersionID(versionID),
		cmd.setVersionNo(versionNo),
		cmd.setEntries(entries),
	); err != nil {
		return CreatePolicyVersionCommand{}, err
	}
	cmd.description = description
	cmd.requiredRoles = requiredRoles

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePolicyVersionCommand) Validate() error {
	return c.guard.Validate(ErrCreatePolicyVersionCommandIsNotConstructed)
}

// VersionID returns the identifier for the new version.
func (c CreatePolicyVersionCommand) VersionID() kernel.UUID { return c.versionID }

// VersionNo returns the version number.
func (c CreatePolicyVersionCommand) VersionNo() int { return c.versionNo }

// Description returns the free-text description.
func (c CreatePolicyVersionCommand) Description() string { return c.description }

// RequiredRoles returns the signoff roles gating activation.
func (c CreatePolicyVersionCommand) RequiredRoles() []kernel.Role { return c.requiredRoles }

// Entries returns the decision entries.
func (c CreatePolicyVersionCommand) Entries() []policy.Entry { return c.entries }

func (c *CreatePolicyVersionCommand) setVersionID(versionID kernel.UUID) error {
	if err := versionID.Validate(); err != nil {
		return err
	}
	c.versionID = versionID
	return nil
}

func (c *CreatePolicyVersionCommand) setVersionNo(versionNo int) error {
	if versionNo <= 0 {
		return errs.NewValueIsInvalidError("versionNo")
	}
	c.versionNo = versionNo
	return nil
}

func (c *CreatePolicyVersionCommand) setEntries(entries []policy.Entry) error {
	if len(entries) == 0 {
		return errs.NewValueIsRequiredError("entries")
	}
	c.entries = entries
	return nil
}
