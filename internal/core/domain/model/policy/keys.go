package policy

// Decision keys consulted by the lifecycle and overlay operations. Values
// are comma-separated lists parsed with ParseRoles / ParseReasonCodes.

const (
	// advanceRolesPrefix keys which roles may advance an order into a
	// status, e.g. "lifecycle.advance.roles.InProduction".
	advanceRolesPrefix = "lifecycle.advance.roles."

	// overlayReasonsPrefix keys the reason-code catalog per overlay type,
	// e.g. "overlay.reasons.OnHoldQuality".
	overlayReasonsPrefix = "overlay.reasons."

	// overlayReleaseRolesPrefix keys which roles may clear an overlay type.
	overlayReleaseRolesPrefix = "overlay.release.roles."

	// KeyPromiseReviseRoles keys which roles may revise a promise date.
	KeyPromiseReviseRoles = "lifecycle.promise.revise.roles"

	// KeyReworkRequestRoles keys which roles may open a rework request.
	KeyReworkRequestRoles = "route.rework.request.roles"
)

// AdvanceRolesKey returns the decision key governing the transition into the
// named status.
func AdvanceRolesKey(toStatus string) string {
	return advanceRolesPrefix + toStatus
}

// OverlayReasonsKey returns the decision key holding the reason-code catalog
// for the named overlay type.
func OverlayReasonsKey(overlay string) string {
	return overlayReasonsPrefix + overlay
}

// OverlayReleaseRolesKey returns the decision key governing who may clear
// the named overlay type.
func OverlayReleaseRolesKey(overlay string) string {
	return overlayReleaseRolesPrefix + overlay
}
