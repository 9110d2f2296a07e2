// Package policy models versioned business decisions: who may perform which
// lifecycle transition, which reason codes an overlay accepts, and similar
// configurable thresholds the rest of the core reads instead of hard-coding.
//
// A Version carries decision entries scoped globally, per site, or per
// customer, and activates only after every required function role has
// signed off.
package policy
