// Package route contains the routing side of the domain: versioned route
// templates, the tiered assignment rules that pick a template for an order
// line, and the runtime route instances that snapshot a template version and
// drive work through their step instances.
//
// Templates are immutable once instantiated; a revision produces a new
// version and deactivates the old one. Instances therefore never observe
// template edits made after their creation.
//
// Aggregates here follow the usual construction rules: NewX/RestoreX
// factories set an internal flag, and Validate rejects zero-value structs.
package route
