// Package audit implements the field-level audit recorder: explicit
// before/after snapshots of orders and order lines, diffed against a static
// field list into append-only records written in the same unit of work as
// the mutation they describe.
package audit
