// Package kernel provides core domain primitives for the cylinder tracking
// system. It implements fundamental building blocks following Domain-Driven
// Design principles that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Actor: The ambient request identity (employee, role, site, source, correlation id)
//     carried on context.Context and consumed by the lifecycle machine and audit recorder
//   - Role: The business function vocabulary used for permission policies
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are immutable and
// thread-safe, making them suitable for concurrent use.
package kernel
