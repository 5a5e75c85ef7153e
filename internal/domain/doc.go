// Package domain contains the core domain entities and value objects for
// recship.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (HTTP, serialization libraries,
// logging) and contains only pure business logic.
//
// # Entities
//
//   - [Message]: A single upsert/switch-view record submitted by a caller
//   - [Record]: The wire mapping derived from a Message plus client defaults
//   - [Defaults]: Client-level identity and fallback values
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
