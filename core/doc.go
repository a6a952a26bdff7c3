// Package core provides the foundational domain types and contracts used by
// MLACS. It defines the core abstractions for:
//
//   - Messages (immutable prioritized communication records)
//   - Payloads (closed tagged-union scalar values with total serialization)
//   - Agents (externally supplied addressable units consumed by the framework)
//   - Channels (named multi-party agent groupings)
//   - Clocks (injectable time sources for deterministic testing)
//   - The framework error taxonomy
//
// The package intentionally keeps implementation concerns (queueing, routing,
// security policy, metrics sampling) out of scope, exposing small interfaces
// so the framework packages and external agent implementations share a single
// vocabulary without depending on each other.
package core
