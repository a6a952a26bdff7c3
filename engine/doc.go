// Package engine implements the MLACS coordination engine.
//
// The engine owns the routing table (references to registered agents) and the
// channel registry, and is the single component that hands messages to agent
// mailbox-handling capabilities.
//
// # Core Responsibilities
//
// Agent Routing:
//   - Thread-safe routing table keyed by agent id
//   - Lifecycle transitions: registration activates an agent, unregistration
//     deactivates it before removal
//   - RouteMessage delivery with AgentNotFound on unknown receivers
//
// Channel Management:
//   - Creation-time validation that every participant is currently routable
//   - Exclusive ownership of stored channels; reads return copies
//
// Error Surfacing:
//   - Handler failures are returned to the caller and additionally pushed
//     onto a buffered error stream the orchestrator observes; the stream is
//     an observability channel, never a substitute for the returned error
//   - No automatic retries: retry policy belongs to senders
//
// Every mutating operation fails fast with core.ErrNotInitialized until
// Initialize has been called. Initialize itself is idempotent.
package engine
