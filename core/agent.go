package core

import "context"

// Agent defines the contract every agent registered with MLACS must implement.
//
// Agents are externally supplied processing units. The framework owns their
// lifecycle transitions (unregistered → active → deactivated) but not their
// behavior: an implementation decides what activation means and how delivered
// messages are processed.
//
// Implementations must:
//   - Return a stable opaque id for the lifetime of the agent
//   - Respect context cancellation in HandleMessage for graceful shutdown
//   - Be safe for concurrent HandleMessage calls, or serialize internally
type Agent interface {
	// ID returns the agent's stable opaque identity.
	ID() string

	// Info returns identifying details used in logs and events.
	Info() AgentInfo

	// Activate transitions the agent into its active state. Called by the
	// coordination engine during registration, before any routing occurs.
	Activate(ctx context.Context) error

	// Deactivate transitions the agent out of its active state. Called by
	// the coordination engine during unregistration.
	Deactivate(ctx context.Context) error

	// HandleMessage accepts a delivered message and processes it. A returned
	// error is surfaced on the coordination engine's error stream and to the
	// sender; the framework does not retry automatically.
	HandleMessage(ctx context.Context, msg Message) error
}

// AgentInfo carries identifying details about an agent used in logs & events.
// Name is the human readable identifier; Type categorizes the implementation
// (e.g. "assistant", "worker", "monitor").
type AgentInfo struct{ Name, Type string }
