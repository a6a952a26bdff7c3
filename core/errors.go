package core

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when a framework or engine operation is
// attempted before Initialize succeeded.
var ErrNotInitialized = errors.New("framework not initialized")

// AgentNotFoundError indicates an operation referenced an agent id with no
// registry or routing table entry.
type AgentNotFoundError struct {
	AgentID string
}

// Error implements the error interface.
func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent %s not found", e.AgentID)
}

// SecurityViolationError indicates an authorization or content-policy
// failure. Reason carries the human readable detail that is also recorded in
// the security event log.
type SecurityViolationError struct {
	Reason string
}

// Error implements the error interface.
func (e *SecurityViolationError) Error() string {
	return fmt.Sprintf("security violation: %s", e.Reason)
}

// CommunicationError indicates a routing or message-handling failure surfaced
// from the coordination engine. It wraps the underlying agent error.
type CommunicationError struct {
	MessageID string
	AgentID   string
	Err       error
}

// Error implements the error interface.
func (e *CommunicationError) Error() string {
	return fmt.Sprintf("communication failure delivering message %s to agent %s: %v", e.MessageID, e.AgentID, e.Err)
}

// Unwrap exposes the underlying handler error for errors.Is/As chains.
func (e *CommunicationError) Unwrap() error { return e.Err }

// ResourceExhaustedError indicates a configured capacity limit was reached.
type ResourceExhaustedError struct {
	Resource string
	Limit    int
}

// Error implements the error interface.
func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("resource exhausted: %s limit of %d reached", e.Resource, e.Limit)
}

// InvalidConfigurationError indicates a malformed framework configuration.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
