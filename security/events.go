package security

import (
	"time"

	"github.com/finsuite/mlacs/core"
)

// EventType categorizes security audit events. The set is closed; severity is
// derived from the type and never supplied by callers.
type EventType string

const (
	// EventAgentValidated records a successful agent validation.
	EventAgentValidated EventType = "agent-validated"
	// EventAgentBlocked records an agent id being added to the blocked set.
	EventAgentBlocked EventType = "agent-blocked"
	// EventAgentUnblocked records an agent id being removed from the blocked set.
	EventAgentUnblocked EventType = "agent-unblocked"
	// EventMessageValidated records a successful message validation.
	EventMessageValidated EventType = "message-validated"
	// EventUnauthorizedAccess records a blocked or unknown agent attempting validation.
	EventUnauthorizedAccess EventType = "unauthorized-access"
	// EventUnauthorizedMessage records a message from an unauthorized sender or with rejected content.
	EventUnauthorizedMessage EventType = "unauthorized-message"
	// EventSuspiciousActivity records traffic flagged but not rejected.
	EventSuspiciousActivity EventType = "suspicious-activity"
	// EventSecurityBreach is reserved for confirmed policy breaches.
	EventSecurityBreach EventType = "security-breach"
)

// Severity grades an event for consumers that filter or alert on the log.
type Severity string

const (
	// SeverityInfo marks routine audit entries.
	SeverityInfo Severity = "info"
	// SeverityWarning marks flagged-but-allowed activity.
	SeverityWarning Severity = "warning"
	// SeverityError marks rejected traffic.
	SeverityError Severity = "error"
	// SeverityCritical marks confirmed breaches.
	SeverityCritical Severity = "critical"
)

// severityFor maps each event type to its fixed severity.
func severityFor(t EventType) Severity {
	switch t {
	case EventAgentValidated, EventAgentUnblocked, EventMessageValidated:
		return SeverityInfo
	case EventAgentBlocked, EventSuspiciousActivity:
		return SeverityWarning
	case EventUnauthorizedAccess, EventUnauthorizedMessage:
		return SeverityError
	case EventSecurityBreach:
		return SeverityCritical
	default:
		return SeverityInfo
	}
}

// Event is an append-only audit record. Once appended it is never mutated;
// the log is a bounded ring with oldest-first eviction.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
	Severity  Severity  `json:"severity"`
}

func newEvent(clock core.Clock, t EventType, details string) Event {
	return Event{
		ID:        core.NewID(),
		Type:      t,
		Timestamp: clock.Now(),
		Details:   details,
		Severity:  severityFor(t),
	}
}
