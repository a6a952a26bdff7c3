package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageType categorizes the intent of a message. The set is closed; agents
// that need application-specific semantics use MessageTypeCustom and encode
// details in the payload.
type MessageType string

const (
	// MessageTypeHeartbeat is a liveness probe sent to an agent.
	MessageTypeHeartbeat MessageType = "heartbeat"
	// MessageTypeHeartbeatResponse answers a heartbeat probe.
	MessageTypeHeartbeatResponse MessageType = "heartbeat-response"
	// MessageTypeStatus requests an agent's current status.
	MessageTypeStatus MessageType = "status"
	// MessageTypeStatusResponse answers a status request.
	MessageTypeStatusResponse MessageType = "status-response"
	// MessageTypeTask assigns work to an agent.
	MessageTypeTask MessageType = "task"
	// MessageTypeTaskResponse reports the outcome of assigned work.
	MessageTypeTaskResponse MessageType = "task-response"
	// MessageTypeData carries application data between agents.
	MessageTypeData MessageType = "data"
	// MessageTypeCommand instructs an agent to perform a control action.
	MessageTypeCommand MessageType = "command"
	// MessageTypeNotification is a one-way informational message.
	MessageTypeNotification MessageType = "notification"
	// MessageTypeError reports a failure condition to an agent.
	MessageTypeError MessageType = "error"
	// MessageTypeShutdown asks an agent to stop processing.
	MessageTypeShutdown MessageType = "shutdown"
	// MessageTypeBroadcast marks a message fanned out to all active agents.
	MessageTypeBroadcast MessageType = "broadcast"
	// MessageTypeCustom is the extension point for application semantics.
	MessageTypeCustom MessageType = "custom"
)

// Priority orders message delivery. Higher values drain first; within a
// priority tier delivery is first-in-first-out.
type Priority int

const (
	// PriorityLow is background traffic.
	PriorityLow Priority = iota
	// PriorityNormal is the default tier.
	PriorityNormal
	// PriorityHigh is expedited traffic.
	PriorityHigh
	// PriorityCritical preempts all other tiers.
	PriorityCritical
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Message is the unit of communication between agents. After construction it
// should be treated as immutable; Attempts is the single mutable field and
// only the framework's retry accounting touches it. It captures:
//   - Correlation (ID, SenderID, ReceiverID)
//   - Intent (Type) and delivery ordering (Priority)
//   - Application data (Payload, a closed scalar union)
//   - High precision UTC timestamp
type Message struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"sender_id"`
	ReceiverID string      `json:"receiver_id"`
	Type       MessageType `json:"type"`
	Payload    Payload     `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Priority   Priority    `json:"priority"`
	Attempts   int         `json:"attempts"`
}

// NewMessage creates a message with a fresh id and UTC timestamp. Prefer the
// typed helpers (NewTaskMessage, NewHeartbeatMessage) for common intents.
func NewMessage(senderID, receiverID string, mt MessageType, payload Payload, priority Priority) Message {
	return Message{
		ID:         NewID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       mt,
		Payload:    payload,
		Timestamp:  time.Now().UTC(),
		Priority:   priority,
	}
}

// NewTaskMessage creates a high level task assignment message.
func NewTaskMessage(senderID, receiverID string, payload Payload) Message {
	return NewMessage(senderID, receiverID, MessageTypeTask, payload, PriorityHigh)
}

// NewHeartbeatMessage creates a low priority liveness probe.
func NewHeartbeatMessage(senderID, receiverID string) Message {
	return NewMessage(senderID, receiverID, MessageTypeHeartbeat, nil, PriorityLow)
}

// NewNotificationMessage creates a normal priority one-way notification.
func NewNotificationMessage(senderID, receiverID string, payload Payload) Message {
	return NewMessage(senderID, receiverID, MessageTypeNotification, payload, PriorityNormal)
}

// Readdress returns a copy of the message bound to a new receiver with a
// fresh id and timestamp. Sender, type, payload and priority are preserved.
// Used by broadcast fan-out where each recipient gets an independent message.
func (m Message) Readdress(receiverID string) Message {
	return Message{
		ID:         NewID(),
		SenderID:   m.SenderID,
		ReceiverID: receiverID,
		Type:       m.Type,
		Payload:    m.Payload,
		Timestamp:  time.Now().UTC(),
		Priority:   m.Priority,
	}
}

// NewID generates a new unique identifier for messages, agents, channels and
// security events.
func NewID() string { return uuid.NewString() }

// UnixSeconds returns the timestamp as fractional seconds since Unix epoch.
// Useful for metrics & numeric serialization paths.
func (m Message) UnixSeconds() float64 { return float64(m.Timestamp.UnixNano()) / 1e9 }
