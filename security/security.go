package security

import (
	"fmt"
	"strings"
	"sync"

	"github.com/finsuite/mlacs/core"
	"github.com/finsuite/mlacs/logging"
)

// Level selects how strictly the manager inspects traffic.
type Level int

const (
	// LevelMinimal performs authorization checks only.
	LevelMinimal Level = iota
	// LevelStandard adds payload content blocklist scanning.
	LevelStandard
	// LevelEnhanced adds oversized payload flagging on top of standard.
	LevelEnhanced
	// LevelMaximum reserves a signature verification hook on top of enhanced.
	// The hook is currently a documented no-op extension point, not a
	// guarantee: cryptographic authentication of agents is a stated non-goal.
	LevelMaximum
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelMinimal:
		return "minimal"
	case LevelStandard:
		return "standard"
	case LevelEnhanced:
		return "enhanced"
	case LevelMaximum:
		return "maximum"
	default:
		return "unknown"
	}
}

// Decode implements envconfig.Decoder so a Level can be set from environment
// configuration by name.
func (l *Level) Decode(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "minimal":
		*l = LevelMinimal
	case "standard":
		*l = LevelStandard
	case "enhanced":
		*l = LevelEnhanced
	case "maximum":
		*l = LevelMaximum
	default:
		return fmt.Errorf("unknown security level %q", value)
	}
	return nil
}

// contentBlocklist holds the substrings rejected at standard level and above.
// Matching is case-insensitive over the serialized payload.
var contentBlocklist = []string{"malicious", "attack", "exploit", "injection"}

// maxPayloadBytes is the enhanced-level threshold above which a payload is
// flagged as suspicious without being rejected.
const maxPayloadBytes = 10 * 1024

// defaultMaxEvents bounds the audit event ring.
const defaultMaxEvents = 1000

// Options configures a Manager.
type Options struct {
	// MaxEvents bounds the audit event ring buffer. Defaults to 1000.
	MaxEvents int
	// Logger receives a copy of every audit event. Defaults to NoOpLogger.
	Logger logging.Logger
	// Clock stamps audit events. Defaults to the system clock.
	Clock core.Clock
}

// Manager validates agents and messages against a configurable security
// level. It exclusively owns the authorized/blocked id sets and the audit
// event log; callers interact only through its methods.
type Manager struct {
	mu         sync.RWMutex
	level      Level
	authorized map[string]struct{}
	blocked    map[string]struct{}
	events     []Event
	maxEvents  int
	logger     logging.Logger
	clock      core.Clock
}

// New constructs a Manager operating at the given level.
func New(level Level, optFns ...func(o *Options)) *Manager {
	opts := Options{
		MaxEvents: defaultMaxEvents,
		Logger:    logging.NoOpLogger{},
		Clock:     core.SystemClock{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		level:      level,
		authorized: make(map[string]struct{}),
		blocked:    make(map[string]struct{}),
		maxEvents:  opts.MaxEvents,
		logger:     opts.Logger,
		clock:      opts.Clock,
	}
}

// Level returns the current strictness level.
func (m *Manager) Level() Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.level
}

// SetLevel adjusts the strictness level at runtime.
func (m *Manager) SetLevel(level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
	m.logger.Info("security level changed level=%s", level)
}

// ValidateAgent authorizes an agent for message sending. It fails with a
// SecurityViolationError if the agent id is blocked; otherwise the id joins
// the authorized set. Authorization is monotonic: re-validating an agent
// always re-grants authorization, even after a revoke.
func (m *Manager) ValidateAgent(agentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, isBlocked := m.blocked[agentID]; isBlocked {
		reason := fmt.Sprintf("agent %s is blocked", agentID)
		m.recordLocked(EventUnauthorizedAccess, reason)
		return &core.SecurityViolationError{Reason: reason}
	}

	m.authorized[agentID] = struct{}{}
	m.recordLocked(EventAgentValidated, fmt.Sprintf("agent %s validated", agentID))
	return nil
}

// ValidateMessage checks that the message sender is authorized and that the
// payload passes the level-specific content policy.
func (m *Manager) ValidateMessage(msg core.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.authorized[msg.SenderID]; !ok {
		reason := fmt.Sprintf("sender %s is not authorized", msg.SenderID)
		m.recordLocked(EventUnauthorizedMessage, reason)
		return &core.SecurityViolationError{Reason: reason}
	}

	if err := m.checkContentLocked(msg); err != nil {
		return err
	}

	m.recordLocked(EventMessageValidated, fmt.Sprintf("message %s from %s validated", msg.ID, msg.SenderID))
	return nil
}

// checkContentLocked applies the strictness tiers cumulatively. Caller must
// hold the write lock.
func (m *Manager) checkContentLocked(msg core.Message) error {
	if m.level < LevelStandard {
		return nil
	}

	serialized := msg.Payload.Serialize()
	lowered := strings.ToLower(serialized)
	for _, banned := range contentBlocklist {
		if strings.Contains(lowered, banned) {
			reason := fmt.Sprintf("message %s payload contains blocked content %q", msg.ID, banned)
			m.recordLocked(EventUnauthorizedMessage, reason)
			return &core.SecurityViolationError{Reason: reason}
		}
	}

	if m.level >= LevelEnhanced && len(serialized) > maxPayloadBytes {
		// Flagged, not rejected.
		m.recordLocked(EventSuspiciousActivity, fmt.Sprintf("message %s payload exceeds %d bytes", msg.ID, maxPayloadBytes))
	}

	if m.level >= LevelMaximum {
		if err := m.verifySignatureLocked(msg); err != nil {
			return err
		}
	}

	return nil
}

// verifySignatureLocked is the maximum-level extension point for signature or
// encryption validation. It currently performs no check: cryptographic agent
// authentication is out of scope, and the tier is documented as aspirational.
func (m *Manager) verifySignatureLocked(core.Message) error {
	return nil
}

// BlockAgent adds an agent id to the blocked set, immediately revoking any
// authorization it held.
func (m *Manager) BlockAgent(agentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocked[agentID] = struct{}{}
	delete(m.authorized, agentID)
	m.recordLocked(EventAgentBlocked, fmt.Sprintf("agent %s blocked", agentID))
}

// UnblockAgent removes an agent id from the blocked set. The agent does not
// regain authorization until it is validated again.
func (m *Manager) UnblockAgent(agentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blocked, agentID)
	m.recordLocked(EventAgentUnblocked, fmt.Sprintf("agent %s unblocked", agentID))
}

// IsAuthorized reports whether an agent id is currently authorized.
func (m *Manager) IsAuthorized(agentID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.authorized[agentID]
	return ok
}

// IsBlocked reports whether an agent id is currently blocked.
func (m *Manager) IsBlocked(agentID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blocked[agentID]
	return ok
}

// Events returns a snapshot of the audit log, oldest first.
func (m *Manager) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Event(nil), m.events...)
}

// EventsByType returns the audit entries matching the given type, oldest first.
func (m *Manager) EventsByType(t EventType) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Event
	for _, ev := range m.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// recordLocked appends an audit event, evicting the oldest entry past the
// cap. Caller must hold the write lock.
func (m *Manager) recordLocked(t EventType, details string) {
	ev := newEvent(m.clock, t, details)
	m.events = append(m.events, ev)
	if len(m.events) > m.maxEvents {
		m.events = m.events[len(m.events)-m.maxEvents:]
	}
	m.logger.Debug("security event recorded type=%s severity=%s details=%s", ev.Type, ev.Severity, ev.Details)
}
