package engine

import (
	"context"
	"sync"

	"github.com/finsuite/mlacs/core"
	"github.com/finsuite/mlacs/logging"
)

// errorStreamBuffer bounds the error stream. When the orchestrator falls
// behind, the oldest unobserved failures are dropped in favor of keeping the
// routing path non-blocking.
const errorStreamBuffer = 64

// Options configures an Engine instance.
type Options struct {
	// Logger provides structured logging for routing decisions.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Clock stamps channel activity. Defaults to the system clock.
	Clock core.Clock
}

// Engine coordinates message delivery between registered agents.
//
// The engine holds references to agents it has been told to route to; it does
// not own them. Exclusive agent ownership stays with the orchestrator's
// registry. It exclusively owns the channel registry.
//
// Concurrency model:
//   - Routing table and channel registry guarded by a single RWMutex
//   - RouteMessage resolves the target under a read lock, then invokes the
//     handler outside the lock so one slow agent never blocks the table
//   - Handler failures surface on a buffered error stream in addition to the
//     synchronous return value
type Engine struct {
	mu          sync.RWMutex
	initialized bool
	routes      map[string]core.Agent
	channels    map[string]core.Channel

	errCh  chan error
	logger logging.Logger
	clock  core.Clock
}

// New creates an Engine. Initialize must be called before any routing or
// registration operation.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Clock:  core.SystemClock{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		routes:   make(map[string]core.Agent),
		channels: make(map[string]core.Channel),
		errCh:    make(chan error, errorStreamBuffer),
		logger:   opts.Logger,
		clock:    opts.Clock,
	}
}

// Initialize readies the engine for routing. Safe to call more than once;
// subsequent calls are no-ops.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	e.initialized = true
	e.logger.Info("coordination engine initialized")
	return nil
}

// Initialized reports whether Initialize has been called.
func (e *Engine) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// RegisterAgent activates the agent and adds it to the routing table,
// transitioning it unregistered → active. Replaces any existing entry with
// the same id.
func (e *Engine) RegisterAgent(ctx context.Context, a core.Agent) error {
	if err := e.requireInitialized(); err != nil {
		return err
	}

	if err := a.Activate(ctx); err != nil {
		return &core.CommunicationError{AgentID: a.ID(), Err: err}
	}

	e.mu.Lock()
	e.routes[a.ID()] = a
	e.mu.Unlock()

	e.logger.Info("agent registered agent_id=%s name=%s", a.ID(), a.Info().Name)
	return nil
}

// UnregisterAgent deactivates the agent and removes it from the routing
// table, transitioning it active → unregistered. Deactivation failures are
// surfaced on the error stream but do not abort removal.
func (e *Engine) UnregisterAgent(ctx context.Context, agentID string) error {
	if err := e.requireInitialized(); err != nil {
		return err
	}

	e.mu.Lock()
	a, ok := e.routes[agentID]
	if ok {
		delete(e.routes, agentID)
	}
	e.mu.Unlock()

	if !ok {
		return &core.AgentNotFoundError{AgentID: agentID}
	}

	if err := a.Deactivate(ctx); err != nil {
		e.reportError(&core.CommunicationError{AgentID: agentID, Err: err})
	}

	e.logger.Info("agent unregistered agent_id=%s", agentID)
	return nil
}

// RouteMessage hands the message to its receiver's mailbox-handling
// capability. Fails with AgentNotFound when the receiver has no routing
// entry. A handler failure is wrapped as a CommunicationError, pushed onto
// the error stream and returned; the engine never retries.
func (e *Engine) RouteMessage(ctx context.Context, msg core.Message) error {
	if err := e.requireInitialized(); err != nil {
		return err
	}

	e.mu.RLock()
	a, ok := e.routes[msg.ReceiverID]
	e.mu.RUnlock()

	if !ok {
		return &core.AgentNotFoundError{AgentID: msg.ReceiverID}
	}

	// Handler runs outside the table lock; it is caller-supplied code that
	// may itself do I/O.
	if err := a.HandleMessage(ctx, msg); err != nil {
		commErr := &core.CommunicationError{MessageID: msg.ID, AgentID: msg.ReceiverID, Err: err}
		e.reportError(commErr)
		return commErr
	}

	e.touchChannels(msg)
	e.logger.Debug("message routed message_id=%s receiver_id=%s type=%s", msg.ID, msg.ReceiverID, msg.Type)
	return nil
}

// CreateChannel validates that every participant is currently routable and
// stores the channel. On validation failure the channel is not stored.
func (e *Engine) CreateChannel(ch core.Channel) error {
	if err := e.requireInitialized(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, participant := range ch.Participants {
		if _, ok := e.routes[participant]; !ok {
			return &core.AgentNotFoundError{AgentID: participant}
		}
	}

	e.channels[ch.ID] = ch.Clone()
	e.logger.Info("channel created channel_id=%s name=%s participants=%d", ch.ID, ch.Name, len(ch.Participants))
	return nil
}

// Channel returns a copy of the channel with the given id.
func (e *Engine) Channel(channelID string) (core.Channel, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ch, ok := e.channels[channelID]
	if !ok {
		return core.Channel{}, false
	}
	return ch.Clone(), true
}

// Channels returns copies of all stored channels.
func (e *Engine) Channels() []core.Channel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]core.Channel, 0, len(e.channels))
	for _, ch := range e.channels {
		out = append(out, ch.Clone())
	}
	return out
}

// ActiveAgentIDs returns the ids currently present in the routing table.
func (e *Engine) ActiveAgentIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.routes))
	for id := range e.routes {
		ids = append(ids, id)
	}
	return ids
}

// IsRoutable reports whether an agent id has a routing table entry.
func (e *Engine) IsRoutable(agentID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.routes[agentID]
	return ok
}

// Errors exposes the engine's error stream. The orchestrator drains it to
// fold routing failures into system health; it is observability only and
// never replaces the error returned to the sender.
func (e *Engine) Errors() <-chan error {
	return e.errCh
}

// touchChannels bumps activity counters on channels whose membership
// includes both endpoints of a delivered message.
func (e *Engine) touchChannels(msg core.Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, ch := range e.channels {
		if ch.HasParticipant(msg.SenderID) && ch.HasParticipant(msg.ReceiverID) {
			ch.LastActivity = e.clock.Now()
			ch.MessageCount++
			e.channels[id] = ch
		}
	}
}

func (e *Engine) requireInitialized() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.initialized {
		return core.ErrNotInitialized
	}
	return nil
}

// reportError pushes a failure onto the error stream without blocking the
// routing path. When the stream is full the failure is logged and dropped.
func (e *Engine) reportError(err error) {
	select {
	case e.errCh <- err:
	default:
		e.logger.Warn("error stream full, dropping: %v", err)
	}
}
