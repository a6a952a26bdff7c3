// Package mlacs provides the Multi-Agent Communication System framework: a
// high-level façade wiring the coordination engine, security manager,
// performance monitor and priority message queue into a single orchestrator.
// Most applications interact with this package by:
//  1. Creating a Framework via New() (optionally overriding config, logger, clock)
//  2. Calling Initialize to start the health loop and metrics sampler
//  3. Registering one or more agents (any core.Agent implementation)
//  4. Sending prioritized messages (SendMessage) or fanning out to every
//     active agent (BroadcastMessage)
//
// The façade delegates routing to engine.Engine and policy to
// security.Manager while keeping setup and usage ergonomics concise. All
// defaults are safe for local development and testing; production embeddings
// typically supply a structured logger and tuned Config.
package mlacs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/finsuite/mlacs/core"
	"github.com/finsuite/mlacs/engine"
	"github.com/finsuite/mlacs/logging"
	"github.com/finsuite/mlacs/monitor"
	"github.com/finsuite/mlacs/queue"
	"github.com/finsuite/mlacs/security"
)

// Options configures the Framework instance.
type Options struct {
	// Config contains the framework tuning parameters. Defaults to
	// DefaultConfig if not specified.
	Config Config

	// Logger provides structured logging for all components. Defaults to
	// NoOp logger if nil.
	Logger logging.Logger

	// Clock is the time source injected into every component. Defaults to
	// the system clock; tests substitute a deterministic implementation.
	Clock core.Clock
}

// Framework is the top-level orchestrator aggregating the coordination
// engine, security manager, performance monitor and message queue.
//
// Ownership: the framework exclusively owns the agent registry, the message
// queue, the bounded communication log and the SystemHealth snapshot. The
// engine holds agent references for routing; the security manager owns the
// authorization sets and audit log; the monitor owns the metrics history.
// Cross-component access goes through each owner's public operations only.
type Framework struct {
	cfg    Config
	logger logging.Logger
	clock  core.Clock

	queue    *queue.Queue
	security *security.Manager
	monitor  *monitor.Monitor
	engine   *engine.Engine

	mu          sync.RWMutex
	initialized bool
	agents      map[string]core.Agent
	commLog     []core.Message
	health      SystemHealth

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Framework with optional overrides. Initialize must be called
// before any other mutating operation.
func New(optFns ...func(o *Options)) *Framework {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
		Clock:  core.SystemClock{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Framework{
		cfg:    opts.Config,
		logger: logging.ForComponent(opts.Logger, "framework"),
		clock:  opts.Clock,
		queue:  queue.New(),
		security: security.New(opts.Config.SecurityLevel, func(o *security.Options) {
			o.Logger = logging.ForComponent(opts.Logger, "security")
			o.Clock = opts.Clock
		}),
		monitor: monitor.New(func(o *monitor.Options) {
			o.Logger = logging.ForComponent(opts.Logger, "monitor")
			o.Clock = opts.Clock
		}),
		engine: engine.New(func(o *engine.Options) {
			o.Logger = logging.ForComponent(opts.Logger, "engine")
			o.Clock = opts.Clock
		}),
		agents: make(map[string]core.Agent),
	}
}

// Initialize validates configuration, readies the coordination engine,
// starts the performance sampler (when enabled), the heartbeat loop and the
// engine error observer. Calling Initialize on an initialized framework is a
// no-op.
func (f *Framework) Initialize(ctx context.Context) error {
	f.mu.Lock()
	if f.initialized {
		f.mu.Unlock()
		return nil
	}

	if err := f.cfg.Validate(); err != nil {
		f.mu.Unlock()
		return err
	}

	if err := f.engine.Initialize(); err != nil {
		f.mu.Unlock()
		return fmt.Errorf("failed to initialize coordination engine: %w", err)
	}

	f.initialized = true
	f.stopCh = make(chan struct{})
	f.mu.Unlock()

	if f.cfg.PerformanceMonitoring {
		f.monitor.Start()
	}

	f.wg.Add(2)
	go f.heartbeatLoop()
	go f.observeEngineErrors()

	f.updateHealth()
	f.logger.Info("framework initialized security_level=%s heartbeat_interval=%s", f.cfg.SecurityLevel, f.cfg.HeartbeatInterval)
	return nil
}

// Shutdown stops the background loops, halts the sampler and deactivates
// every registered agent. The framework cannot be reused afterwards.
func (f *Framework) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	if !f.initialized {
		f.mu.Unlock()
		return core.ErrNotInitialized
	}
	f.initialized = false
	close(f.stopCh)
	ids := make([]string, 0, len(f.agents))
	for id := range f.agents {
		ids = append(ids, id)
	}
	f.agents = make(map[string]core.Agent)
	f.mu.Unlock()

	f.wg.Wait()
	f.monitor.Stop()

	var result *multierror.Error
	for _, id := range ids {
		if err := f.engine.UnregisterAgent(ctx, id); err != nil {
			result = multierror.Append(result, err)
		}
	}

	f.logger.Info("framework shut down agents_deactivated=%d", len(ids))
	return result.ErrorOrNil()
}

// RegisterAgent validates the agent against security policy, adds it to the
// exclusive registry and activates it via the coordination engine. Fails with
// ResourceExhaustedError when the MaxAgents cap is reached.
func (f *Framework) RegisterAgent(ctx context.Context, a core.Agent) error {
	if err := f.requireInitialized(); err != nil {
		return err
	}

	// The cap check and the registry insert share one critical section so
	// concurrent registrations cannot overshoot MaxAgents. The slot is
	// reserved up front and released again if a later step rejects the agent.
	f.mu.Lock()
	if len(f.agents) >= f.cfg.MaxAgents {
		f.mu.Unlock()
		return &core.ResourceExhaustedError{Resource: "agents", Limit: f.cfg.MaxAgents}
	}
	f.agents[a.ID()] = a
	f.mu.Unlock()

	if err := f.security.ValidateAgent(a.ID()); err != nil {
		f.mu.Lock()
		delete(f.agents, a.ID())
		f.mu.Unlock()
		return err
	}

	if err := f.engine.RegisterAgent(ctx, a); err != nil {
		f.mu.Lock()
		delete(f.agents, a.ID())
		f.mu.Unlock()
		return err
	}

	f.logger.Info("agent registered agent_id=%s name=%s type=%s", a.ID(), a.Info().Name, a.Info().Type)
	return nil
}

// RemoveAgent unregisters the agent from the coordination engine and removes
// it from the registry.
func (f *Framework) RemoveAgent(ctx context.Context, agentID string) error {
	if err := f.requireInitialized(); err != nil {
		return err
	}

	f.mu.Lock()
	_, ok := f.agents[agentID]
	f.mu.Unlock()
	if !ok {
		return &core.AgentNotFoundError{AgentID: agentID}
	}

	if err := f.engine.UnregisterAgent(ctx, agentID); err != nil {
		return err
	}

	f.mu.Lock()
	delete(f.agents, agentID)
	f.mu.Unlock()

	f.logger.Info("agent removed agent_id=%s", agentID)
	return nil
}

// SendMessage validates the message, enqueues it in priority order, then
// drains and routes the highest-priority buffered message. The routed message
// is appended to the bounded communication log and its latency recorded.
//
// Under concurrent sends the drained message may differ from the one this
// call enqueued; priority order at the routing boundary is what the queue
// guarantees, not per-call identity.
func (f *Framework) SendMessage(ctx context.Context, msg core.Message) error {
	if err := f.requireInitialized(); err != nil {
		return err
	}

	if err := f.security.ValidateMessage(msg); err != nil {
		return err
	}

	f.queue.Enqueue(msg)

	next, ok := f.queue.Dequeue()
	if !ok {
		// A concurrent sender drained the buffer; its route call carried the
		// message onward.
		return nil
	}

	start := f.clock.Now()
	err := f.engine.RouteMessage(ctx, next)
	elapsed := f.clock.Now().Sub(start)

	// Every routed attempt feeds the throughput window and the error-rate
	// denominator; failures additionally feed the error window. Recording
	// only successes would report a zero error rate for a fully failing
	// system.
	f.monitor.RecordMessageProcessed()
	if err != nil {
		f.monitor.RecordError()
		return err
	}

	f.monitor.RecordLatency(elapsed)
	f.appendCommLog(next)

	f.logger.Debug("message sent message_id=%s receiver_id=%s priority=%s", next.ID, next.ReceiverID, next.Priority)
	return nil
}

// BroadcastMessage fans the message out to every currently active agent.
// Each recipient gets an independently addressed copy with a fresh id and
// timestamp, validated and sent on its own. Broadcast is best-effort: a
// failure for one recipient does not abort the remaining fan-out; all
// per-recipient failures are aggregated into the returned error.
func (f *Framework) BroadcastMessage(ctx context.Context, msg core.Message) error {
	if err := f.requireInitialized(); err != nil {
		return err
	}

	ids := f.engine.ActiveAgentIDs()
	sort.Strings(ids)

	var result *multierror.Error
	failures := 0
	for _, id := range ids {
		if err := f.SendMessage(ctx, msg.Readdress(id)); err != nil {
			result = multierror.Append(result, fmt.Errorf("broadcast to %s: %w", id, err))
			failures++
		}
	}

	f.logger.Debug("broadcast completed recipients=%d failures=%d", len(ids), failures)
	return result.ErrorOrNil()
}

// CreateChannel constructs a channel and registers it with the coordination
// engine. Fails with AgentNotFound when any participant is not registered.
func (f *Framework) CreateChannel(ctx context.Context, name string, participantIDs []string) (core.Channel, error) {
	if err := f.requireInitialized(); err != nil {
		return core.Channel{}, err
	}

	ch := core.NewChannel(name, participantIDs)
	if err := f.engine.CreateChannel(ch); err != nil {
		return core.Channel{}, err
	}
	return ch, nil
}

// Channels returns copies of all stored channels.
func (f *Framework) Channels() []core.Channel {
	return f.engine.Channels()
}

// Agent returns the registered agent with the given id.
func (f *Framework) Agent(agentID string) (core.Agent, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.agents[agentID]
	return a, ok
}

// Agents returns identifying details for every registered agent, sorted by
// name for deterministic output.
func (f *Framework) Agents() []core.AgentInfo {
	f.mu.RLock()
	infos := make([]core.AgentInfo, 0, len(f.agents))
	for _, a := range f.agents {
		infos = append(infos, a.Info())
	}
	f.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// CommunicationLog returns a copy of the bounded delivered-message log,
// oldest first.
func (f *Framework) CommunicationLog() []core.Message {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]core.Message(nil), f.commLog...)
}

// PerformanceMetrics returns the monitor's latest snapshot. The boolean is
// false before the first sampling tick.
func (f *Framework) PerformanceMetrics() (monitor.Metrics, bool) {
	return f.monitor.Current()
}

// SampleMetrics forces an immediate sampling pass and returns the fresh
// snapshot, without waiting for the monitor's next tick.
func (f *Framework) SampleMetrics() monitor.Metrics {
	return f.monitor.Sample()
}

// MetricsHistory returns the monitor's retained snapshot history.
func (f *Framework) MetricsHistory() []monitor.Metrics {
	return f.monitor.History()
}

// SecurityEvents returns a snapshot of the security audit log.
func (f *Framework) SecurityEvents() []security.Event {
	return f.security.Events()
}

// BlockAgent adds an agent id to the security manager's blocked set.
func (f *Framework) BlockAgent(agentID string) {
	f.security.BlockAgent(agentID)
}

// UnblockAgent removes an agent id from the security manager's blocked set.
func (f *Framework) UnblockAgent(agentID string) {
	f.security.UnblockAgent(agentID)
}

// Health returns the current SystemHealth snapshot.
func (f *Framework) Health() SystemHealth {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.health
}

// CheckHealth recomputes and returns the SystemHealth snapshot. The
// heartbeat loop calls this on every tick; callers may invoke it directly
// for an up-to-date reading.
func (f *Framework) CheckHealth() SystemHealth {
	return f.updateHealth()
}

// QueueSize returns the number of currently buffered messages.
func (f *Framework) QueueSize() int {
	return f.queue.Size()
}

func (f *Framework) requireInitialized() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.initialized {
		return core.ErrNotInitialized
	}
	return nil
}

func (f *Framework) appendCommLog(msg core.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commLog = append(f.commLog, msg)
	if len(f.commLog) > f.cfg.MaxLogEntries {
		f.commLog = f.commLog[len(f.commLog)-f.cfg.MaxLogEntries:]
	}
}

// updateHealth recomputes SystemHealth from the active agent count, queue
// size and latest metrics snapshot.
func (f *Framework) updateHealth() SystemHealth {
	activeAgents := len(f.engine.ActiveAgentIDs())
	queueSize := f.queue.Size()
	metrics, _ := f.monitor.Current()

	f.mu.Lock()
	f.health.IsHealthy = activeAgents >= 1 && queueSize < f.cfg.MaxQueueSize
	f.health.ActiveAgents = activeAgents
	f.health.QueueSize = queueSize
	f.health.CPUUsage = metrics.CPUUsage
	f.health.MemoryUsage = metrics.MemoryUsage
	f.health.AverageLatency = metrics.AverageLatency
	f.health.ErrorRate = metrics.ErrorRate
	f.health.LastUpdated = f.clock.Now()
	snapshot := f.health
	f.mu.Unlock()

	f.logger.Debug("health check healthy=%t active_agents=%d queue_size=%d", snapshot.IsHealthy, activeAgents, queueSize)
	return snapshot
}

// heartbeatLoop recomputes system health every HeartbeatInterval until
// Shutdown.
func (f *Framework) heartbeatLoop() {
	defer f.wg.Done()
	ticker := time.NewTicker(f.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-f.stopCh:
			return
		case <-ticker.C:
			f.updateHealth()
		}
	}
}

// observeEngineErrors folds failures surfaced on the coordination engine's
// error stream into SystemHealth. These are reported failures, never fatal
// to the process.
func (f *Framework) observeEngineErrors() {
	defer f.wg.Done()
	for {
		select {
		case <-f.stopCh:
			return
		case err := <-f.engine.Errors():
			f.mu.Lock()
			f.health.ErrorCount++
			f.health.LastError = err.Error()
			f.mu.Unlock()
			f.logger.Warn("engine reported failure: %v", err)
		}
	}
}
