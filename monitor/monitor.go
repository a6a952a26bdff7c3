package monitor

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/finsuite/mlacs/core"
	"github.com/finsuite/mlacs/logging"
)

const (
	// defaultInterval is the sampling period when none is configured.
	defaultInterval = 10 * time.Second
	// defaultHistoryCap bounds the retained snapshot history.
	defaultHistoryCap = 100
	// throughputWindow is the sliding window used to derive messages per second.
	throughputWindow = time.Minute
	// errorWindow is the sliding window used to derive the error rate.
	errorWindow = 5 * time.Minute
	// subscriberBuffer is the channel buffer per subscriber. Slow subscribers
	// miss snapshots rather than stalling the sampler.
	subscriberBuffer = 8
)

// Metrics is an immutable point-in-time snapshot of system performance.
type Metrics struct {
	Timestamp         time.Time     `json:"timestamp"`
	CPUUsage          float64       `json:"cpu_usage"`    // fraction of one core, [0,1]
	MemoryUsage       float64       `json:"memory_usage"` // fraction of system memory, [0,1]
	MessagesPerSecond float64       `json:"messages_per_second"`
	AverageLatency    time.Duration `json:"average_latency"`
	ErrorRate         float64       `json:"error_rate"` // [0,1]
	Uptime            time.Duration `json:"uptime"`
	TotalMessages     uint64        `json:"total_messages"`
	TotalErrors       uint64        `json:"total_errors"`
}

// Options configures a Monitor.
type Options struct {
	// Interval between sampling ticks. Defaults to 10s.
	Interval time.Duration
	// HistoryCap bounds the retained snapshot history. Defaults to 100.
	HistoryCap int
	// Logger receives sampler lifecycle messages. Defaults to NoOpLogger.
	Logger logging.Logger
	// Clock drives window pruning and snapshot timestamps. Defaults to the
	// system clock.
	Clock core.Clock
}

type latencySample struct {
	at  time.Time
	dur time.Duration
}

// Monitor samples system counters on a fixed interval and retains bounded
// history. It exclusively owns the metrics history; all reads return copies.
type Monitor struct {
	mu         sync.Mutex
	interval   time.Duration
	historyCap int
	logger     logging.Logger
	clock      core.Clock
	proc       *process.Process

	running   bool
	stopCh    chan struct{}
	startedAt time.Time

	msgTimes  []time.Time
	errTimes  []time.Time
	latencies []latencySample

	totalMessages uint64
	totalErrors   uint64

	history []Metrics

	subscribers map[int]chan Metrics
	nextSubID   int
}

// New constructs a Monitor. Sampling does not begin until Start is called.
func New(optFns ...func(o *Options)) *Monitor {
	opts := Options{
		Interval:   defaultInterval,
		HistoryCap: defaultHistoryCap,
		Logger:     logging.NoOpLogger{},
		Clock:      core.SystemClock{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	// Process handle for CPU/memory sampling. A failure here (rare, e.g.
	// restricted /proc) degrades the snapshots to zero usage instead of
	// failing construction.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		opts.Logger.Warn("performance monitor could not attach to own process: %v", err)
		proc = nil
	}

	return &Monitor{
		interval:    opts.Interval,
		historyCap:  opts.HistoryCap,
		logger:      opts.Logger,
		clock:       opts.Clock,
		proc:        proc,
		subscribers: make(map[int]chan Metrics),
	}
}

// Start begins periodic sampling. Calling Start while already running is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.startedAt = m.clock.Now()
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	m.logger.Info("performance monitor started interval=%s", m.interval)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				m.Sample()
			}
		}
	}()
}

// Stop halts periodic sampling. Calling Stop while stopped is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
	m.logger.Info("performance monitor stopped")
}

// Running reports whether the sampler loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RecordMessageProcessed notes that a message completed processing. Feeds the
// sliding throughput and error-rate windows plus the monotonic total.
func (m *Monitor) RecordMessageProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgTimes = append(m.msgTimes, m.clock.Now())
	m.totalMessages++
	m.pruneLocked()
}

// RecordLatency notes the end-to-end routing latency of a delivered message.
func (m *Monitor) RecordLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies = append(m.latencies, latencySample{at: m.clock.Now(), dur: d})
	m.pruneLocked()
}

// RecordError notes a processing failure. Feeds the sliding error-rate window
// plus the monotonic total.
func (m *Monitor) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errTimes = append(m.errTimes, m.clock.Now())
	m.totalErrors++
	m.pruneLocked()
}

// Sample computes a fresh snapshot from current counters and process usage,
// appends it to history (oldest evicted past the cap) and publishes it to
// subscribers. The sampler loop calls this on every tick; tests may call it
// directly for deterministic snapshots.
func (m *Monitor) Sample() Metrics {
	cpu, mem := m.sampleProcess()

	m.mu.Lock()
	m.pruneLocked()
	now := m.clock.Now()

	var uptime time.Duration
	if !m.startedAt.IsZero() {
		uptime = now.Sub(m.startedAt)
	}

	snapshot := Metrics{
		Timestamp:         now,
		CPUUsage:          cpu,
		MemoryUsage:       mem,
		MessagesPerSecond: float64(m.countSinceLocked(m.msgTimes, now.Add(-throughputWindow))) / throughputWindow.Seconds(),
		AverageLatency:    m.averageLatencyLocked(),
		ErrorRate:         m.errorRateLocked(now),
		Uptime:            uptime,
		TotalMessages:     m.totalMessages,
		TotalErrors:       m.totalErrors,
	}

	m.history = append(m.history, snapshot)
	if len(m.history) > m.historyCap {
		m.history = m.history[len(m.history)-m.historyCap:]
	}

	// Publish under the lock: Unsubscribe closes channels while holding it,
	// so sending after unlocking would race a close. The sends are
	// non-blocking, keeping the critical section bounded.
	for _, ch := range m.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Subscriber buffer full; drop rather than block the sampler.
		}
	}
	m.mu.Unlock()

	m.logger.Debug("metrics sampled mps=%.2f error_rate=%.3f cpu=%.3f", snapshot.MessagesPerSecond, snapshot.ErrorRate, snapshot.CPUUsage)
	return snapshot
}

// Current returns the latest snapshot. The boolean is false before the first
// sampling tick.
func (m *Monitor) Current() (Metrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return Metrics{}, false
	}
	return m.history[len(m.history)-1], true
}

// History returns a copy of the retained snapshot history, oldest first.
func (m *Monitor) History() []Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Metrics(nil), m.history...)
}

// Subscribe registers a snapshot receiver. Each sampling tick delivers a copy
// of the new snapshot; slow receivers miss ticks instead of blocking the
// sampler. The returned id is used to Unsubscribe.
func (m *Monitor) Subscribe() (int, <-chan Metrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	ch := make(chan Metrics, subscriberBuffer)
	m.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a receiver and closes its channel.
func (m *Monitor) Unsubscribe(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.subscribers[id]; ok {
		delete(m.subscribers, id)
		close(ch)
	}
}

// sampleProcess reads process CPU and memory usage normalized to [0,1].
func (m *Monitor) sampleProcess() (cpu, mem float64) {
	if m.proc == nil {
		return 0, 0
	}
	if pct, err := m.proc.CPUPercent(); err == nil {
		cpu = clamp01(pct / 100)
	}
	if pct, err := m.proc.MemoryPercent(); err == nil {
		mem = clamp01(float64(pct) / 100)
	}
	return cpu, mem
}

// pruneLocked drops window entries older than the error window (the longer
// of the two windows). Caller must hold the lock.
func (m *Monitor) pruneLocked() {
	cutoff := m.clock.Now().Add(-errorWindow)

	m.msgTimes = pruneTimes(m.msgTimes, cutoff)
	m.errTimes = pruneTimes(m.errTimes, cutoff)

	keep := 0
	for _, s := range m.latencies {
		if !s.at.Before(cutoff) {
			m.latencies[keep] = s
			keep++
		}
	}
	m.latencies = m.latencies[:keep]
}

func pruneTimes(times []time.Time, cutoff time.Time) []time.Time {
	keep := 0
	for _, t := range times {
		if !t.Before(cutoff) {
			times[keep] = t
			keep++
		}
	}
	return times[:keep]
}

func (m *Monitor) countSinceLocked(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, t := range times {
		if !t.Before(cutoff) {
			n++
		}
	}
	return n
}

// errorRateLocked derives errors ÷ messages over the shared 5-minute window.
// Zero observed messages yields rate 0, never a division by zero.
func (m *Monitor) errorRateLocked(now time.Time) float64 {
	cutoff := now.Add(-errorWindow)
	msgs := m.countSinceLocked(m.msgTimes, cutoff)
	if msgs == 0 {
		return 0
	}
	errs := m.countSinceLocked(m.errTimes, cutoff)
	return clamp01(float64(errs) / float64(msgs))
}

func (m *Monitor) averageLatencyLocked() time.Duration {
	if len(m.latencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range m.latencies {
		total += s.dur
	}
	return total / time.Duration(len(m.latencies))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
