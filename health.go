package mlacs

import "time"

// SystemHealth is a derived snapshot combining registry size, queue size and
// the latest performance metrics into a single healthy/unhealthy signal. It
// is recomputed by the heartbeat loop and by CheckHealth; reads always return
// a copy.
type SystemHealth struct {
	// IsHealthy is true iff at least one agent is active and the queue size
	// is below the configured MaxQueueSize.
	IsHealthy      bool          `json:"is_healthy"`
	ActiveAgents   int           `json:"active_agents"`
	QueueSize      int           `json:"queue_size"`
	CPUUsage       float64       `json:"cpu_usage"`
	MemoryUsage    float64       `json:"memory_usage"`
	AverageLatency time.Duration `json:"average_latency"`
	ErrorRate      float64       `json:"error_rate"`

	// ErrorCount is monotonic: it counts every failure observed on the
	// coordination engine's error stream since initialization.
	ErrorCount  uint64    `json:"error_count"`
	LastError   string    `json:"last_error,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}
