package mlacs

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/finsuite/mlacs/core"
	"github.com/finsuite/mlacs/security"
)

// Config defines the closed set of tuning parameters for the framework.
//
// All six options are supplied at construction time; there is no hidden
// environment or file based configuration in the core. ConfigFromEnv exists
// as an optional convenience for embedding programs that prefer environment
// variables.
type Config struct {
	// MaxAgents caps the orchestrator's agent registry. Registration beyond
	// the cap fails with a ResourceExhaustedError.
	MaxAgents int `envconfig:"MAX_AGENTS"`

	// MaxQueueSize is the queue depth above which the system is reported
	// unhealthy. The queue itself is unbounded; this is a health policy, not
	// a hard limit.
	MaxQueueSize int `envconfig:"MAX_QUEUE_SIZE"`

	// MaxLogEntries bounds the communication log; oldest entries are evicted
	// first.
	MaxLogEntries int `envconfig:"MAX_LOG_ENTRIES"`

	// HeartbeatInterval is the period of the background health check loop.
	HeartbeatInterval time.Duration `envconfig:"HEARTBEAT_INTERVAL"`

	// SecurityLevel selects the security manager's strictness tier.
	SecurityLevel security.Level `envconfig:"SECURITY_LEVEL"`

	// PerformanceMonitoring enables the periodic metrics sampler.
	PerformanceMonitoring bool `envconfig:"PERFORMANCE_MONITORING"`
}

// DefaultConfig provides production-ready default configuration values.
var DefaultConfig = Config{
	MaxAgents:             50,
	MaxQueueSize:          1000,
	MaxLogEntries:         500,
	HeartbeatInterval:     30 * time.Second,
	SecurityLevel:         security.LevelStandard,
	PerformanceMonitoring: true,
}

// Validate checks the configuration for malformed values.
func (c Config) Validate() error {
	if c.MaxAgents <= 0 {
		return &core.InvalidConfigurationError{Field: "MaxAgents", Reason: "must be positive"}
	}
	if c.MaxQueueSize <= 0 {
		return &core.InvalidConfigurationError{Field: "MaxQueueSize", Reason: "must be positive"}
	}
	if c.MaxLogEntries <= 0 {
		return &core.InvalidConfigurationError{Field: "MaxLogEntries", Reason: "must be positive"}
	}
	if c.HeartbeatInterval <= 0 {
		return &core.InvalidConfigurationError{Field: "HeartbeatInterval", Reason: "must be positive"}
	}
	return nil
}

// ConfigFromEnv loads configuration from MLACS_* environment variables,
// starting from DefaultConfig so unset variables keep their defaults.
// Example: MLACS_SECURITY_LEVEL=enhanced MLACS_MAX_AGENTS=10.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig
	if err := envconfig.Process("mlacs", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
