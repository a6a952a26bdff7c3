package mlacs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsuite/mlacs/core"
	"github.com/finsuite/mlacs/security"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig.Validate())
	assert.Equal(t, 50, DefaultConfig.MaxAgents)
	assert.Equal(t, 1000, DefaultConfig.MaxQueueSize)
	assert.Equal(t, 500, DefaultConfig.MaxLogEntries)
	assert.Equal(t, 30*time.Second, DefaultConfig.HeartbeatInterval)
	assert.Equal(t, security.LevelStandard, DefaultConfig.SecurityLevel)
	assert.True(t, DefaultConfig.PerformanceMonitoring)
}

func TestValidateRejectsNonPositiveValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero max agents", func(c *Config) { c.MaxAgents = 0 }, "MaxAgents"},
		{"negative queue size", func(c *Config) { c.MaxQueueSize = -1 }, "MaxQueueSize"},
		{"zero log entries", func(c *Config) { c.MaxLogEntries = 0 }, "MaxLogEntries"},
		{"zero heartbeat", func(c *Config) { c.HeartbeatInterval = 0 }, "HeartbeatInterval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			tt.mutate(&cfg)

			err := cfg.Validate()
			var invalid *core.InvalidConfigurationError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestConfigFromEnvKeepsDefaultsWhenUnset(t *testing.T) {
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, cfg)
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("MLACS_MAX_AGENTS", "10")
	t.Setenv("MLACS_SECURITY_LEVEL", "enhanced")
	t.Setenv("MLACS_HEARTBEAT_INTERVAL", "5s")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxAgents)
	assert.Equal(t, security.LevelEnhanced, cfg.SecurityLevel)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	// Untouched options keep their defaults.
	assert.Equal(t, DefaultConfig.MaxQueueSize, cfg.MaxQueueSize)
}

func TestConfigFromEnvRejectsInvalid(t *testing.T) {
	t.Setenv("MLACS_MAX_AGENTS", "0")

	_, err := ConfigFromEnv()
	var invalid *core.InvalidConfigurationError
	assert.ErrorAs(t, err, &invalid)
}
