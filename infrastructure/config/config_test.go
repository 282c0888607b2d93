package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.JobAttempts)
	assert.Equal(t, 5*time.Second, cfg.JobRetryDelay)
	assert.Equal(t, 5, cfg.WorkerConcurrency)
	assert.Equal(t, ":5000", cfg.ServerAddress)
	assert.Equal(t, "wechat", cfg.MongoDatabase)
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	// Arrange
	t.Setenv("JOB_ATTEMPTS", "5")
	t.Setenv("JOB_RETRY_DELAY_MS", "250")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("LOG_LEVEL", "debug")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.JobAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.JobRetryDelay)
	assert.Equal(t, 8, cfg.WorkerConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero attempts", func(c *Config) { c.JobAttempts = 0 }},
		{"zero concurrency", func(c *Config) { c.WorkerConcurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRequiresSecretsInProduction(t *testing.T) {
	// Arrange
	cfg, err := LoadConfig()
	require.NoError(t, err)
	cfg.Environment = "production"
	cfg.JWTSecret = ""

	// Assert
	assert.Error(t, cfg.Validate())
}
