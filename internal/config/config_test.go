package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 1, cfg.LLMRetries)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_TIMEOUT", "10s")
	t.Setenv("LLM_RETRIES", "2")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("DATA_DIR", "/tmp/conversations")
	t.Setenv("DATABASE_URL", "postgres://localhost/talentscout")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 2, cfg.LLMRetries)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "/tmp/conversations", cfg.DataDir)
	assert.Equal(t, "postgres://localhost/talentscout", cfg.DatabaseURL)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("LLM_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative port",
			mutate:  func(c *Config) { c.Port = -1 },
			wantErr: "port",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.LLMTimeout = 0 },
			wantErr: "LLM_TIMEOUT",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.LLMRetries = -1 },
			wantErr: "LLM_RETRIES",
		},
		{
			name:    "zero session TTL",
			mutate:  func(c *Config) { c.SessionTTL = 0 },
			wantErr: "SESSION_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:       8080,
				LLMTimeout: time.Second,
				LLMRetries: 1,
				SessionTTL: time.Minute,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
