// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration for the screening assistant.
// Values come from environment variables; only the Gemini API key is
// required, everything else has a sensible default.
type Config struct {
	// Server
	Port int // HTTP listen port

	// Language model
	APIKey      string        // Gemini API key (required)
	LLMTimeout  time.Duration // Per-call deadline for model requests
	LLMRetries  int           // Additional attempts after the first failure
	Temperature float32       // Generation temperature
	MaxTokens   int           // Generation token cap

	// Sessions
	SessionTTL      time.Duration // Idle time before a session is discarded
	CleanupInterval time.Duration // How often idle sessions are swept

	// Archive
	DataDir     string // Directory for file-based conversation records
	DatabaseURL string // Optional; Postgres archive when set

	// Logging
	LogJSON  bool
	LogDebug bool
}

// Load reads configuration from the environment.
// A missing GEMINI_API_KEY is a startup-time fatal error; nothing else is.
func Load() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	cfg := &Config{
		Port:            getEnvInt("PORT", 8080),
		APIKey:          apiKey,
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		LLMRetries:      getEnvInt("LLM_RETRIES", 1),
		Temperature:     float32(getEnvFloat("LLM_TEMPERATURE", 0.7)),
		MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 500),
		SessionTTL:      getEnvDuration("SESSION_TTL", 30*time.Minute),
		CleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute),
		DataDir:         getEnvString("DATA_DIR", "data"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogJSON:         getEnvBool("LOG_JSON", false),
		LogDebug:        getEnvBool("LOG_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port must be between 1 and 65535, got %d", c.Port)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("config error: LLM_TIMEOUT must be positive")
	}
	if c.LLMRetries < 0 {
		return fmt.Errorf("config error: LLM_RETRIES must be non-negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config error: SESSION_TTL must be positive")
	}
	return nil
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as a float with a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
