package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		// CleanupInterval left zero so tests don't spawn the sweeper.
		Whitelist: make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Path: "/sessions", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
			{Path: "/sessions/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 3},
		},
	}
}

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("10.0.0.1", "/sessions", "POST")
		assert.True(t, allowed, "request %d should be allowed", i)
		assert.Equal(t, 10, info.Limit)
	}
}

func TestLimiter_BlocksBeyondBurst(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/sessions", "POST")
		require.True(t, allowed)
	}

	allowed, info := l.Allow("10.0.0.1", "/sessions", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/sessions", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.1", "/sessions", "POST")
	require.False(t, allowed)

	allowed, _ = l.Allow("10.0.0.2", "/sessions", "POST")
	assert.True(t, allowed, "a different client has its own bucket")
}

func TestLimiter_PrefixMatchCoversMessageEndpoint(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	path := "/sessions/2f0cbb9a-9f2e-4c44-9a1c-0c6f7a3d9b10/messages"
	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", path, "POST")
		require.True(t, allowed)
		assert.Equal(t, 60, info.Limit)
	}

	allowed, _ := l.Allow("10.0.0.1", path, "POST")
	assert.False(t, allowed)
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/sessions", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_WhitelistBypassesLimits(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist["10.0.0.9"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.9", "/sessions", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("10.0.0.1", "/health", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_DefaultLimitForUnmatchedEndpoints(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, info := l.Allow("10.0.0.1", "/sessions/abc", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := testConfig().EndpointConfigs

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact match", path: "/sessions", method: "POST", wantLimit: 10},
		{name: "prefix match", path: "/sessions/abc/messages", method: "POST", wantLimit: 60},
		{name: "health special case", path: "/health", method: "GET", wantLimit: 0},
		{name: "method mismatch", path: "/sessions", method: "DELETE", wantNil: true},
		{name: "unknown path", path: "/unknown", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	// 100 tokens/second so the refill is visible within the test.
	tb := newTokenBucket(1, 100)

	require.True(t, tb.allow())
	require.False(t, tb.allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, tb.allow())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	require.True(t, cfg.Enabled)
	assert.Equal(t, 300, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}

func TestLoadConfig_Whitelist(t *testing.T) {
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Whitelist["10.0.0.1"])
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	assert.False(t, cfg.Whitelist["10.0.0.3"])
}

func ExampleMatchEndpoint() {
	configs := DefaultEndpointConfigs()
	cfg := MatchEndpoint("/sessions", "POST", configs)
	fmt.Println(cfg.Limit)
	// Output: 30
}
