package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(false, false)
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Debug entries should be suppressed at the default level
	assert.Nil(t, logger.Check(-1, "debug message")) // zapcore.DebugLevel == -1
}

func TestNew_Debug(t *testing.T) {
	logger, err := New(true, true)
	require.NoError(t, err)
	assert.NotNil(t, logger.Check(-1, "debug message"))
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "hello",
			limit:    10,
			expected: "hello",
		},
		{
			name:     "long string truncated",
			input:    "a very long candidate message",
			limit:    6,
			expected: "a very...",
		},
		{
			name:     "zero limit",
			input:    "hello",
			limit:    0,
			expected: "",
		},
		{
			name:     "whitespace trimmed before truncation",
			input:    "  hello  ",
			limit:    10,
			expected: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateForLog(tt.input, tt.limit))
		})
	}
}
