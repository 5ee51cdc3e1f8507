package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"eduinsight/backend/config"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger(&config.LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := NewLogger(&config.LogConfig{Level: "verbose"})
	assert.Error(t, err)

	_, err = NewLogger(&config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
