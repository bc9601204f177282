package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "av.log")
	logger, err := NewLogger(LoggerOptions{Level: "warn", Outputs: []string{path}})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	logger.Info("hidden")
	logger.Warn("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLogger_VerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "av.log")
	logger, err := NewLogger(LoggerOptions{Level: "error", Outputs: []string{path}, Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(LoggerOptions{Level: "chatty"})
	assert.Error(t, err)
}
