package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
	}{
		{in: "debug", expected: zapcore.DebugLevel},
		{in: " INFO ", expected: zapcore.InfoLevel},
		{in: "warning", expected: zapcore.WarnLevel},
		{in: "error", expected: zapcore.ErrorLevel},
		{in: "", expected: zapcore.InfoLevel},
		{in: "verbose", expected: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, levelFromString(tt.in))
		})
	}
}

func TestNew_LevelGate(t *testing.T) {
	lg, err := New(Options{Level: "warn"})
	require.NoError(t, err)

	assert.False(t, lg.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, lg.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_WritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.log")

	lg, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	lg.Info("cart updated")
	_ = lg.Sync()

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	body, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "cart updated")
}
