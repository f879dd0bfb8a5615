package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLevel("bogus")
	assert.EqualError(t, err, `unknown log level "bogus"`)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_DEV", "true")
	t.Setenv("LOG_LEVEL", "warn")

	l, err := NewFromEnv()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNewFromEnvRejectsBadSettings(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := NewFromEnv()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "xml")
	_, err = NewFromEnv()
	assert.EqualError(t, err, `unknown log format "xml"`)
}

func TestNewWritesToOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankdash.log")
	cfg := DefaultConfig()
	cfg.Output = path

	l, err := New(cfg)
	require.NoError(t, err)
	l.Named("seeder").Info("seeding finished")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"logger":"seeder"`)
	assert.Contains(t, string(data), "seeding finished")
}

func TestGlobalFallsBackToNop(t *testing.T) {
	SetGlobal(nil)
	require.NotNil(t, L())
	L().Named("test").Info("discarded")
}
