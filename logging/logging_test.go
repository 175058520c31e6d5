package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oy3o/binder/config"
)

func setup(t *testing.T, c config.Log) *zap.Logger {
	t.Helper()
	logger, err := Setup(c)
	require.NoError(t, err)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })
	return logger
}

func TestSetup_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "binder.log")
	logger := setup(t, config.Log{Level: "info", Format: "json", Outputs: []string{path}})

	logger.Debug("hidden")
	logger.Info("visible", zap.String("key", "session/1"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.Contains(t, string(data), `"key":"session/1"`)
	assert.NotContains(t, string(data), "hidden")
	assert.Same(t, logger, zap.L())
}

func TestSetup_RotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotated.log")
	logger := setup(t, config.Log{
		Level:    "debug",
		Outputs:  []string{path},
		Rotation: config.Rotation{Enable: true},
	})

	logger.Debug("rotated entry")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotated entry")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zap.DebugLevel,
		" INFO ":  zap.InfoLevel,
		"warning": zap.WarnLevel,
		"warn":    zap.WarnLevel,
		"error":   zap.ErrorLevel,
		"":        zap.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}
