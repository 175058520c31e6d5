package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "binder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
  outputs: [stdout]
storage:
  kind: DynamoDB
  table: blobs
  region: us-east-1
binder:
  strict: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"stdout"}, cfg.Log.Outputs)
	assert.Equal(t, StorageDynamoDB, cfg.Storage.Kind, "kind is normalized")
	assert.Equal(t, "blobs", cfg.Storage.Table)
	assert.True(t, cfg.Binder.Strict)
	// untouched keys keep their defaults
	assert.Equal(t, 50, cfg.Log.Rotation.MaxSizeMB)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "storage:\n  kind: none\n")
	t.Setenv("BINDER_STORAGE_KIND", "memory")
	t.Setenv("BINDER_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Kind)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "storage:\n  kind: memory\n")
	t.Setenv("BINDER_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Kind)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"Level", "log:\n  level: loud\n", "log.level"},
		{"Kind", "storage:\n  kind: s3\n", "storage.kind"},
		{"MissingTable", "storage:\n  kind: dynamodb\n  region: us-east-1\n", "storage.table"},
		{"MissingRegion", "storage:\n  kind: dynamodb\n  table: blobs\n", "storage.region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yaml")) })
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, StorageNone, cfg.Storage.Kind)
	assert.False(t, cfg.Binder.Strict)
}
