package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
asset_base_path = "data"
worker_count = 3
max_texture_count = 16
placeholder_size = 64
watch_assets = true
models = ["a.gltf", "b.glb"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.AssetBasePath)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, 16, cfg.MaxTextureCount)
	assert.Equal(t, 64, cfg.PlaceholderSize)
	assert.True(t, cfg.WatchAssets)
	assert.Equal(t, []string{"a.gltf", "b.glb"}, cfg.Models)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `asset_base_path = "data"`)

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.WorkerCount, cfg.WorkerCount)
	assert.Equal(t, def.MaxTextureCount, cfg.MaxTextureCount)
	assert.Equal(t, def.PlaceholderSize, cfg.PlaceholderSize)
	assert.False(t, cfg.WatchAssets)
}

func TestLoadSanitizesValues(t *testing.T) {
	path := writeConfig(t, `
worker_count = -2
placeholder_size = 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Greater(t, cfg.WorkerCount, 0)
	assert.Equal(t, 32, cfg.PlaceholderSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `worker_count = [not toml`)
	_, err := Load(path)
	assert.Error(t, err)
}
