package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"input_dir": "/game", "mode": "encrypt", "workers": 3, "image_format": "webp"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/game", cfg.InputDir)
	assert.Equal(t, "encrypt", cfg.Mode)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "webp", cfg.ImageFormat)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "input_dir: /game\nkey: d41d8cd98f00b204e9800998ecf8427e\nmax_image_size: 512\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/game", cfg.InputDir)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", cfg.Key)
	assert.Equal(t, 512, cfg.MaxImageSize)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, "{")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestResolve_FlagsOverrideAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "www", "data", "System.json"), `{"encryptionKey":"abc"}`)

	cfg := Config{InputDir: "/elsewhere", Workers: 2, OutputDir: "out"}
	cfg.Resolve(Flags{InputDir: dir, Key: "k", Workers: 5})

	assert.Equal(t, dir, cfg.InputDir)
	assert.Equal(t, "k", cfg.Key)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.Equal(t, filepath.Join(dir, "www", "data", "System.json"), cfg.SystemJSON)
	assert.Equal(t, "decrypt", cfg.Mode)
	assert.Equal(t, "mz", cfg.Engine)
	assert.Equal(t, "png", cfg.ImageFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestResolve_DefaultOutputFollowsMode(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{InputDir: dir, Mode: "encrypt"}
	cfg.Resolve(Flags{})

	assert.Equal(t, filepath.Join(dir, "encrypted"), cfg.OutputDir)
	assert.Empty(t, cfg.SystemJSON)
	assert.Positive(t, cfg.Workers)
}

func TestLoadSystemKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "System.json")
	writeFile(t, path, "\ufeff"+`{"gameTitle":"x","encryptionKey":"d41d8cd98f00b204e9800998ecf8427e","hasEncryptedImages":true}`)

	key, err := LoadSystemKey(path)
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", key)
}

func TestLoadSystemKey_NoKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "System.json")
	writeFile(t, path, `{"gameTitle":"x"}`)

	key, err := LoadSystemKey(path)
	require.NoError(t, err)
	assert.Empty(t, key)
}
