package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "docuchat", cfg.App.Name)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, 30*time.Second, cfg.APITimeout())
	assert.Equal(t, 60*time.Second, cfg.ConversationsTTL())
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://chat.example.com"
token = "file-token"

[ingest]
poll_interval_seconds = 2

[stub]
port = 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com", cfg.API.BaseURL)
	assert.Equal(t, "file-token", cfg.API.Token)
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.Equal(t, "0.0.0.0:9090", cfg.StubAddr())
}

func TestEnvOverridesFileAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\ntoken = \"file-token\"\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_TOKEN", "env-token")
	t.Setenv("API_TIMEOUT_SECONDS", "7")
	t.Setenv("LOG_CONSOLE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.API.Token)
	assert.Equal(t, 7*time.Second, cfg.APITimeout())
	assert.True(t, cfg.Log.Console)
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("API_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.APITimeout())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}
