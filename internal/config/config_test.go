package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/trail/internal/api"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingOptionalFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, BackendJSON, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(DataDir(), "store"), cfg.Store.Path)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("TRAIL_TEST_DB", "/tmp/trail-test.db")
	path := writeFile(t, "config.yaml", `
api:
  base_url: "https://example.test"
  timeout: "2s"
  concurrency: 8
store:
  backend: sqlite
  path: "${TRAIL_TEST_DB}"
search:
  debounce: "150ms"
logging:
  level: debug
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, 8, cfg.API.Concurrency)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/trail-test.db", cfg.Store.Path)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[api]
offline = true
base_url = ""

[store]
backend = "memory"

[ui]
theme = "mono"
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.True(t, cfg.API.Offline)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "mono", cfg.UI.Theme)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://localhost:3000")
	t.Setenv(EnvStore, BackendMemory)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad duration", "api:\n  timeout: soon\n"},
		{"bad scheme", "api:\n  base_url: ftp://example.test\n"},
		{"bad backend", "store:\n  backend: redis\n"},
		{"zero concurrency", "api:\n  concurrency: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", tt.content), true)
			assert.Error(t, err)
		})
	}
}

func TestStateDir_XDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	assert.Equal(t, filepath.Join("/var/state", "trail"), StateDir())
}
