package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Session.TitleMaxLength)
	assert.Equal(t, "Central Idea", cfg.Session.RootLabel)
	assert.Equal(t, "disk", cfg.Storage.Type)
	assert.Equal(t, 10*time.Minute, cfg.Suggestion.CacheTTL)
	assert.Equal(t, uint32(5), cfg.Breaker.MinRequests)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
llm:
  provider: qwen
  temperature: 0.2
storage:
  type: sqlite
  sqlite_path: /tmp/muse.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("MUSE_SESSION_TITLE_MAX_LENGTH", "12")
	t.Setenv("MUSE_LLM_API_KEY", "")
	t.Setenv("LLM_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "qwen", cfg.LLM.Provider)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/muse.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 12, cfg.Session.TitleMaxLength)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
