package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5353, cfg.Tap.Port)
	assert.Equal(t, "dnslens.db", cfg.Database.Path)
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"tap": {"host": "127.0.0.1", "port": 1053},
		"database": {"path": "/tmp/audit.db", "retention_days": 30},
		"api": {"enabled": false},
		"logging": {"level": "debug", "format": "json"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Tap.Host)
	assert.Equal(t, 1053, cfg.Tap.Port)
	assert.Equal(t, "/tmp/audit.db", cfg.Database.Path)
	assert.Equal(t, 30, cfg.Database.RetentionDays)
	assert.False(t, cfg.API.Enabled)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DNSLENS_TAP_PORT", "9953")
	t.Setenv("DNSLENS_DB_PATH", "/tmp/env.db")
	t.Setenv("DNSLENS_LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9953, cfg.Tap.Port)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestValidateNormalizes(t *testing.T) {
	cfg := Default()
	cfg.Tap.RecvBufferSize = 100     // below floor
	cfg.Tap.MaxConcurrency = 1000000 // above ceiling
	cfg.Database.RetentionDays = -1  // nonsense
	cfg.Logging.Level = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 512, cfg.Tap.RecvBufferSize)
	assert.Equal(t, 4096, cfg.Tap.MaxConcurrency)
	assert.Equal(t, 7, cfg.Database.RetentionDays)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestValidateRejectsBadPorts(t *testing.T) {
	cfg := Default()
	cfg.Tap.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.API.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Database.Path = ""
	assert.Error(t, cfg.Validate())
}
