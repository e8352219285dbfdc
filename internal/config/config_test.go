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
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20262, cfg.Server.Port)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
}

func TestLoadConfigWithInfo_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8088
dev_mode = true

[log]
level = "debug"
format = "json"
`)

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.True(t, cfg.Server.DevMode)
	assert.Equal(t, LogLevelDebug, cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	// 未配置的段保留默认值
	assert.Equal(t, DefaultConfig().Upload.MaxBytes, cfg.Upload.MaxBytes)
}

func TestLoadConfigWithInfo_PortNotSpecified(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"warn\"\n")

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, LogLevelWarn, cfg.Log.Level)
}

func TestLoadConfigWithInfo_ExplicitMissingFile(t *testing.T) {
	_, _, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadConfigWithInfo_InvalidToml(t *testing.T) {
	path := writeConfig(t, "[server\nport = ")
	_, _, err := LoadConfigWithInfo(path)
	require.Error(t, err)
}

func TestLoadConfigWithInfo_InvalidValues(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"loud\"\nformat = \"xml\"\n")
	_, _, err := LoadConfigWithInfo(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoadConfigWithInfo_EnvOverrides(t *testing.T) {
	t.Setenv("XMLSEARCH_PORT", "9191")
	t.Setenv("XMLSEARCH_LOG_LEVEL", "ERROR")

	path := writeConfig(t, "")
	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, LogLevelError, cfg.Log.Level)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Server.Port = 7000

	require.NoError(t, SaveConfig(cfg, path))

	loaded, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 7000, loaded.Server.Port)
}
